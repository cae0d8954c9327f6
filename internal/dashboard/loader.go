package dashboard

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"wrapped/internal/logging"
	"wrapped/internal/viewing"
)

// Fingerprint identifies one version of a file on disk.
type Fingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

func (f Fingerprint) equal(other Fingerprint) bool {
	return f.Path == other.Path && f.Size == other.Size && f.ModTime.Equal(other.ModTime)
}

// Dataset is a parsed enriched viewing history.
type Dataset struct {
	Fingerprint Fingerprint
	Records     []viewing.Record
}

// Loader reads datasets and memoizes the most recent one per path.
// It is safe for concurrent use.
type Loader struct {
	logger *slog.Logger

	mu    sync.Mutex
	cache map[string]*Dataset
	reads int
}

// NewLoader returns an empty Loader.
func NewLoader(logger *slog.Logger) *Loader {
	return &Loader{
		logger: logging.NewComponentLogger(logger, "dashboard"),
		cache:  make(map[string]*Dataset),
	}
}

// Load returns the dataset at path, parsing it only when its fingerprint
// differs from the memoized one.
func (l *Loader) Load(path string) (*Dataset, error) {
	fp, err := fingerprint(path)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if cached, ok := l.cache[fp.Path]; ok && cached.Fingerprint.equal(fp) {
		l.logger.Debug("dataset cache hit", logging.String("path", fp.Path))
		return cached, nil
	}

	table, err := viewing.ReadTableFile(fp.Path)
	if err != nil {
		return nil, err
	}
	if err := table.RequireTitle(); err != nil {
		return nil, fmt.Errorf("%s: %w", fp.Path, err)
	}
	ds := &Dataset{Fingerprint: fp, Records: viewing.Records(table)}
	l.cache[fp.Path] = ds
	l.reads++
	l.logger.Debug("dataset loaded",
		logging.String("path", fp.Path),
		logging.Int("rows", len(ds.Records)),
		logging.Int("reads", l.reads))
	return ds, nil
}

// Reads reports how many times a file was actually parsed.
func (l *Loader) Reads() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reads
}

func fingerprint(path string) (Fingerprint, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("resolve %q: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("stat dataset: %w", err)
	}
	if info.IsDir() {
		return Fingerprint{}, fmt.Errorf("dataset %q is a directory", abs)
	}
	return Fingerprint{Path: abs, Size: info.Size(), ModTime: info.ModTime()}, nil
}
