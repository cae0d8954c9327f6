package enrichment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"wrapped/internal/logging"
	"wrapped/internal/omdb"
	"wrapped/internal/viewing"
)

// ErrRunInProgress is returned when another run holds the output lock.
var ErrRunInProgress = errors.New("another enrichment run is writing to the output directory")

const lockFileName = ".wrapped-enrich.lock"

// Options names the artifacts of a run.
type Options struct {
	InputPath    string
	MetadataPath string
	EnrichedPath string
}

func (o Options) validate() error {
	if strings.TrimSpace(o.InputPath) == "" {
		return errors.New("input path is required")
	}
	if strings.TrimSpace(o.MetadataPath) == "" {
		return errors.New("metadata path is required")
	}
	if strings.TrimSpace(o.EnrichedPath) == "" {
		return errors.New("enriched path is required")
	}
	return nil
}

// Summary reports what a run produced.
type Summary struct {
	RunID        string        `json:"run_id"`
	Rows         int           `json:"rows"`
	Titles       int           `json:"titles"`
	Matched      int           `json:"matched"`
	NotFound     int           `json:"not_found"`
	Failed       int           `json:"failed"`
	Elapsed      time.Duration `json:"elapsed"`
	MetadataPath string        `json:"metadata_path"`
	EnrichedPath string        `json:"enriched_path"`
}

// Enricher runs the enrichment pipeline.
type Enricher struct {
	lookup      omdb.Lookuper
	logger      *slog.Logger
	concurrency int
}

// New creates an Enricher. concurrency bounds parallel lookups; 1 runs them
// strictly one after another.
func New(lookup omdb.Lookuper, logger *slog.Logger, concurrency int) (*Enricher, error) {
	if lookup == nil {
		return nil, errors.New("enrichment requires a metadata lookup")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Enricher{lookup: lookup, logger: logger, concurrency: concurrency}, nil
}

// Run reads the input table, fetches metadata for its distinct titles, and
// writes the metadata and enriched tables.
func (e *Enricher) Run(ctx context.Context, opts Options) (*Summary, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, logging.NewComponentLogger(e.logger, "enrichment"))

	if err := ensureDir(opts.EnrichedPath); err != nil {
		return nil, err
	}
	lock := flock.New(filepath.Join(filepath.Dir(opts.EnrichedPath), lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire enrichment lock: %w", err)
	}
	if !locked {
		return nil, ErrRunInProgress
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release enrichment lock", logging.Error(err))
		}
	}()

	input, err := viewing.ReadTableFile(opts.InputPath)
	if err != nil {
		return nil, err
	}
	if err := input.RequireTitle(); err != nil {
		return nil, fmt.Errorf("%s: %w", opts.InputPath, err)
	}

	titles := DistinctTitles(input)
	logger.Info("enrichment started",
		logging.String("input", opts.InputPath),
		logging.Int("rows", input.Len()),
		logging.Int("titles", len(titles)),
		logging.Int("concurrency", e.concurrency))

	fetcher := NewFetcher(e.lookup, e.logger, e.concurrency)
	rows, err := fetcher.BuildMetadata(ctx, titles)
	if err != nil {
		return nil, fmt.Errorf("build metadata: %w", err)
	}

	enriched := Join(input, rows)
	if enriched.Len() != input.Len() {
		return nil, fmt.Errorf("join produced %d rows from %d input rows", enriched.Len(), input.Len())
	}

	if err := viewing.WriteTableFile(opts.MetadataPath, MetadataTable(rows)); err != nil {
		return nil, fmt.Errorf("write metadata table: %w", err)
	}
	if err := viewing.WriteTableFile(opts.EnrichedPath, enriched); err != nil {
		return nil, fmt.Errorf("write enriched table: %w", err)
	}

	summary := &Summary{
		RunID:        runID,
		Rows:         enriched.Len(),
		Titles:       len(rows),
		Elapsed:      time.Since(start),
		MetadataPath: opts.MetadataPath,
		EnrichedPath: opts.EnrichedPath,
	}
	for _, row := range rows {
		switch row.Outcome {
		case OutcomeMatched:
			summary.Matched++
		case OutcomeNotFound:
			summary.NotFound++
		default:
			summary.Failed++
		}
	}

	logger.Info("enrichment completed",
		logging.Int("rows", summary.Rows),
		logging.Int("titles", summary.Titles),
		logging.Int("matched", summary.Matched),
		logging.Int("not_found", summary.NotFound),
		logging.Int("failed", summary.Failed),
		logging.Duration("elapsed", summary.Elapsed))
	return summary, nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory %q: %w", dir, err)
	}
	return nil
}
