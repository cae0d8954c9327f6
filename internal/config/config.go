package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the locations of the CSV artifacts.
type Paths struct {
	DataDir      string `toml:"data_dir"`
	InputFile    string `toml:"input_file"`
	MetadataFile string `toml:"metadata_file"`
	EnrichedFile string `toml:"enriched_file"`
}

// OMDb contains configuration for the OMDb metadata API.
type OMDb struct {
	APIKey             string  `toml:"api_key"`
	BaseURL            string  `toml:"base_url"`
	TimeoutSeconds     int     `toml:"timeout_seconds"`
	Concurrency        int     `toml:"concurrency"`
	MaxRetries         int     `toml:"max_retries"`
	RateLimitPerSecond float64 `toml:"rate_limit_per_second"`
}

// Logging selects log format and verbosity.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config is the full wrapped configuration. Load fills omitted keys from
// Default and resolves every path to an absolute one.
type Config struct {
	Paths   Paths   `toml:"paths"`
	OMDb    OMDb    `toml:"omdb"`
	Logging Logging `toml:"logging"`
}

const (
	userConfigPath    = "~/.config/wrapped/config.toml"
	projectConfigName = "wrapped.toml"
)

// DefaultConfigPath returns the per-user configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(userConfigPath)
}

// Load reads the configuration file at path. An empty path searches the user
// config location, then ./wrapped.toml. It reports the file it settled on and
// whether that file exists; a missing file yields the defaults.
//
// A .env file in the working directory is applied to the process environment
// first, without overriding variables that are already set.
func Load(path string) (*Config, string, bool, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, "", false, fmt.Errorf("load .env: %w", err)
	}

	source, exists, err := locate(path)
	if err != nil {
		return nil, "", false, err
	}

	cfg := Default()
	if exists {
		if err := decodeFile(source, &cfg); err != nil {
			return nil, "", false, err
		}
	}
	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, source, exists, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// locate picks the configuration file. An explicit path is used even when it
// does not exist yet.
func locate(explicit string) (string, bool, error) {
	var candidates []string
	if explicit != "" {
		candidates = []string{explicit}
	} else {
		candidates = []string{userConfigPath, projectConfigName}
	}

	resolved := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		path, err := expandPath(candidate)
		if err != nil {
			return "", false, err
		}
		resolved = append(resolved, path)
		info, err := os.Stat(path)
		switch {
		case err == nil && !info.IsDir():
			return path, true, nil
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return "", false, fmt.Errorf("stat config %s: %w", path, err)
		}
	}
	return resolved[0], false, nil
}

// EnsureDirectories creates the directories the output artifacts live in.
func (c *Config) EnsureDirectories() error {
	for _, file := range []string{c.Paths.MetadataFile, c.Paths.EnrichedFile} {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return fmt.Errorf("create data directory for %s: %w", file, err)
		}
	}
	return nil
}

// RequireOMDbKey reports a descriptive error when no API key is configured.
// Only commands that perform lookups call it.
func (c *Config) RequireOMDbKey() error {
	if strings.TrimSpace(c.OMDb.APIKey) != "" {
		return nil
	}
	where, err := DefaultConfigPath()
	if err != nil {
		where = userConfigPath
	}
	return fmt.Errorf("omdb.api_key is required. Set OMDB_API_KEY env var (or a .env file) or edit %s (create with 'wrapped config init')", where)
}

// OMDbTimeout returns the per-request timeout as a duration.
func (c *Config) OMDbTimeout() time.Duration {
	return time.Duration(c.OMDb.TimeoutSeconds) * time.Second
}

// CreateSample writes the annotated sample configuration to path.
func CreateSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
