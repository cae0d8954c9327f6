package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeOMDb()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(strings.TrimSpace(c.Paths.DataDir)); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.InputFile, err = c.resolveDataFile(c.Paths.InputFile, defaultInputFile); err != nil {
		return fmt.Errorf("paths.input_file: %w", err)
	}
	if c.Paths.MetadataFile, err = c.resolveDataFile(c.Paths.MetadataFile, defaultMetadataFile); err != nil {
		return fmt.Errorf("paths.metadata_file: %w", err)
	}
	if c.Paths.EnrichedFile, err = c.resolveDataFile(c.Paths.EnrichedFile, defaultEnrichedFile); err != nil {
		return fmt.Errorf("paths.enriched_file: %w", err)
	}
	return nil
}

// resolveDataFile places bare or relative file names under the data directory.
func (c *Config) resolveDataFile(value, fallback string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		value = fallback
	}
	if strings.HasPrefix(value, "~") || filepath.IsAbs(value) {
		return expandPath(value)
	}
	return expandPath(filepath.Join(c.Paths.DataDir, value))
}

func (c *Config) normalizeOMDb() {
	if value, ok := os.LookupEnv("OMDB_API_KEY"); ok && strings.TrimSpace(value) != "" {
		c.OMDb.APIKey = value
	}
	c.OMDb.APIKey = strings.TrimSpace(c.OMDb.APIKey)
	c.OMDb.BaseURL = strings.TrimSpace(c.OMDb.BaseURL)
	if c.OMDb.BaseURL == "" {
		c.OMDb.BaseURL = defaultOMDbBaseURL
	}
	if c.OMDb.TimeoutSeconds == 0 {
		c.OMDb.TimeoutSeconds = defaultOMDbTimeoutSeconds
	}
	if c.OMDb.Concurrency == 0 {
		c.OMDb.Concurrency = defaultOMDbConcurrency
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
