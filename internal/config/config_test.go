package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"wrapped/internal/config"
)

func TestLoadDefaultConfigUsesEnvOMDbKeyAndResolvesPaths(t *testing.T) {
	t.Setenv("OMDB_API_KEY", "test-key")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantDataDir, err := filepath.Abs(filepath.Join("data", "processed"))
	if err != nil {
		t.Fatalf("abs: %v", err)
	}
	if cfg.Paths.DataDir != wantDataDir {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantDataDir)
	}
	if cfg.Paths.InputFile != filepath.Join(wantDataDir, "cleaned_viewing.csv") {
		t.Fatalf("unexpected input file: %q", cfg.Paths.InputFile)
	}
	if cfg.Paths.MetadataFile != filepath.Join(wantDataDir, "title_metadata.csv") {
		t.Fatalf("unexpected metadata file: %q", cfg.Paths.MetadataFile)
	}
	if cfg.Paths.EnrichedFile != filepath.Join(wantDataDir, "enriched_viewing.csv") {
		t.Fatalf("unexpected enriched file: %q", cfg.Paths.EnrichedFile)
	}
	if cfg.OMDb.APIKey != "test-key" {
		t.Fatalf("expected OMDb key from env, got %q", cfg.OMDb.APIKey)
	}
	if cfg.OMDb.BaseURL != config.Default().OMDb.BaseURL {
		t.Fatalf("unexpected OMDb base url: %q", cfg.OMDb.BaseURL)
	}
	if cfg.OMDb.Concurrency != config.Default().OMDb.Concurrency {
		t.Fatalf("unexpected concurrency: %d", cfg.OMDb.Concurrency)
	}
	if err := cfg.RequireOMDbKey(); err != nil {
		t.Fatalf("RequireOMDbKey returned error: %v", err)
	}
}

func TestLoadWithoutKeyStillSucceeds(t *testing.T) {
	t.Setenv("OMDB_API_KEY", "")
	t.Setenv("HOME", t.TempDir())

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if err := cfg.RequireOMDbKey(); err == nil {
		t.Fatal("expected RequireOMDbKey to fail without a key")
	} else if !strings.Contains(err.Error(), "OMDB_API_KEY") {
		t.Fatalf("expected error to mention OMDB_API_KEY, got %v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	t.Setenv("OMDB_API_KEY", "")
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "wrapped.toml")

	type payload struct {
		Paths struct {
			DataDir      string `toml:"data_dir"`
			EnrichedFile string `toml:"enriched_file"`
		} `toml:"paths"`
		OMDb struct {
			APIKey      string `toml:"api_key"`
			BaseURL     string `toml:"base_url"`
			Concurrency int    `toml:"concurrency"`
		} `toml:"omdb"`
	}
	custom := payload{}
	custom.Paths.DataDir = filepath.Join(tempDir, "out")
	custom.Paths.EnrichedFile = "custom.csv"
	custom.OMDb.APIKey = "abc123"
	custom.OMDb.BaseURL = "https://example.com/omdb"
	custom.OMDb.Concurrency = 1
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.OMDb.APIKey != "abc123" {
		t.Fatalf("expected OMDb key from file, got %q", cfg.OMDb.APIKey)
	}
	if cfg.OMDb.BaseURL != "https://example.com/omdb" {
		t.Fatalf("expected OMDb base url override, got %q", cfg.OMDb.BaseURL)
	}
	if cfg.OMDb.Concurrency != 1 {
		t.Fatalf("expected concurrency 1, got %d", cfg.OMDb.Concurrency)
	}
	if cfg.Paths.EnrichedFile != filepath.Join(tempDir, "out", "custom.csv") {
		t.Fatalf("expected enriched file under data dir, got %q", cfg.Paths.EnrichedFile)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	if info, err := os.Stat(filepath.Join(tempDir, "out")); err != nil || !info.IsDir() {
		t.Fatalf("expected data dir to exist: %v", err)
	}
}

func TestEnvVarOverridesConfigFileForAPIKey(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "wrapped.toml")
	if err := os.WriteFile(configPath, []byte("[omdb]\napi_key = \"file-key\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("OMDB_API_KEY", "env-key")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.OMDb.APIKey != "env-key" {
		t.Fatalf("expected env key to win, got %q", cfg.OMDb.APIKey)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "OMDB_API_KEY") {
		t.Fatalf("sample config missing OMDB_API_KEY hint: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Paths.MetadataFile != "title_metadata.csv" {
		t.Fatalf("unexpected sample metadata file: %q", cfg.Paths.MetadataFile)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config should validate: %v", err)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	cfg = config.Default()
	cfg.OMDb.Concurrency = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive concurrency")
	}

	cfg = config.Default()
	cfg.OMDb.TimeoutSeconds = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative timeout")
	}

	cfg = config.Default()
	cfg.OMDb.MaxRetries = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative retries")
	}

	cfg = config.Default()
	cfg.OMDb.BaseURL = "not a url"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for relative base url")
	}

	cfg = config.Default()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log format")
	}
}

func TestLoadExplicitMissingPathFallsBackToDefaults(t *testing.T) {
	t.Setenv("OMDB_API_KEY", "")
	path := filepath.Join(t.TempDir(), "absent.toml")

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists || resolved != path {
		t.Fatalf("expected missing explicit path to be reported, got %q exists=%v", resolved, exists)
	}
	if cfg.OMDb.RateLimitPerSecond != config.Default().OMDb.RateLimitPerSecond {
		t.Fatalf("expected default rate limit, got %v", cfg.OMDb.RateLimitPerSecond)
	}
}

func TestZeroRateLimitDisablesLimiting(t *testing.T) {
	t.Setenv("OMDB_API_KEY", "")
	path := filepath.Join(t.TempDir(), "wrapped.toml")
	if err := os.WriteFile(path, []byte("[omdb]\nrate_limit_per_second = 0\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.OMDb.RateLimitPerSecond != 0 {
		t.Fatalf("expected explicit zero to be kept, got %v", cfg.OMDb.RateLimitPerSecond)
	}
}

func TestExpandPathHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := config.ExpandPath("~/data/x.csv")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	if got != filepath.Join(home, "data", "x.csv") {
		t.Fatalf("unexpected expansion %q", got)
	}
	if got, _ := config.ExpandPath(""); got != "" {
		t.Fatalf("expected empty path to stay empty, got %q", got)
	}
}
