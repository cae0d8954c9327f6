package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"wrapped/internal/config"
)

const sampleViewing = "title,start_time,duration\n" +
	"Brooklyn Nine-Nine,2024-01-01 20:00:00,00:22:00\n" +
	"Dark,2024-01-02 21:00:00,00:50:00\n" +
	",2024-01-02 22:00:00,00:05:00\n" +
	"Brooklyn Nine-Nine,2024-01-03 20:00:00,00:21:00\n" +
	"Obscure Thing,2024-01-10 09:00:00,01:30:00\n"

type cliTestEnv struct {
	cfg        *config.Config
	server     *httptest.Server
	configPath string
	baseDir    string
	dataDir    string
}

func omdbHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("t") {
		case "Brooklyn Nine-Nine":
			_, _ = w.Write([]byte(`{"Title":"Brooklyn Nine-Nine","Year":"2013–2021","Genre":"Comedy, Crime","Type":"series","Response":"True"}`))
		case "Dark":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			_, _ = w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
		}
	})
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("OMDB_API_KEY", "")

	server := httptest.NewServer(omdbHandler())
	t.Cleanup(server.Close)

	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.OMDb.APIKey = "test"
	cfgVal.OMDb.BaseURL = server.URL
	cfgVal.OMDb.Concurrency = 2
	cfgVal.OMDb.MaxRetries = 0
	cfgVal.Logging.Level = "error"
	cfg := &cfgVal

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	if err := os.MkdirAll(cfg.Paths.DataDir, 0o755); err != nil {
		t.Fatalf("mkdir data: %v", err)
	}
	if err := os.WriteFile(filepath.Join(cfg.Paths.DataDir, "cleaned_viewing.csv"), []byte(sampleViewing), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	return &cliTestEnv{
		cfg:        cfg,
		server:     server,
		configPath: configPath,
		baseDir:    base,
		dataDir:    cfg.Paths.DataDir,
	}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
