package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"wrapped/internal/config"
	"wrapped/internal/dashboard"
	"wrapped/internal/enrichment"
	"wrapped/internal/viewing"
)

func TestRootShowsHelp(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	out, _, err := runCLI(t, nil, "")
	if err != nil {
		t.Fatalf("root command: %v", err)
	}
	for _, sub := range []string{"enrich", "lookup", "dashboard", "config"} {
		requireContains(t, out, sub)
	}
}

func TestEnrichThenDashboard(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"enrich", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	var summary enrichment.Summary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode summary: %v\n%s", err, out)
	}
	if summary.Rows != 5 || summary.Titles != 3 || summary.Matched != 1 || summary.NotFound != 1 || summary.Failed != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	enriched, err := viewing.ReadTableFile(filepath.Join(env.dataDir, "enriched_viewing.csv"))
	if err != nil {
		t.Fatalf("read enriched: %v", err)
	}
	if enriched.Len() != 5 {
		t.Fatalf("expected 5 enriched rows, got %d", enriched.Len())
	}
	if _, err := os.Stat(filepath.Join(env.dataDir, "title_metadata.csv")); err != nil {
		t.Fatalf("expected metadata file: %v", err)
	}

	out, _, err = runCLI(t, []string{"dashboard", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("dashboard --json: %v", err)
	}
	var report dashboard.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	if report.Rows != 5 || report.DistinctTitles != 3 || report.LongestStreak != 3 || report.TopGenre != "Comedy" {
		t.Fatalf("unexpected report %+v", report)
	}

	out, _, err = runCLI(t, []string{"dashboard"}, env.configPath)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	requireContains(t, out, "Total watch time (hrs)")
	requireContains(t, out, "Key Insights")
	if strings.Contains(out, "\x1b[") {
		t.Fatal("expected plain output when stdout is not a terminal")
	}
}

func TestEnrichOutputFlags(t *testing.T) {
	env := setupCLITestEnv(t)
	outDir := filepath.Join(env.baseDir, "out")

	out, _, err := runCLI(t, []string{"enrich", "--output-dir", outDir, "--concurrency", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	requireContains(t, out, "Matched")
	for _, name := range []string{"title_metadata.csv", "enriched_viewing.csv"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Fatalf("expected %s in output dir: %v", name, err)
		}
	}

	if _, _, err := runCLI(t, []string{"enrich", "--concurrency", "0"}, env.configPath); err == nil {
		t.Fatal("expected error for zero concurrency")
	}

	_, _, err = runCLI(t, []string{"dashboard", "--input", filepath.Join(outDir, "enriched_viewing.csv"), "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("dashboard --input: %v", err)
	}
}

func TestEnrichFlagPrecedence(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.InputFile = "/data/in.csv"
	cfg.Paths.MetadataFile = "/data/meta.csv"
	cfg.Paths.EnrichedFile = "/data/enriched.csv"

	opts, err := enrichFlags{outputDir: "/out", enrichedFile: "/elsewhere/e.csv"}.options(&cfg)
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if opts.InputPath != "/data/in.csv" || opts.MetadataPath != "/out/meta.csv" || opts.EnrichedPath != "/elsewhere/e.csv" {
		t.Fatalf("unexpected options %+v", opts)
	}

	if _, err := (enrichFlags{enrichedFile: "/data/in.csv"}).options(&cfg); err == nil {
		t.Fatal("expected error when output would overwrite input")
	}
}

func TestLookupCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"lookup", "Brooklyn", "Nine-Nine"}, env.configPath)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	requireContains(t, out, "Comedy, Crime")
	requireContains(t, out, "matched")

	out, _, err = runCLI(t, []string{"lookup", "--json", "Nope"}, env.configPath)
	if err != nil {
		t.Fatalf("lookup --json: %v", err)
	}
	var result lookupResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode lookup: %v", err)
	}
	if result.Genre != "Unknown" || result.Year != "" || result.MediaType != "" || result.Outcome != "not_found" {
		t.Fatalf("unexpected lookup result %+v", result)
	}
}

func TestLookupRequiresAPIKey(t *testing.T) {
	env := setupCLITestEnv(t)
	cfg := *env.cfg
	cfg.OMDb.APIKey = ""
	writeTestConfig(t, env.configPath, &cfg)

	_, _, err := runCLI(t, []string{"lookup", "Dark"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "OMDB_API_KEY") {
		t.Fatalf("expected missing key error, got %v", err)
	}

	if _, _, err := runCLI(t, []string{"dashboard", "--input", filepath.Join(env.dataDir, "cleaned_viewing.csv")}, env.configPath); err != nil {
		t.Fatalf("dashboard should not need an api key: %v", err)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	env := setupCLITestEnv(t)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config exists")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out, _, err = runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, env.server.URL)
	requireContains(t, out, env.configPath)
	if strings.Contains(out, "(not found") {
		t.Fatalf("expected config file to be reported as present:\n%s", out)
	}

	out, _, err = runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
}
