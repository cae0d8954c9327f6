package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"wrapped/internal/config"
	"wrapped/internal/enrichment"
)

type enrichFlags struct {
	input        string
	outputDir    string
	metadataFile string
	enrichedFile string
	concurrency  int
	json         bool
}

func newEnrichCommand(ctx *commandContext) *cobra.Command {
	var flags enrichFlags

	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Look up OMDb metadata for every title and write the enriched CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			opts, err := flags.options(cfg)
			if err != nil {
				return err
			}
			concurrency := cfg.OMDb.Concurrency
			if cmd.Flags().Changed("concurrency") {
				if flags.concurrency < 1 {
					return errors.New("--concurrency must be at least 1")
				}
				concurrency = flags.concurrency
			}

			client, err := ctx.omdbClient()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			enricher, err := enrichment.New(client, logger, concurrency)
			if err != nil {
				return err
			}

			summary, err := enricher.Run(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if flags.json {
				return writeJSON(cmd, summary)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderKeyValues([][2]string{
				{"Run ID", summary.RunID},
				{"Rows", strconv.Itoa(summary.Rows)},
				{"Distinct titles", strconv.Itoa(summary.Titles)},
				{"Matched", strconv.Itoa(summary.Matched)},
				{"Not found", strconv.Itoa(summary.NotFound)},
				{"Failed", strconv.Itoa(summary.Failed)},
				{"Elapsed", summary.Elapsed.Round(time.Millisecond).String()},
				{"Metadata", summary.MetadataPath},
				{"Enriched", summary.EnrichedPath},
			}))
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.input, "input", "i", "", "Cleaned viewing CSV (defaults to paths.input_file)")
	cmd.Flags().StringVarP(&flags.outputDir, "output-dir", "o", "", "Directory for both output files")
	cmd.Flags().StringVar(&flags.metadataFile, "metadata-file", "", "Title metadata CSV (defaults to paths.metadata_file)")
	cmd.Flags().StringVar(&flags.enrichedFile, "enriched-file", "", "Enriched viewing CSV (defaults to paths.enriched_file)")
	cmd.Flags().IntVar(&flags.concurrency, "concurrency", 0, "Parallel OMDb lookups (defaults to omdb.concurrency)")
	cmd.Flags().BoolVar(&flags.json, "json", false, "Print the run summary as JSON")
	return cmd
}

// options resolves artifact paths. Explicit file flags win over --output-dir,
// which wins over the configured paths.
func (f enrichFlags) options(cfg *config.Config) (enrichment.Options, error) {
	opts := enrichment.Options{
		InputPath:    cfg.Paths.InputFile,
		MetadataPath: cfg.Paths.MetadataFile,
		EnrichedPath: cfg.Paths.EnrichedFile,
	}
	if dir := strings.TrimSpace(f.outputDir); dir != "" {
		expanded, err := config.ExpandPath(dir)
		if err != nil {
			return opts, fmt.Errorf("resolve --output-dir: %w", err)
		}
		opts.MetadataPath = filepath.Join(expanded, filepath.Base(cfg.Paths.MetadataFile))
		opts.EnrichedPath = filepath.Join(expanded, filepath.Base(cfg.Paths.EnrichedFile))
	}
	for _, override := range []struct {
		flag, value string
		target      *string
	}{
		{"--input", f.input, &opts.InputPath},
		{"--metadata-file", f.metadataFile, &opts.MetadataPath},
		{"--enriched-file", f.enrichedFile, &opts.EnrichedPath},
	} {
		value := strings.TrimSpace(override.value)
		if value == "" {
			continue
		}
		expanded, err := config.ExpandPath(value)
		if err != nil {
			return opts, fmt.Errorf("resolve %s: %w", override.flag, err)
		}
		*override.target = expanded
	}
	if opts.MetadataPath == opts.EnrichedPath || opts.InputPath == opts.EnrichedPath || opts.InputPath == opts.MetadataPath {
		return opts, errors.New("input and output paths must all differ")
	}
	return opts, nil
}
