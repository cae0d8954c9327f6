package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"wrapped/internal/enrichment"
)

func newLookupCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "lookup <title>",
		Short: "Look up a single title the way enrich would",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return errors.New("title must not be empty")
			}
			client, err := ctx.omdbClient()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}

			meta := enrichment.NewFetcher(client, logger, 1).Fetch(cmd.Context(), title)
			if err := cmd.Context().Err(); err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, lookupResult{
					Title:     meta.Title,
					Genre:     meta.Genre,
					Year:      meta.Year,
					MediaType: meta.MediaType,
					Outcome:   string(meta.Outcome),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderKeyValues([][2]string{
				{"Title", meta.Title},
				{"Genre", meta.Genre},
				{"Year", orDash(meta.Year)},
				{"Media type", orDash(meta.MediaType)},
				{"Outcome", string(meta.Outcome)},
			}))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}

type lookupResult struct {
	Title     string `json:"title"`
	Genre     string `json:"genre"`
	Year      string `json:"year"`
	MediaType string `json:"media_type"`
	Outcome   string `json:"outcome"`
}
