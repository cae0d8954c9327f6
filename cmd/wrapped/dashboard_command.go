package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"wrapped/internal/config"
	"wrapped/internal/dashboard"
	"wrapped/internal/logging"
)

const clearScreen = "\x1b[H\x1b[2J"

func newDashboardCommand(ctx *commandContext) *cobra.Command {
	var input string
	var asJSON bool
	var watch bool

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Render the wrapped dashboard from the enriched CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := cfg.Paths.EnrichedFile
			if value := strings.TrimSpace(input); value != "" {
				if path, err = config.ExpandPath(value); err != nil {
					return fmt.Errorf("resolve --input: %w", err)
				}
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}

			view := &dashboardView{
				cmd:    cmd,
				loader: dashboard.NewLoader(logger),
				path:   path,
				json:   asJSON,
				color:  shouldColorize(cmd.OutOrStdout()),
			}
			if err := view.render(cmd.Context()); err != nil {
				return err
			}
			if !watch {
				return nil
			}
			return view.watch(cmd.Context(), logger)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Enriched viewing CSV (defaults to paths.enriched_file)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the aggregates as JSON")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-render whenever the input file changes")
	return cmd
}

type dashboardView struct {
	cmd    *cobra.Command
	loader *dashboard.Loader
	path   string
	json   bool
	color  bool
}

func (v *dashboardView) render(ctx context.Context) error {
	ds, err := v.loader.Load(v.path)
	if err != nil {
		return err
	}
	report, err := dashboard.Build(ctx, ds)
	if err != nil {
		return err
	}
	if v.json {
		return writeJSON(v.cmd, report)
	}
	return dashboard.Render(v.cmd.OutOrStdout(), report, dashboard.RenderOptions{Color: v.color})
}

func (v *dashboardView) watch(ctx context.Context, logger *slog.Logger) error {
	return dashboard.Watch(ctx, v.path, dashboard.DefaultDebounce, logger, func(ctx context.Context) {
		if v.color && !v.json {
			fmt.Fprint(v.cmd.OutOrStdout(), clearScreen)
		}
		if err := v.render(ctx); err != nil {
			logging.WarnWithContext(logger, "dashboard refresh failed", "dashboard_refresh_failed",
				logging.Error(err),
				logging.String("path", v.path),
				logging.String(logging.FieldImpact, "previous dashboard stays on screen"))
		}
	})
}
