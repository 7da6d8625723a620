package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/docsort/internal/cli"
	"github.com/Veraticus/docsort/internal/model"
	"github.com/Veraticus/docsort/internal/watch"
)

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Route files continuously until interrupted",
		Long: `Repeat passes over every configured source. A new pass starts after
watch.interval, or shortly after a file appears in a source directory.
Stop with Ctrl-C; the pass in progress finishes its current file first.`,
		RunE: runWatch,
	}

	cmd.Flags().String("source", "", "source directory (overrides configured sources)")
	cmd.Flags().String("dest", "", "destination root for --source")
	cmd.Flags().String("mode", "standard", "routing mode for --source (standard, failed, passthrough)")
	cmd.Flags().Duration("interval", 0, "delay between passes (default from watch.interval)")
	cmd.Flags().BoolP("verbose", "v", false, "print a report after every pass, even when idle")

	return cmd
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	source, _ := cmd.Flags().GetString("source")
	dest, _ := cmd.Flags().GetString("dest")
	mode, _ := cmd.Flags().GetString("mode")
	interval, _ := cmd.Flags().GetDuration("interval")
	verbose, _ := cmd.Flags().GetBool("verbose")

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	sources, err := resolveSources(settings, source, dest, mode)
	if err != nil {
		return err
	}
	if interval <= 0 {
		interval = settings.Watch.Interval
	}

	store, err := openLedger(ctx, settings)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Warn("Failed to close ledger", "error", closeErr)
		}
	}()

	router, err := buildRouter(ctx, settings, store, nil)
	if err != nil {
		return err
	}

	loop := watch.New(router, sources, interval)
	if settings.Watch.Debounce > 0 {
		loop.Debounce = settings.Watch.Debounce
	}
	loop.OnPass = func(reports []*model.PassReport, _ error) {
		for _, report := range reports {
			if report == nil || (len(report.Results) == 0 && !verbose) {
				continue
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderPassReport(report, verbose))
		}
	}

	return loop.Run(ctx)
}
