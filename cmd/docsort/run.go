package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/docsort/internal/cli"
	"github.com/Veraticus/docsort/internal/engine"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Route every waiting file once",
		Long: `Run a single pass over each source directory. Sources come from the
config file, or from --source and --dest for a one-off run.

Files that have not settled yet are left in place for the next run.`,
		RunE: runRun,
	}

	cmd.Flags().String("source", "", "source directory (overrides configured sources)")
	cmd.Flags().String("dest", "", "destination root for --source")
	cmd.Flags().String("mode", "standard", "routing mode for --source (standard, failed, passthrough)")
	cmd.Flags().BoolP("verbose", "v", false, "list moved files in the report")
	cmd.Flags().Bool("no-progress", false, "disable the progress bar")

	return cmd
}

func runRun(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	source, _ := cmd.Flags().GetString("source")
	dest, _ := cmd.Flags().GetString("dest")
	mode, _ := cmd.Flags().GetString("mode")
	verbose, _ := cmd.Flags().GetBool("verbose")
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	sources, err := resolveSources(settings, source, dest, mode)
	if err != nil {
		return err
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

	var observer engine.Observer = engine.NopObserver{}
	if !noProgress {
		observer = cli.NewProgressObserver(cmd.ErrOrStderr())
	}

	router, err := buildRouter(ctx, settings, store, observer)
	if err != nil {
		return err
	}

	reports, runErr := router.RunAll(ctx, sources)
	for _, report := range reports {
		fmt.Fprintln(cmd.OutOrStdout(), cli.RenderPassReport(report, verbose))
	}
	if ctx.Err() != nil {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning("Run interrupted"))
		return nil
	}
	return runErr
}
