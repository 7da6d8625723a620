package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Veraticus/docsort/internal/cli"
	"github.com/Veraticus/docsort/internal/common"
	"github.com/Veraticus/docsort/internal/config"
	"github.com/Veraticus/docsort/internal/model"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <file>...",
		Short: "Show where files would be routed without moving them",
		Long: `Extract text, classify and resolve the destination of each file,
printing the decision. Nothing is moved and the ledger is not touched.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runClassify,
	}

	cmd.Flags().String("dest", "", "destination root (default: first configured source)")
	cmd.Flags().String("mode", "standard", "routing mode (standard, failed, passthrough)")

	return cmd
}

func runClassify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dest, _ := cmd.Flags().GetString("dest")
	modeName, _ := cmd.Flags().GetString("mode")

	mode, err := model.ParseSourceMode(modeName)
	if err != nil {
		return common.NewUserError("invalid --mode", err)
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	if dest == "" {
		if sources := settings.ModelSources(); len(sources) > 0 {
			dest = sources[0].DestRoot
		}
	}
	if dest == "" {
		return common.NewUserError("--dest is required when no sources are configured", common.ErrMissingConfig)
	}

	router, err := buildRouter(ctx, settings, nil, nil)
	if err != nil {
		return err
	}

	for _, arg := range args {
		path := config.ExpandPath(arg)
		src := model.Source{Dir: filepath.Dir(path), DestRoot: config.ExpandPath(dest), Mode: mode}

		decision, destPath, err := router.Decide(ctx, src, path)
		if err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatError(fmt.Sprintf("%s: %v", filepath.Base(path), err)))
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), cli.RenderDecision(path, decision, destPath))
	}
	return nil
}
