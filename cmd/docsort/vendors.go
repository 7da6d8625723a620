package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/docsort/internal/cli"
)

func vendorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vendors",
		Short: "Inspect the vendor rule table",
	}

	cmd.AddCommand(vendorsListCmd())
	cmd.AddCommand(vendorsMatchCmd())

	return cmd
}

func vendorsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List vendor rules as loaded",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			vendors, err := loadVendors(ctx, settings, &tableSources{})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("%d vendors", vendors.Len())))
			fmt.Fprintln(out, cli.RenderVendors(vendors.Rules()))
			return nil
		},
	}
}

func vendorsMatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "match <filename>",
		Short: "Show which vendor a filename matches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			vendors, err := loadVendors(ctx, settings, &tableSources{})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			rule, ok := vendors.MatchFilename(args[0])
			if !ok {
				fmt.Fprintln(out, cli.FormatWarning("No vendor matches; the document would go to New Provider"))
				return nil
			}
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("%s (type %d)", rule.Name, rule.FolderType)))
			return nil
		},
	}
}
