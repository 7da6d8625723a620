package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/docsort/internal/cli"
	"github.com/Veraticus/docsort/internal/common"
	"github.com/Veraticus/docsort/internal/config"
	"github.com/Veraticus/docsort/internal/fingerprint"
)

func ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect the duplicate ledger",
		Long:  `Inspect the content hashes docsort has routed and when it last saw them.`,
	}

	cmd.AddCommand(ledgerListCmd())
	cmd.AddCommand(ledgerShowCmd())
	cmd.AddCommand(ledgerCheckCmd())

	return cmd
}

func ledgerListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recently seen hashes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			ctx := cmd.Context()

			settings, err := loadSettings()
			if err != nil {
				return err
			}
			store, err := openLedger(ctx, settings)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			entries, err := store.ListEntries(ctx, limit)
			if err != nil {
				return err
			}
			total, err := store.CountEntries(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("Ledger (%d of %d entries)", len(entries), total)))
			fmt.Fprintln(out, cli.RenderLedger(entries))
			return nil
		},
	}
	cmd.Flags().Int("limit", 20, "number of entries to show (0 for all)")
	return cmd
}

func ledgerShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <sha256>",
		Short: "Show the ledger entry for a hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			store, err := openLedger(ctx, settings)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			entry, err := store.GetEntry(ctx, args[0])
			if errors.Is(err, common.ErrNotFound) {
				return common.NewUserError("hash not in ledger", err)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderLedgerEntry(entry))
			return nil
		},
	}
}

func ledgerCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Report whether a file's content was routed recently",
		Long: `Fingerprint a file and look it up in the ledger. A hit inside
dedup.window is the ledger half of duplicate detection; the router also
requires a same-named twin in the source folder before marking a file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			settings, err := loadSettings()
			if err != nil {
				return err
			}

			path := config.ExpandPath(args[0])
			hash, err := fingerprint.File(path)
			if err != nil {
				return common.NewUserError("cannot fingerprint file", err)
			}

			store, err := openLedger(ctx, settings)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			recent, err := store.SeenRecently(ctx, hash, settings.Dedup.Window)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.SubtleStyle.Render("sha256 "+hash))
			entry, err := store.GetEntry(ctx, hash)
			switch {
			case errors.Is(err, common.ErrNotFound):
				fmt.Fprintln(out, cli.FormatSuccess("Never seen before"))
				return nil
			case err != nil:
				return err
			}

			if recent {
				fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("Seen within %s", settings.Dedup.Window)))
			} else {
				fmt.Fprintln(out, cli.FormatInfo("Seen before, outside the duplicate window"))
			}
			fmt.Fprintln(out, cli.RenderLedgerEntry(entry))
			slog.Debug("Ledger check", "path", path, "hash", hash, "recent", recent)
			return nil
		},
	}
}
