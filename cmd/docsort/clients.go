package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/docsort/internal/cli"
	"github.com/Veraticus/docsort/internal/routing"
)

func clientsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clients",
		Short: "Inspect the client registry",
	}

	cmd.AddCommand(clientsListCmd())
	cmd.AddCommand(clientsResolveCmd())

	return cmd
}

func clientsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List client records as loaded",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			clients, err := loadClients(ctx, settings, &tableSources{})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("%d clients", clients.Len())))
			fmt.Fprintln(out, cli.RenderClients(clients.Records()))
			return nil
		},
	}
}

func clientsResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <filename>",
		Short: "Show the plan manager a filename resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			clients, err := loadClients(ctx, settings, &tableSources{})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			record, ok := clients.Match(args[0])
			if !ok {
				fmt.Fprintln(out, cli.FormatWarning("No client code matches; plan manager is "+routing.UnassignedLabel))
				return nil
			}
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("%s → %s", record.Code, clients.ResolvePlanManager(args[0]))))
			return nil
		},
	}
}
