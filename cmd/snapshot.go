package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a snapshot of the account cache",
		Long: "Write a snapshot of the account cache to stdout or to --out. An empty cache is\n" +
			"loaded from the directory first.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, opts.env)
			if err != nil {
				return err
			}
			if _, err := a.manager.LoadAll(ctx); err != nil {
				return err
			}

			if out == "" {
				return a.manager.WriteSnapshot(ctx, cmd.OutOrStdout())
			}
			return a.manager.SaveSnapshotFile(ctx, out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "snapshot file to write instead of stdout")
	return cmd
}

func newImportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the account cache with a snapshot file",
		Long: "Replace the account cache with a snapshot file without contacting the directory.\n" +
			"Only useful with a shared cache driver such as redis.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts.env)
			if err != nil {
				return err
			}
			restored, err := a.manager.RestoreSnapshotFile(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("restored %d accounts: %w", restored, err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "restored %d accounts\n", restored)
			return err
		},
	}
}
