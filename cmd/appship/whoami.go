package main

import (
	"github.com/spf13/cobra"
)

func newWhoamiCmd(opts *cliOptions) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show current authenticated user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			account, logger, err := newAccount(cmd, opts)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			status, err := account.Status(cmd.Context())
			if err != nil {
				return exitWithError(err)
			}
			return printStatus(cmd.OutOrStdout(), status, jsonOutput)
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output JSON")
	return cmd
}
