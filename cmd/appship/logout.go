package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"appship/internal/domain"
)

func newLogoutCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			account, logger, err := newAccount(cmd, opts)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			out := cmd.OutOrStdout()
			result, err := account.Logout()
			if err != nil {
				return exitWithError(err)
			}
			switch {
			case result.Removed:
				fmt.Fprintln(out, "\n  Logged out successfully.")
				fmt.Fprintf(out, "  Credentials removed from %s\n", result.Path)
			case result.EnvOverride:
				fmt.Fprintf(out, "\n  Credentials come from %s.\n", domain.EnvAPIKey)
				fmt.Fprintln(out, "  Unset the variable to log out.")
			default:
				fmt.Fprintln(out, "\n  You are not logged in.")
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}
