package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"appship/internal/domain"
)

func newLoginCmd(opts *cliOptions) *cobra.Command {
	var apiKey string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with your Appship API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "\n  Appship Login")
			fmt.Fprintln(out)

			key := strings.TrimSpace(apiKey)
			if key == "" {
				fmt.Fprintf(out, "  Get your API key from: %s\n\n", domain.DashboardURL)
				prompted, err := promptLine(cmd.InOrStdin(), out, "  API Key: ")
				if err != nil {
					return exitWithError(err)
				}
				key = prompted
			}
			if err := domain.CheckCredentialFormat(key); err != nil {
				return exitWithError(err)
			}

			account, logger, err := newAccount(cmd, opts)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			fmt.Fprintln(out, "\n  Validating...")
			result, err := account.Login(cmd.Context(), key)
			if err != nil {
				return exitWithError(err)
			}

			email := result.Email
			if email == "" {
				email = "user"
			}
			fmt.Fprintf(out, "\n  Success! Logged in as %s\n", email)
			fmt.Fprintf(out, "  Credentials saved to %s\n\n", result.Path)
			return nil
		},
	}
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key to store (skips the prompt)")
	return cmd
}

func promptLine(in io.Reader, out io.Writer, question string) (string, error) {
	fmt.Fprint(out, question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
