package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"appship/internal/app"
)

func newServeCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:    "serve",
		Short:  "Start the MCP server on stdio (default)",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *cliOptions) error {
	ctx, cancel := signalAwareContext(cmd.Context())
	defer cancel()

	cfg, logger, err := loadRuntime(cmd, opts)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	application, err := app.InitializeApplication(cfg, logger)
	if err != nil {
		logger.Error("initialize application failed", zap.Error(err))
		return err
	}
	return application.Run(ctx)
}
