package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"appship/internal/app"
	"appship/internal/domain"
	"appship/internal/infra/config"
)

type cliOptions struct {
	// homeDir and environ replace the user home and process environment.
	homeDir string
	environ map[string]string
	// logOutput defaults to stderr.
	logOutput io.Writer
}

func newRootCommand(opts cliOptions) *cobra.Command {
	root := &cobra.Command{
		Use:           "appship",
		Short:         "Appship MCP server for AI coding assistants",
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, &opts)
		},
	}

	root.PersistentFlags().String("config", "", "path to config file (default ~/.appship/config.yaml)")
	root.PersistentFlags().String("api-url", "", "Appship API base URL")
	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("metrics-addr", "", "serve /metrics and /healthz on this address (empty disables)")

	root.AddCommand(
		newServeCmd(&opts),
		newLoginCmd(&opts),
		newLogoutCmd(&opts),
		newWhoamiCmd(&opts),
	)

	return root
}

// flagSettings returns the config path and the overrides for flags set on
// the command line. Unset flags leave file and environment values alone.
func flagSettings(flags *pflag.FlagSet) (string, config.Overrides) {
	var path string
	var overrides config.Overrides
	flags.Visit(func(f *pflag.Flag) {
		value := f.Value.String()
		switch f.Name {
		case "config":
			path = value
		case "api-url":
			overrides.APIURL = &value
		case "log-level":
			overrides.LogLevel = &value
		case "metrics-addr":
			overrides.MetricsAddr = &value
		}
	})
	return path, overrides
}

// loadRuntime resolves settings and builds the logger shared by all commands.
// Warnings raised while loading go to a bootstrap logger on the same output.
func loadRuntime(cmd *cobra.Command, opts *cliOptions) (app.Config, *zap.Logger, error) {
	bootstrap, err := app.NewLogger(app.LoggingConfig{Level: "warn", Output: opts.logOutput})
	if err != nil {
		return app.Config{}, nil, err
	}
	defer func() { _ = bootstrap.Sync() }()

	path, overrides := flagSettings(cmd.Flags())
	settings, err := config.NewLoader(bootstrap).Load(cmd.Context(), config.Options{
		Path:      path,
		HomeDir:   opts.homeDir,
		Environ:   opts.environ,
		Overrides: overrides,
	})
	if err != nil {
		return app.Config{}, nil, err
	}

	logger, err := app.NewLogger(app.LoggingConfig{Level: settings.LogLevel, Output: opts.logOutput})
	if err != nil {
		return app.Config{}, nil, err
	}

	cfg := app.Config{Settings: settings, Version: app.Version}
	if opts.homeDir != "" {
		cfg.CredentialsPath = filepath.Join(opts.homeDir, domain.ConfigDirName, domain.CredentialsFileName)
	}
	return cfg, logger, nil
}

func newAccount(cmd *cobra.Command, opts *cliOptions) (*app.Account, *zap.Logger, error) {
	cfg, logger, err := loadRuntime(cmd, opts)
	if err != nil {
		return nil, nil, err
	}
	account, err := app.InitializeAccount(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return account, logger, nil
}

func signalAwareContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
