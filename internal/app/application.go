package app

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"appship/internal/domain"
	"appship/internal/infra/credentials"
	"appship/internal/infra/gateway"
	"appship/internal/infra/telemetry"
)

// Application serves the tool catalog over stdio.
type Application struct {
	cfg      Config
	logger   *zap.Logger
	registry *prometheus.Registry
	store    *credentials.Store
	gateway  *gateway.Gateway
}

// ApplicationOptions captures dependencies and settings for Application.
type ApplicationOptions struct {
	Config   Config
	Logger   *zap.Logger
	Registry *prometheus.Registry
	Store    *credentials.Store
	Gateway  *gateway.Gateway
}

func NewApplication(opts ApplicationOptions) *Application {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Application{
		cfg:      opts.Config,
		logger:   logger.Named("app"),
		registry: opts.Registry,
		store:    opts.Store,
		gateway:  opts.Gateway,
	}
}

// Run blocks until ctx is done or the MCP client disconnects.
func (a *Application) Run(ctx context.Context) error {
	a.logger.Info("configuration loaded",
		zap.String("config", a.cfg.Settings.Path),
		zap.String("api_url", a.cfg.Settings.APIURL),
	)

	source := a.store.Source()
	if source == domain.CredentialSourceNone {
		a.logger.Warn("no credential found; tool calls fail until 'appship login' is run",
			zap.String("path", a.store.Path()),
		)
	} else {
		a.logger.Info("credential resolved", zap.String("source", string(source)))
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	metricsDone := make(chan struct{})
	if addr := a.cfg.Settings.Metrics.ListenAddress; addr != "" {
		go func() {
			defer close(metricsDone)
			err := telemetry.StartHTTPServer(runCtx, telemetry.HTTPServerOptions{
				Addr:     addr,
				Registry: a.registry,
			}, a.logger)
			if err != nil {
				a.logger.Warn("metrics server stopped", zap.Error(err))
			}
		}()
	} else {
		close(metricsDone)
	}

	watchDone := make(chan struct{})
	go func() {
		defer close(watchDone)
		a.watchCredentials(runCtx)
	}()

	err := a.gateway.Run(runCtx)
	cancel()
	<-metricsDone
	<-watchDone
	return err
}

// watchCredentials logs logins and logouts made while the server runs. Calls
// already resolve the credential per request, so nothing else needs updating.
func (a *Application) watchCredentials(ctx context.Context) {
	err := a.store.Watch(ctx, func(source domain.CredentialSource) {
		if source == domain.CredentialSourceNone {
			a.logger.Warn("credential removed; tool calls fail until 'appship login' is run")
			return
		}
		a.logger.Info("credential updated", zap.String("source", string(source)))
	})
	if err != nil {
		a.logger.Debug("credentials watcher disabled", zap.Error(err))
	}
}
