package app

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"appship/internal/buildinfo"
	"appship/internal/domain"
	"appship/internal/infra/catalog"
	"appship/internal/infra/credentials"
	"appship/internal/infra/gateway"
	"appship/internal/infra/remote"
	"appship/internal/infra/router"
	"appship/internal/infra/telemetry"
)

func NewCredentialStore(cfg Config, logger *zap.Logger) (*credentials.Store, error) {
	path := cfg.CredentialsPath
	if path == "" {
		defaultPath, err := credentials.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}
	return credentials.NewStore(credentials.Options{
		Path:   path,
		EnvKey: cfg.Settings.APIKey,
	}, logger), nil
}

func NewRemoteClient(cfg Config, resolver remote.CredentialResolver, metrics domain.Metrics, logger *zap.Logger) *remote.Client {
	return remote.NewClient(remote.ClientConfig{
		BaseURL:   cfg.Settings.APIURL,
		Timeout:   cfg.Settings.RequestTimeout(),
		UserAgent: buildinfo.UserAgent(),
	}, resolver, logger, remote.WithMetrics(metrics))
}

func NewMetricsRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	registry.MustRegister(prometheus.NewGoCollector())
	return registry
}

func NewMetrics(registry *prometheus.Registry) domain.Metrics {
	return telemetry.NewPrometheusMetrics(registry)
}

func NewRouter(client router.Remote, metrics domain.Metrics, logger *zap.Logger) *router.Router {
	return router.New(client, router.Options{
		Logger:  logger,
		Metrics: metrics,
	})
}

func NewToolCatalog() []*mcp.Tool {
	return catalog.Tools()
}

func NewGateway(dispatcher router.Dispatcher, tools []*mcp.Tool, cfg Config, logger *zap.Logger) (*gateway.Gateway, error) {
	version := cfg.Version
	if version == "" {
		version = Version
	}
	return gateway.NewGateway(dispatcher, tools, version, logger)
}

func NewAccount(store *credentials.Store, client *remote.Client, logger *zap.Logger) *Account {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Account{
		store:  store,
		client: client,
		logger: logger.Named("account"),
	}
}
