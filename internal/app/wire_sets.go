//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"appship/internal/infra/credentials"
	"appship/internal/infra/remote"
	"appship/internal/infra/router"
)

var CoreInfraSet = wire.NewSet(
	NewMetricsRegistry,
	NewMetrics,
	NewCredentialStore,
	NewRemoteClient,
	wire.Bind(new(remote.CredentialResolver), new(*credentials.Store)),
)

var DispatchSet = wire.NewSet(
	NewRouter,
	NewToolCatalog,
	NewGateway,
	wire.Bind(new(router.Remote), new(*remote.Client)),
	wire.Bind(new(router.Dispatcher), new(*router.Router)),
)

var AppSet = wire.NewSet(
	CoreInfraSet,
	DispatchSet,
	wire.Struct(new(ApplicationOptions), "*"),
	NewApplication,
)

var AccountSet = wire.NewSet(
	CoreInfraSet,
	NewAccount,
)
