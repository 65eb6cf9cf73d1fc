package adapters

import (
	"log/slog"

	"github.com/google/wire"
	internalconfig "github.com/trebuchet-org/registrar/internal/adapters/config"
	"github.com/trebuchet-org/registrar/internal/adapters/contract"
	"github.com/trebuchet-org/registrar/internal/adapters/fs"
	"github.com/trebuchet-org/registrar/internal/adapters/interactive"
	"github.com/trebuchet-org/registrar/internal/adapters/metadata"
	"github.com/trebuchet-org/registrar/internal/adapters/network"
	"github.com/trebuchet-org/registrar/internal/config"
	domainconfig "github.com/trebuchet-org/registrar/internal/domain/config"
	"github.com/trebuchet-org/registrar/internal/usecase"
)

// ProvideProbe provides the chain id probe used by the network resolver
func ProvideProbe(log *slog.Logger) *network.Probe {
	return network.NewProbe(0, log)
}

// ProvideNetworkResolver provides the cached network resolver
func ProvideNetworkResolver(cfg *domainconfig.RuntimeConfig, probe *network.Probe) *config.NetworkResolver {
	return config.NewNetworkResolver(cfg.DataDir, cfg.Networks, probe.ChainID)
}

// ProvideCurrentNetwork provides the network selected for this run
func ProvideCurrentNetwork(cfg *domainconfig.RuntimeConfig) *domainconfig.Network {
	return cfg.Network
}

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewArtifactRepository,
	wire.Bind(new(usecase.ArtifactRepository), new(*fs.ArtifactRepository)),

	fs.NewLocalConfigStore,
	wire.Bind(new(usecase.LocalConfigRepository), new(*fs.LocalConfigStore)),

	metadata.NewStore,
)

// ChainSet provides the network endpoint and the contract handle provider
var ChainSet = wire.NewSet(
	NewEndpoint,
	wire.Bind(new(usecase.Chain), new(*Endpoint)),
	wire.Bind(new(usecase.AccountLister), new(*Endpoint)),
	wire.Bind(new(contract.Endpoint), new(*Endpoint)),

	contract.NewProvider,
	wire.Bind(new(usecase.HandleProvider), new(*contract.Provider)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.Confirmer), new(*interactive.SelectorAdapter)),
	wire.Bind(new(usecase.NetworkSelector), new(*interactive.SelectorAdapter)),
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	ProvideProbe,
	ProvideNetworkResolver,
	ProvideCurrentNetwork,
	internalconfig.NewNetworkResolverAdapter,
	wire.Bind(new(usecase.NetworkResolver), new(*internalconfig.NetworkResolverAdapter)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	ChainSet,
	InteractiveSet,
	ConfigSet,
)
