package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/trebuchet-org/registrar/internal/config"
	domainconfig "github.com/trebuchet-org/registrar/internal/domain/config"
	"github.com/trebuchet-org/registrar/internal/usecase"
)

// NetworkResolverAdapter exposes the cached config.NetworkResolver to the
// use cases and logs each endpoint probe
type NetworkResolverAdapter struct {
	resolver *config.NetworkResolver
	log      *slog.Logger
}

// NewNetworkResolverAdapter creates a new adapter
func NewNetworkResolverAdapter(resolver *config.NetworkResolver, log *slog.Logger) *NetworkResolverAdapter {
	return &NetworkResolverAdapter{
		resolver: resolver,
		log:      log.With("component", "NetworkResolver"),
	}
}

// GetNetworks returns all configured network names, sorted
func (a *NetworkResolverAdapter) GetNetworks(ctx context.Context) []string {
	return a.resolver.GetNetworks()
}

// ResolveNetwork looks up the endpoint of a network and its chain id
func (a *NetworkResolverAdapter) ResolveNetwork(ctx context.Context, name string) (*domainconfig.Network, error) {
	start := time.Now()
	network, err := a.resolver.Resolve(ctx, name)
	if err != nil {
		a.log.Debug("network unavailable", "network", name, "error", err, "took", time.Since(start))
		return nil, err
	}
	a.log.Debug("network resolved", "network", name, "chainId", network.ChainID, "took", time.Since(start))
	return network, nil
}

var _ usecase.NetworkResolver = (*NetworkResolverAdapter)(nil)
