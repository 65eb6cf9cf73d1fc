package usecase

import (
	"context"
	"fmt"
)

// UseNetworkParams contains parameters for selecting the default network
type UseNetworkParams struct {
	// Name of a configured network, empty clears the selection
	Name string
}

// UseNetworkResult contains the saved selection
type UseNetworkResult struct {
	Previous string
	Current  string
	ChainID  uint64
	Path     string
}

// UseNetwork stores the network used when --network is not given
type UseNetwork struct {
	resolver NetworkResolver
	store    LocalConfigRepository
}

// NewUseNetwork creates a new UseNetwork use case
func NewUseNetwork(resolver NetworkResolver, store LocalConfigRepository) *UseNetwork {
	return &UseNetwork{
		resolver: resolver,
		store:    store,
	}
}

// Run validates the network and saves it to the local config
func (uc *UseNetwork) Run(ctx context.Context, params UseNetworkParams) (*UseNetworkResult, error) {
	local, err := uc.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	result := &UseNetworkResult{
		Previous: local.Network,
		Current:  params.Name,
		Path:     uc.store.Path(),
	}

	if params.Name != "" {
		network, err := uc.resolver.ResolveNetwork(ctx, params.Name)
		if err != nil {
			return nil, fmt.Errorf("cannot use network %s: %w", params.Name, err)
		}
		result.ChainID = network.ChainID
	}

	local.Network = params.Name
	if err := uc.store.Save(ctx, local); err != nil {
		return nil, err
	}
	return result, nil
}
