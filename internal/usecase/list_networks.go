package usecase

import (
	"context"
	"sync"

	"github.com/trebuchet-org/registrar/internal/domain/config"
)

// ListNetworksParams contains parameters for listing networks
type ListNetworksParams struct{}

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Networks []NetworkStatus
	// Current is the network selected for this run, empty if none
	Current string
}

// NetworkStatus represents the status of a network
type NetworkStatus struct {
	Name    string
	ChainID uint64
	RPCURL  string
	Error   error
}

// ListNetworks is a use case for listing configured endpoints
type ListNetworks struct {
	resolver NetworkResolver
	current  string
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(resolver NetworkResolver, current *config.Network) *ListNetworks {
	uc := &ListNetworks{resolver: resolver}
	if current != nil {
		uc.current = current.Name
	}
	return uc
}

// Run resolves every configured network concurrently. Resolution errors
// are reported per network rather than failing the listing.
func (uc *ListNetworks) Run(ctx context.Context, params ListNetworksParams) (*ListNetworksResult, error) {
	names := uc.resolver.GetNetworks(ctx)

	networks := make([]NetworkStatus, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status := NetworkStatus{Name: name}
			info, err := uc.resolver.ResolveNetwork(ctx, name)
			if err != nil {
				status.Error = err
			} else {
				status.ChainID = info.ChainID
				status.RPCURL = info.RPCURL
			}
			networks[i] = status
		}()
	}
	wg.Wait()

	return &ListNetworksResult{
		Networks: networks,
		Current:  uc.current,
	}, nil
}
