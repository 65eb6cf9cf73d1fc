package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/trebuchet-org/registrar/internal/domain"
	"github.com/trebuchet-org/registrar/internal/domain/config"
)

// ChainIDFetcher asks an endpoint for its chain id
type ChainIDFetcher func(ctx context.Context, rpcURL string) (uint64, error)

// NetworkResolver resolves network names to endpoints, caching chain ids
// in the data directory
type NetworkResolver struct {
	dataDir   string
	endpoints map[string]string
	fetch     ChainIDFetcher
	cache     *NetworkCache
	mu        sync.RWMutex
}

// NetworkCache caches chain ID lookups
type NetworkCache struct {
	RPCs      map[string]uint64 `json:"rpcs"` // rpcURL -> chainID
	UpdatedAt time.Time         `json:"updatedAt"`
}

// NewNetworkResolver creates a new network resolver
func NewNetworkResolver(dataDir string, endpoints map[string]string, fetch ChainIDFetcher) *NetworkResolver {
	r := &NetworkResolver{
		dataDir:   dataDir,
		endpoints: endpoints,
		fetch:     fetch,
	}
	r.loadCache()
	return r
}

// GetNetworks returns the configured network names, sorted
func (r *NetworkResolver) GetNetworks() []string {
	names := make([]string, 0, len(r.endpoints))
	for name := range r.endpoints {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve looks up a network and asks its endpoint for the chain id.
// memory:// endpoints are not cached.
func (r *NetworkResolver) Resolve(ctx context.Context, name string) (*config.Network, error) {
	network, err := LookupNetwork(r.endpoints, name)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	chainID, cached := r.cache.RPCs[network.RPCURL]
	r.mu.RUnlock()

	if !cached {
		if r.fetch == nil {
			return nil, fmt.Errorf("no chain id source for %s", network.RPCURL)
		}
		chainID, err = r.fetch(ctx, network.RPCURL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch chain ID for network %s: %w", name, err)
		}
		if !network.IsMemory() {
			r.updateCache(network.RPCURL, chainID)
		}
	}

	network.ChainID = chainID
	network.ExplorerURL = explorerURL(chainID)
	return network, nil
}

// LookupNetwork maps a name to its endpoint without contacting it. A value
// that is itself an endpoint URL is accepted as an ad-hoc network.
func LookupNetwork(endpoints map[string]string, name string) (*config.Network, error) {
	if name == "" {
		return nil, fmt.Errorf("network not specified")
	}

	if url, ok := endpoints[name]; ok {
		if url == "" {
			return nil, fmt.Errorf("network %s has an empty RPC URL (unset environment variable?)", name)
		}
		return &config.Network{Name: name, RPCURL: url}, nil
	}

	if strings.Contains(name, "://") || strings.HasSuffix(name, ".ipc") {
		return &config.Network{Name: "custom", RPCURL: name}, nil
	}

	return nil, fmt.Errorf("%w: network %s is not configured in %s", domain.ErrNotFound, name, ProjectFileName)
}

func explorerURL(chainID uint64) string {
	switch chainID {
	case 1:
		return "https://etherscan.io"
	case 11155111:
		return "https://sepolia.etherscan.io"
	case 17000:
		return "https://holesky.etherscan.io"
	case 10:
		return "https://optimistic.etherscan.io"
	case 137:
		return "https://polygonscan.com"
	case 8453:
		return "https://basescan.org"
	case 42161:
		return "https://arbiscan.io"
	default:
		return ""
	}
}

func (r *NetworkResolver) cachePath() string {
	return filepath.Join(r.dataDir, "cache", "chainIds.json")
}

// loadCache loads the chain ID cache from disk
func (r *NetworkResolver) loadCache() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache = &NetworkCache{RPCs: make(map[string]uint64)}

	data, err := os.ReadFile(r.cachePath())
	if err != nil {
		return
	}

	var cache NetworkCache
	if err := json.Unmarshal(data, &cache); err != nil || cache.RPCs == nil {
		return
	}
	r.cache = &cache
}

func (r *NetworkResolver) updateCache(rpcURL string, chainID uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache.RPCs[rpcURL] = chainID
	r.cache.UpdatedAt = time.Now()

	// the cache only saves round trips, a failed write is harmless
	_ = r.saveCache()
}

func (r *NetworkResolver) saveCache() error {
	if err := os.MkdirAll(filepath.Dir(r.cachePath()), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(r.cache, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.cachePath(), data, 0644)
}
