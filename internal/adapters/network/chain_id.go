package network

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/registrar/internal/adapters/ledger"
	"github.com/trebuchet-org/registrar/internal/domain/config"
)

// DefaultProbeTimeout bounds a single chain id request
const DefaultProbeTimeout = 5 * time.Second

// Probe asks endpoints for their chain id
type Probe struct {
	timeout time.Duration
	log     *slog.Logger
}

// NewProbe creates a probe. A zero timeout uses DefaultProbeTimeout.
func NewProbe(timeout time.Duration, log *slog.Logger) *Probe {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &Probe{
		timeout: timeout,
		log:     log.With("component", "NetworkProbe"),
	}
}

// ChainID dials rpcURL and returns its chain id. memory:// endpoints report
// the network id the in-process ledger would be created with.
func (p *Probe) ChainID(ctx context.Context, rpcURL string) (uint64, error) {
	if strings.HasPrefix(rpcURL, config.MemoryScheme) {
		l, err := ledger.FromURL(rpcURL, nil)
		if err != nil {
			return 0, err
		}
		return l.NetworkID(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return 0, fmt.Errorf("failed to dial %s: %w", rpcURL, err)
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("eth_chainId failed on %s: %w", rpcURL, err)
	}

	p.log.Debug("probed endpoint", "url", rpcURL, "chainId", chainID)
	return chainID.Uint64(), nil
}
