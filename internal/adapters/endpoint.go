package adapters

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/registrar/internal/adapters/blockchain"
	"github.com/trebuchet-org/registrar/internal/adapters/ledger"
	"github.com/trebuchet-org/registrar/internal/domain/config"
	"github.com/trebuchet-org/registrar/internal/domain/models"
	"github.com/trebuchet-org/registrar/internal/usecase"
)

// Endpoint connects to the configured network on first use. memory://
// networks are served by an in-process ledger, everything else by a
// JSON-RPC client.
type Endpoint struct {
	cfg *config.RuntimeConfig
	log *slog.Logger

	mu     sync.Mutex
	chain  usecase.Chain
	client *blockchain.Client
}

// NewEndpoint creates an endpoint that has not connected yet
func NewEndpoint(cfg *config.RuntimeConfig, log *slog.Logger) *Endpoint {
	return &Endpoint{
		cfg: cfg,
		log: log.With("component", "Endpoint"),
	}
}

func (e *Endpoint) connect(ctx context.Context) (usecase.Chain, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.chain != nil {
		return e.chain, nil
	}

	network := e.cfg.Network
	if network == nil {
		return nil, fmt.Errorf("no network selected: pass --network or run `registrar networks use <name>`")
	}

	if network.IsMemory() {
		l, err := ledger.FromURL(network.RPCURL, e.log)
		if err != nil {
			return nil, err
		}
		e.log.Debug("using in-memory ledger", "network", network.Name)
		e.chain = l
		return l, nil
	}

	keys, err := blockchain.ParsePrivateKeys(e.cfg.PrivateKeys)
	if err != nil {
		return nil, err
	}
	client, err := blockchain.Dial(ctx, network.RPCURL, keys, e.log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", network.Name, err)
	}
	e.log.Debug("connected", "network", network.Name, "url", network.RPCURL, "signers", len(keys))
	e.client = client
	e.chain = client
	return client, nil
}

// NetworkID implements usecase.NetworkIdentifier
func (e *Endpoint) NetworkID(ctx context.Context) (uint64, error) {
	chain, err := e.connect(ctx)
	if err != nil {
		return 0, err
	}
	return chain.NetworkID(ctx)
}

// Accounts implements usecase.AccountLister
func (e *Endpoint) Accounts(ctx context.Context) ([]common.Address, error) {
	chain, err := e.connect(ctx)
	if err != nil {
		return nil, err
	}
	return chain.Accounts(ctx)
}

// Deploy implements usecase.ContractDeployer
func (e *Endpoint) Deploy(ctx context.Context, from common.Address, artifact *models.Artifact) (*models.DeploymentRecord, error) {
	chain, err := e.connect(ctx)
	if err != nil {
		return nil, err
	}
	return chain.Deploy(ctx, from, artifact)
}

// Bind implements usecase.ContractBinder
func (e *Endpoint) Bind(ctx context.Context, record *models.DeploymentRecord) (usecase.ContractHandle, error) {
	chain, err := e.connect(ctx)
	if err != nil {
		return nil, err
	}
	return chain.Bind(ctx, record)
}

// Close releases the RPC connection, if one was opened
func (e *Endpoint) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client != nil {
		e.client.Close()
		e.client = nil
	}
	e.chain = nil
}

var _ usecase.Chain = (*Endpoint)(nil)
