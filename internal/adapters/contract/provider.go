package contract

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/trebuchet-org/registrar/internal/domain"
	"github.com/trebuchet-org/registrar/internal/domain/config"
	"github.com/trebuchet-org/registrar/internal/domain/models"
	"github.com/trebuchet-org/registrar/internal/usecase"
)

// Endpoint is what the provider needs from the connected chain
type Endpoint interface {
	usecase.NetworkIdentifier
	usecase.ContractBinder
}

// Provider builds the contract handle from the configured source:
//
//   - static: address and ABI from the deployment record
//   - network-lookup: address from the artifact network table for the
//     endpoint's network id, ABI from the artifact
//
// The handle is built once and cached for the life of the process.
type Provider struct {
	source    config.ContractSource
	endpoint  Endpoint
	store     usecase.MetadataStore
	artifacts usecase.ArtifactRepository
	log       *slog.Logger

	mu     sync.Mutex
	handle usecase.ContractHandle
}

// NewProvider creates a provider. The source is validated on first use.
func NewProvider(cfg *config.RuntimeConfig, endpoint Endpoint, store usecase.MetadataStore, artifacts usecase.ArtifactRepository, log *slog.Logger) *Provider {
	source := cfg.Contract.Source
	if source == "" {
		source = config.SourceStatic
	}
	return &Provider{
		source:    source,
		endpoint:  endpoint,
		store:     store,
		artifacts: artifacts,
		log:       log.With("component", "ContractProvider", "strategy", string(source)),
	}
}

// Source returns the configured strategy
func (p *Provider) Source() config.ContractSource {
	return p.source
}

// InitContract returns the cached handle, building it on first call.
// Concurrent callers block until the handle is ready.
func (p *Provider) InitContract(ctx context.Context) (usecase.ContractHandle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.handle != nil {
		return p.handle, nil
	}

	record, err := p.Record(ctx)
	if err != nil {
		return nil, err
	}

	handle, err := p.endpoint.Bind(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("failed to bind contract at %s: %w", record.Address, err)
	}

	p.log.Debug("contract handle ready", "address", record.Address, "network", record.NetworkID)
	p.handle = handle
	return handle, nil
}

// Record resolves the deployment record for the connected network
func (p *Provider) Record(ctx context.Context) (*models.DeploymentRecord, error) {
	switch p.source {
	case config.SourceStatic:
		return p.staticRecord(ctx)
	case config.SourceNetworkLookup:
		return p.lookupRecord(ctx)
	default:
		return nil, fmt.Errorf("%w: %q (want %s or %s)", domain.ErrUnknownSource, p.source, config.SourceStatic, config.SourceNetworkLookup)
	}
}

func (p *Provider) staticRecord(ctx context.Context) (*models.DeploymentRecord, error) {
	record, err := p.store.Read(ctx)
	if err != nil {
		return nil, err
	}

	networkID, err := p.endpoint.NetworkID(ctx)
	if err != nil {
		return nil, err
	}
	// records written without a network id are accepted as-is
	if record.NetworkID != 0 && record.NetworkID != networkID {
		return nil, fmt.Errorf("%w: record at %s is for network %d, endpoint is on network %d",
			domain.ErrNetworkMismatch, p.store.Location(), record.NetworkID, networkID)
	}
	return record, nil
}

func (p *Provider) lookupRecord(ctx context.Context) (*models.DeploymentRecord, error) {
	artifact, err := p.artifacts.Load(ctx)
	if err != nil {
		return nil, err
	}

	networkID, err := p.endpoint.NetworkID(ctx)
	if err != nil {
		return nil, err
	}

	record, ok := artifact.Record(networkID)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no deployment for network %d", domain.ErrNotDeployed, artifact.ContractName, networkID)
	}
	return record, nil
}

var _ usecase.HandleProvider = (*Provider)(nil)
