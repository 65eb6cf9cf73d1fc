package usecase

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/registrar/internal/domain/config"
	"github.com/trebuchet-org/registrar/internal/domain/models"
)

// MetadataStore persists the deployment record handed from the deployer to
// the contract consumers
type MetadataStore interface {
	// Write replaces the stored record in a single atomic operation
	Write(ctx context.Context, record *models.DeploymentRecord) error
	Read(ctx context.Context) (*models.DeploymentRecord, error)
	Exists(ctx context.Context) (bool, error)
	Location() string
}

// ArtifactRepository gives access to the compiled contract artifact
type ArtifactRepository interface {
	Load(ctx context.Context) (*models.Artifact, error)
	RecordDeployment(ctx context.Context, networkID uint64, entry *models.NetworkDeployment) error
	Path() string
}

// NetworkIdentifier reports the network id of the connected endpoint
type NetworkIdentifier interface {
	NetworkID(ctx context.Context) (uint64, error)
}

// AccountLister enumerates the accounts available at call time
type AccountLister interface {
	Accounts(ctx context.Context) ([]common.Address, error)
}

// ContractDeployer submits a creation transaction and waits for its receipt
type ContractDeployer interface {
	Deploy(ctx context.Context, from common.Address, artifact *models.Artifact) (*models.DeploymentRecord, error)
}

// ContractBinder binds a deployment record to a callable handle
type ContractBinder interface {
	Bind(ctx context.Context, record *models.DeploymentRecord) (ContractHandle, error)
}

// Chain is everything the use cases need from an Ethereum endpoint
type Chain interface {
	NetworkIdentifier
	AccountLister
	ContractDeployer
	ContractBinder
}

// ContractHandle is a bound deployed contract. It is read-only after
// construction and safe for concurrent use.
type ContractHandle interface {
	Address() common.Address
	// Transact sends a state-changing call from the given account and
	// waits for it to be mined
	Transact(ctx context.Context, from common.Address, method string, args ...any) (*models.TxResult, error)
	// Call performs a read-only call
	Call(ctx context.Context, method string, args ...any) ([]any, error)
}

// HandleProvider produces the contract handle using the configured strategy
type HandleProvider interface {
	InitContract(ctx context.Context) (ContractHandle, error)
	// Record resolves the deployment record without binding it
	Record(ctx context.Context) (*models.DeploymentRecord, error)
	Source() config.ContractSource
}

// NetworkResolver resolves configured network names to endpoints
type NetworkResolver interface {
	GetNetworks(ctx context.Context) []string
	ResolveNetwork(ctx context.Context, name string) (*config.Network, error)
}

// Confirmer asks the operator a yes/no question
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

// LocalConfigRepository persists per-checkout settings
type LocalConfigRepository interface {
	Load(ctx context.Context) (*config.LocalConfig, error)
	Save(ctx context.Context, cfg *config.LocalConfig) error
	Path() string
}

// NetworkSelector lets the operator pick a network interactively
type NetworkSelector interface {
	SelectNetwork(ctx context.Context, networks []NetworkStatus, current string) (string, error)
}
