package usecase_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/registrar/internal/adapters/ledger"
	"github.com/trebuchet-org/registrar/internal/domain/bindings"
	"github.com/trebuchet-org/registrar/internal/domain/config"
	"github.com/trebuchet-org/registrar/internal/domain/models"
	"github.com/trebuchet-org/registrar/internal/usecase"
)

// MockChain is a mock implementation of Chain
type MockChain struct {
	mock.Mock
}

func (m *MockChain) NetworkID(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockChain) Accounts(ctx context.Context) ([]common.Address, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]common.Address), args.Error(1)
}

func (m *MockChain) Deploy(ctx context.Context, from common.Address, artifact *models.Artifact) (*models.DeploymentRecord, error) {
	args := m.Called(ctx, from, artifact)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeploymentRecord), args.Error(1)
}

func (m *MockChain) Bind(ctx context.Context, record *models.DeploymentRecord) (usecase.ContractHandle, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(usecase.ContractHandle), args.Error(1)
}

// MockMetadataStore is a mock implementation of MetadataStore
type MockMetadataStore struct {
	mock.Mock
}

func (m *MockMetadataStore) Write(ctx context.Context, record *models.DeploymentRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockMetadataStore) Read(ctx context.Context) (*models.DeploymentRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeploymentRecord), args.Error(1)
}

func (m *MockMetadataStore) Exists(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockMetadataStore) Location() string {
	return m.Called().String(0)
}

// MockArtifactRepository is a mock implementation of ArtifactRepository
type MockArtifactRepository struct {
	mock.Mock
}

func (m *MockArtifactRepository) Load(ctx context.Context) (*models.Artifact, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Artifact), args.Error(1)
}

func (m *MockArtifactRepository) RecordDeployment(ctx context.Context, networkID uint64, entry *models.NetworkDeployment) error {
	return m.Called(ctx, networkID, entry).Error(0)
}

func (m *MockArtifactRepository) Path() string {
	return m.Called().String(0)
}

// MockConfirmer is a mock implementation of Confirmer
type MockConfirmer struct {
	mock.Mock
}

func (m *MockConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	args := m.Called(ctx, prompt)
	return args.Bool(0), args.Error(1)
}

// MockNetworkResolver is a mock implementation of NetworkResolver
type MockNetworkResolver struct {
	mock.Mock
}

func (m *MockNetworkResolver) GetNetworks(ctx context.Context) []string {
	return m.Called(ctx).Get(0).([]string)
}

func (m *MockNetworkResolver) ResolveNetwork(ctx context.Context, name string) (*config.Network, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*config.Network), args.Error(1)
}

// MockLocalConfigRepository is a mock implementation of LocalConfigRepository
type MockLocalConfigRepository struct {
	mock.Mock
}

func (m *MockLocalConfigRepository) Load(ctx context.Context) (*config.LocalConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*config.LocalConfig), args.Error(1)
}

func (m *MockLocalConfigRepository) Save(ctx context.Context, cfg *config.LocalConfig) error {
	return m.Called(ctx, cfg).Error(0)
}

func (m *MockLocalConfigRepository) Path() string {
	return m.Called().String(0)
}

// MockProgressSink records every event
type MockProgressSink struct {
	mu     sync.Mutex
	events []usecase.ProgressEvent
	errors []string
}

func (m *MockProgressSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *MockProgressSink) Info(string) {}

func (m *MockProgressSink) Error(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, message)
}

func (m *MockProgressSink) stages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.Stage)
	}
	return out
}

// ledgerProvider hands out a handle bound on an in-memory ledger
type ledgerProvider struct {
	record *models.DeploymentRecord
	handle usecase.ContractHandle
	err    error
}

func (p *ledgerProvider) InitContract(ctx context.Context) (usecase.ContractHandle, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.handle, nil
}

func (p *ledgerProvider) Record(ctx context.Context) (*models.DeploymentRecord, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.record, nil
}

func (p *ledgerProvider) Source() config.ContractSource {
	return config.SourceStatic
}

func registrationArtifact() *models.Artifact {
	return &models.Artifact{
		ContractName: "Registration",
		ABI:          json.RawMessage(bindings.RegistrationMetaData.ABI),
		Bytecode:     "0x00",
	}
}

// deployOnLedger deploys Registration from the first account of a fresh
// ledger
func deployOnLedger(t *testing.T, opts ...ledger.Option) (*ledger.Ledger, *ledgerProvider, []common.Address) {
	t.Helper()
	ctx := context.Background()

	l := ledger.New(opts...)
	accounts, err := l.Accounts(ctx)
	require.NoError(t, err)

	record, err := l.Deploy(ctx, accounts[0], registrationArtifact())
	require.NoError(t, err)
	handle, err := l.Bind(ctx, record)
	require.NoError(t, err)

	return l, &ledgerProvider{record: record, handle: handle}, accounts
}
