package ledger

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"math/big"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/registrar/internal/domain"
	"github.com/trebuchet-org/registrar/internal/domain/bindings"
	"github.com/trebuchet-org/registrar/internal/domain/config"
	"github.com/trebuchet-org/registrar/internal/domain/models"
	"github.com/trebuchet-org/registrar/internal/usecase"
)

const (
	// DefaultNetworkID matches a local Ganache chain
	DefaultNetworkID = 5777
	// DefaultAccounts is the number of unlocked accounts exposed
	DefaultAccounts = 10

	reasonNotOwner      = "only owner can register users"
	reasonNotRegistered = "user is not registered"
)

// User is a registered user as stored by the contract
type User struct {
	Name string
	Age  *big.Int
}

// Ledger is an in-process chain that executes the Registration contract
// rules without an EVM: registerUser is owner-only, send is allowed for
// registered users only, and both emit their events. Every deployment
// behaves as a Registration contract regardless of its bytecode.
type Ledger struct {
	mu        sync.RWMutex
	networkID uint64
	accounts  []common.Address
	contracts map[common.Address]*registration
	nonces    map[common.Address]uint64
	block     uint64
	latency   time.Duration
	log       *slog.Logger
}

type registration struct {
	abi    *abi.ABI
	owner  common.Address
	users  map[common.Address]User
	values map[common.Address]*big.Int
}

// Option configures a Ledger
type Option func(*Ledger)

// WithNetworkID sets the reported network id
func WithNetworkID(id uint64) Option {
	return func(l *Ledger) {
		l.networkID = id
	}
}

// WithAccounts sets the number of exposed accounts
func WithAccounts(n int) Option {
	return func(l *Ledger) {
		l.accounts = deriveAccounts(n)
	}
}

// WithLatency delays every transaction, for exercising overlap handling
func WithLatency(d time.Duration) Option {
	return func(l *Ledger) {
		l.latency = d
	}
}

// WithLogger sets the logger
func WithLogger(log *slog.Logger) Option {
	return func(l *Ledger) {
		l.log = log.With("component", "ledger")
	}
}

// New creates an empty ledger
func New(opts ...Option) *Ledger {
	l := &Ledger{
		networkID: DefaultNetworkID,
		accounts:  deriveAccounts(DefaultAccounts),
		contracts: make(map[common.Address]*registration),
		nonces:    make(map[common.Address]uint64),
		log:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// FromURL builds a ledger from a memory:// endpoint. Supported query
// parameters are network, accounts and latency, e.g.
// memory://?network=5777&accounts=4&latency=200ms
func FromURL(rawurl string, log *slog.Logger) (*Ledger, error) {
	if !strings.HasPrefix(rawurl, config.MemoryScheme) {
		return nil, fmt.Errorf("not a memory endpoint: %s", rawurl)
	}
	u, err := url.Parse(rawurl)
	if err != nil {
		return nil, fmt.Errorf("invalid memory endpoint %q: %w", rawurl, err)
	}

	var opts []Option
	if log != nil {
		opts = append(opts, WithLogger(log))
	}
	q := u.Query()
	if v := q.Get("network"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid network id %q: %w", v, err)
		}
		opts = append(opts, WithNetworkID(id))
	}
	if v := q.Get("accounts"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid account count %q", v)
		}
		opts = append(opts, WithAccounts(n))
	}
	if v := q.Get("latency"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid latency %q: %w", v, err)
		}
		opts = append(opts, WithLatency(d))
	}
	return New(opts...), nil
}

func deriveAccounts(n int) []common.Address {
	accounts := make([]common.Address, n)
	for i := range accounts {
		seed := make([]byte, 8)
		binary.BigEndian.PutUint64(seed, uint64(i))
		accounts[i] = common.BytesToAddress(crypto.Keccak256([]byte("registrar/ledger"), seed))
	}
	return accounts
}

// NetworkID returns the configured network id
func (l *Ledger) NetworkID(ctx context.Context) (uint64, error) {
	return l.networkID, ctx.Err()
}

// Accounts returns the unlocked accounts
func (l *Ledger) Accounts(ctx context.Context) ([]common.Address, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]common.Address, len(l.accounts))
	copy(out, l.accounts)
	return out, nil
}

// RegistrationArtifact is the Registration ABI without creation code.
// The ledger executes the contract natively, so no bytecode is needed.
func RegistrationArtifact() *models.Artifact {
	return &models.Artifact{
		ContractName: config.DefaultContractName,
		ABI:          []byte(bindings.RegistrationMetaData.ABI),
	}
}

// Deploy creates a Registration instance owned by from
func (l *Ledger) Deploy(ctx context.Context, from common.Address, artifact *models.Artifact) (*models.DeploymentRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	parsed, err := abi.JSON(bytes.NewReader(artifact.ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI of %s: %w", artifact.ContractName, err)
	}
	for _, method := range []string{"registerUser", "send"} {
		if _, ok := parsed.Methods[method]; !ok {
			return nil, fmt.Errorf("%w: %s has no %s method", domain.ErrInvalidDeployment, artifact.ContractName, method)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	nonce := l.nonces[from]
	address := crypto.CreateAddress(from, nonce)
	hash := l.nextTx(from)

	l.contracts[address] = &registration{
		abi:    &parsed,
		owner:  from,
		users:  make(map[common.Address]User),
		values: make(map[common.Address]*big.Int),
	}

	l.log.Debug("contract deployed", "address", address.Hex(), "owner", from.Hex())

	return &models.DeploymentRecord{
		Address:         address.Hex(),
		ABI:             artifact.ABI,
		NetworkID:       l.networkID,
		ContractName:    artifact.ContractName,
		TransactionHash: hash.Hex(),
		BlockNumber:     l.block,
		Deployer:        from.Hex(),
	}, nil
}

// Bind returns a handle to a contract deployed on this ledger
func (l *Ledger) Bind(ctx context.Context, record *models.DeploymentRecord) (usecase.ContractHandle, error) {
	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDeployment, err)
	}
	parsed, err := record.ParsedABI()
	if err != nil {
		return nil, err
	}

	l.mu.RLock()
	_, ok := l.contracts[record.ContractAddress()]
	l.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: no code at %s", domain.ErrNotDeployed, record.Address)
	}

	return &handle{ledger: l, address: record.ContractAddress(), abi: parsed}, nil
}

// User returns the stored user for addr on the contract at address
func (l *Ledger) User(address, addr common.Address) (User, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.contracts[address]
	if !ok {
		return User{}, false
	}
	u, ok := c.users[addr]
	return u, ok
}

// Value returns the last value sent by addr to the contract at address
func (l *Ledger) Value(address, addr common.Address) (*big.Int, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.contracts[address]
	if !ok {
		return nil, false
	}
	v, ok := c.values[addr]
	return v, ok
}

// nextTx mines a block and returns the hash of its only transaction.
// Callers hold l.mu.
func (l *Ledger) nextTx(from common.Address) common.Hash {
	nonce := l.nonces[from]
	l.nonces[from] = nonce + 1
	l.block++
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, nonce)
	return crypto.Keccak256Hash(from.Bytes(), buf)
}

type handle struct {
	ledger  *Ledger
	address common.Address
	abi     *abi.ABI
}

func (h *handle) Address() common.Address {
	return h.address
}

func (h *handle) Transact(ctx context.Context, from common.Address, method string, args ...any) (*models.TxResult, error) {
	m, ok := h.abi.Methods[method]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownMethod, method)
	}
	data, err := h.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s arguments: %w", method, err)
	}
	inputs, err := m.Inputs.Unpack(data[4:])
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s arguments: %w", method, err)
	}

	if h.ledger.latency > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(h.ledger.latency):
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h.ledger.mu.Lock()
	defer h.ledger.mu.Unlock()

	c, ok := h.ledger.contracts[h.address]
	if !ok {
		return nil, fmt.Errorf("%w: no code at %s", domain.ErrNotDeployed, h.address.Hex())
	}

	var event models.Event
	switch method {
	case "registerUser":
		if from != c.owner {
			return nil, &domain.RevertError{Method: method, Reason: reasonNotOwner}
		}
		user := inputs[0].(common.Address)
		name := inputs[1].(string)
		age := inputs[2].(*big.Int)
		c.users[user] = User{Name: name, Age: new(big.Int).Set(age)}
		event = models.Event{
			Name: bindings.RegistrationNewUserEventName,
			Fields: map[string]any{
				"userAddress": user,
				"name":        name,
				"age":         new(big.Int).Set(age),
			},
		}
	case "send":
		if _, registered := c.users[from]; !registered {
			return nil, &domain.RevertError{Method: method, Reason: reasonNotRegistered}
		}
		value := inputs[0].(*big.Int)
		c.values[from] = new(big.Int).Set(value)
		event = models.Event{
			Name: bindings.RegistrationNewValueEventName,
			Fields: map[string]any{
				"userAddress": from,
				"value":       new(big.Int).Set(value),
			},
		}
	default:
		return nil, fmt.Errorf("%w: %s is not executed by the in-memory ledger", domain.ErrUnknownMethod, method)
	}

	hash := h.ledger.nextTx(from)
	return &models.TxResult{
		Hash:        hash.Hex(),
		From:        from.Hex(),
		To:          h.address.Hex(),
		Method:      method,
		Status:      models.TransactionStatusExecuted,
		BlockNumber: h.ledger.block,
		Events:      []models.Event{event},
	}, nil
}

func (h *handle) Call(ctx context.Context, method string, args ...any) ([]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, ok := h.abi.Methods[method]; !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownMethod, method)
	}

	h.ledger.mu.RLock()
	defer h.ledger.mu.RUnlock()

	c, ok := h.ledger.contracts[h.address]
	if !ok {
		return nil, fmt.Errorf("%w: no code at %s", domain.ErrNotDeployed, h.address.Hex())
	}

	switch method {
	case "owner":
		return []any{c.owner}, nil
	default:
		return nil, fmt.Errorf("%w: %s is not executed by the in-memory ledger", domain.ErrUnknownMethod, method)
	}
}

var (
	_ usecase.Chain          = (*Ledger)(nil)
	_ usecase.ContractHandle = (*handle)(nil)
)
