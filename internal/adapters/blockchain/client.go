package blockchain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"math/big"
	"slices"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/trebuchet-org/registrar/internal/usecase"
)

// Backend is the part of an Ethereum client the adapter needs.
// *ethclient.Client and simulated.Client both satisfy it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
	TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error)
}

type networkIDReader interface {
	NetworkID(ctx context.Context) (*big.Int, error)
}

// Client implements usecase.Chain against a JSON-RPC endpoint.
//
// Transactions from an account with a configured private key are signed
// locally. Any other account must be managed by the node, which is asked
// to sign through eth_sendTransaction.
type Client struct {
	backend Backend
	rpc     *rpc.Client // nil for in-process backends
	keys    map[common.Address]*ecdsa.PrivateKey
	order   []common.Address
	log     *slog.Logger
}

// Dial connects to an http, ws or IPC endpoint
func Dial(ctx context.Context, rawurl string, keys []*ecdsa.PrivateKey, log *slog.Logger) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, rawurl)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	return NewClient(ethclient.NewClient(rpcClient), rpcClient, keys, log), nil
}

// NewClient wraps an existing backend. rpcClient may be nil, in which case
// only accounts with a private key can send transactions.
func NewClient(backend Backend, rpcClient *rpc.Client, keys []*ecdsa.PrivateKey, log *slog.Logger) *Client {
	c := &Client{
		backend: backend,
		rpc:     rpcClient,
		keys:    make(map[common.Address]*ecdsa.PrivateKey, len(keys)),
		log:     log.With("component", "blockchain"),
	}
	for _, key := range keys {
		addr := crypto.PubkeyToAddress(key.PublicKey)
		if _, dup := c.keys[addr]; dup {
			continue
		}
		c.keys[addr] = key
		c.order = append(c.order, addr)
	}
	return c
}

// ParsePrivateKeys decodes hex private keys, with or without 0x prefix
func ParsePrivateKeys(hexKeys []string) ([]*ecdsa.PrivateKey, error) {
	keys := make([]*ecdsa.PrivateKey, 0, len(hexKeys))
	for i, raw := range hexKeys {
		raw = strings.TrimPrefix(strings.TrimSpace(raw), "0x")
		if raw == "" {
			continue
		}
		key, err := crypto.HexToECDSA(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid private key #%d: %w", i+1, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// Close releases the underlying connection
func (c *Client) Close() {
	if c.rpc != nil {
		c.rpc.Close()
	}
}

// NetworkID returns the endpoint's network id (net_version), falling back
// to the chain id for backends that do not expose it
func (c *Client) NetworkID(ctx context.Context) (uint64, error) {
	if r, ok := c.backend.(networkIDReader); ok {
		id, err := r.NetworkID(ctx)
		if err == nil {
			return id.Uint64(), nil
		}
		c.log.Debug("net_version failed, using chain id", "error", err)
	}
	id, err := c.backend.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get network ID: %w", err)
	}
	return id.Uint64(), nil
}

// Accounts lists the configured key accounts, or the node's accounts when
// no keys are configured
func (c *Client) Accounts(ctx context.Context) ([]common.Address, error) {
	if len(c.order) > 0 {
		return slices.Clone(c.order), nil
	}
	if c.rpc == nil {
		return nil, nil
	}
	var accounts []common.Address
	if err := c.rpc.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// transactor returns signing options for a locally held key
func (c *Client) transactor(ctx context.Context, from common.Address) (*bind.TransactOpts, bool, error) {
	key, ok := c.keys[from]
	if !ok {
		return nil, false, nil
	}
	chainID, err := c.backend.ChainID(ctx)
	if err != nil {
		return nil, true, fmt.Errorf("failed to get chain ID: %w", err)
	}
	opts, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, true, fmt.Errorf("failed to create transactor: %w", err)
	}
	opts.Context = ctx
	return opts, true, nil
}

// sendManaged asks the node to sign and submit a transaction
func (c *Client) sendManaged(ctx context.Context, from common.Address, to *common.Address, data []byte) (*types.Transaction, error) {
	if c.rpc == nil {
		return nil, fmt.Errorf("no private key configured for %s", from.Hex())
	}

	args := map[string]any{
		"from": from,
		"data": hexutil.Bytes(data),
	}
	if to != nil {
		args["to"] = *to
	}

	var hash common.Hash
	if err := c.rpc.CallContext(ctx, &hash, "eth_sendTransaction", args); err != nil {
		return nil, err
	}

	tx, _, err := c.backend.TransactionByHash(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transaction %s: %w", hash.Hex(), err)
	}
	return tx, nil
}

func (c *Client) waitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	c.log.Debug("waiting for transaction", "tx", tx.Hash().Hex())
	receipt, err := bind.WaitMined(ctx, c.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for transaction %s: %w", tx.Hash().Hex(), err)
	}
	return receipt, nil
}

var _ usecase.Chain = (*Client)(nil)
