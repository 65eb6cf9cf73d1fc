package blockchain_test

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/registrar/internal/adapters/blockchain"
	"github.com/trebuchet-org/registrar/internal/domain"
	"github.com/trebuchet-org/registrar/internal/domain/bindings"
	"github.com/trebuchet-org/registrar/internal/domain/models"
)

// creationCode wraps runtime code in an initcode that returns it verbatim
func creationCode(runtime []byte) []byte {
	// PUSH1 len DUP1 PUSH1 0x0b PUSH1 0 CODECOPY PUSH1 0 RETURN
	init := []byte{0x60, byte(len(runtime)), 0x80, 0x60, 0x0b, 0x60, 0x00, 0x39, 0x60, 0x00, 0xf3}
	return append(init, runtime...)
}

// echoRuntime emits NewValue(msg.sender, calldata[4:36]) for every call
func echoRuntime() []byte {
	topic := crypto.Keccak256Hash([]byte("NewValue(address,uint256)"))
	code := []byte{
		0x33,       // CALLER
		0x60, 0x00, // PUSH1 0
		0x52,       // MSTORE
		0x60, 0x04, // PUSH1 4
		0x35,       // CALLDATALOAD
		0x60, 0x20, // PUSH1 32
		0x52,       // MSTORE
		0x7f,       // PUSH32 topic
	}
	code = append(code, topic.Bytes()...)
	code = append(code,
		0x60, 0x40, // PUSH1 64
		0x60, 0x00, // PUSH1 0
		0xa1, // LOG1
		0x00, // STOP
	)
	return code
}

// revertRuntime reverts every call
var revertRuntime = []byte{0x60, 0x00, 0x60, 0x00, 0xfd}

type testChain struct {
	backend *simulated.Backend
	client  *blockchain.Client
	keys    []*ecdsa.PrivateKey
}

func (tc *testChain) address(i int) common.Address {
	return crypto.PubkeyToAddress(tc.keys[i].PublicKey)
}

func setupTestChain(t *testing.T) *testChain {
	t.Helper()

	balance, _ := new(big.Int).SetString("10000000000000000000", 10)
	alloc := types.GenesisAlloc{}
	keys := make([]*ecdsa.PrivateKey, 2)
	for i := range keys {
		key, err := crypto.GenerateKey()
		require.NoError(t, err)
		keys[i] = key
		alloc[crypto.PubkeyToAddress(key.PublicKey)] = types.Account{Balance: balance}
	}

	backend := simulated.NewBackend(alloc, simulated.WithBlockGasLimit(8000000))
	t.Cleanup(func() { _ = backend.Close() })

	// mine continuously so WaitMined returns
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() {
		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				backend.Commit()
			}
		}
	}()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &testChain{
		backend: backend,
		client:  blockchain.NewClient(backend.Client(), nil, keys, log),
		keys:    keys,
	}
}

func registrationArtifact(runtime []byte) *models.Artifact {
	return &models.Artifact{
		ContractName: "Registration",
		ABI:          json.RawMessage(bindings.RegistrationMetaData.ABI),
		Bytecode:     "0x" + hex.EncodeToString(creationCode(runtime)),
	}
}

func TestClient(t *testing.T) {
	tc := setupTestChain(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	t.Run("accounts come from configured keys in order", func(t *testing.T) {
		accounts, err := tc.client.Accounts(ctx)
		require.NoError(t, err)
		assert.Equal(t, []common.Address{tc.address(0), tc.address(1)}, accounts)
	})

	t.Run("network id", func(t *testing.T) {
		id, err := tc.client.NetworkID(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(1337), id)
	})

	t.Run("deploy and send", func(t *testing.T) {
		record, err := tc.client.Deploy(ctx, tc.address(0), registrationArtifact(echoRuntime()))
		require.NoError(t, err)
		require.NoError(t, record.Validate())
		assert.Equal(t, uint64(1337), record.NetworkID)
		assert.Equal(t, tc.address(0).Hex(), record.Deployer)
		assert.NotEmpty(t, record.TransactionHash)
		assert.JSONEq(t, bindings.RegistrationMetaData.ABI, string(record.ABI))

		handle, err := tc.client.Bind(ctx, record)
		require.NoError(t, err)
		assert.Equal(t, record.ContractAddress(), handle.Address())

		tx, err := handle.Transact(ctx, tc.address(1), "send", big.NewInt(100))
		require.NoError(t, err)
		assert.Equal(t, models.TransactionStatusExecuted, tx.Status)
		assert.Equal(t, tc.address(1).Hex(), tx.From)

		ev, ok := tx.EventByName(bindings.RegistrationNewValueEventName)
		require.True(t, ok)
		assert.Equal(t, tc.address(1), ev.Fields["userAddress"])
		assert.Equal(t, 0, big.NewInt(100).Cmp(ev.Fields["value"].(*big.Int)))
	})

	t.Run("unknown method", func(t *testing.T) {
		record, err := tc.client.Deploy(ctx, tc.address(0), registrationArtifact(echoRuntime()))
		require.NoError(t, err)
		handle, err := tc.client.Bind(ctx, record)
		require.NoError(t, err)

		_, err = handle.Transact(ctx, tc.address(0), "withdraw")
		assert.ErrorIs(t, err, domain.ErrUnknownMethod)
	})

	t.Run("revert is classified", func(t *testing.T) {
		record, err := tc.client.Deploy(ctx, tc.address(0), registrationArtifact(revertRuntime))
		require.NoError(t, err)
		handle, err := tc.client.Bind(ctx, record)
		require.NoError(t, err)

		_, err = handle.Transact(ctx, tc.address(1), "send", big.NewInt(1))
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrTransactionReverted)

		var revert *domain.RevertError
		require.ErrorAs(t, err, &revert)
		assert.Equal(t, "send", revert.Method)
	})

	t.Run("bind without code", func(t *testing.T) {
		record := &models.DeploymentRecord{
			Address:   "0x000000000000000000000000000000000000dEaD",
			ABI:       json.RawMessage(bindings.RegistrationMetaData.ABI),
			NetworkID: 1337,
		}
		_, err := tc.client.Bind(ctx, record)
		assert.ErrorIs(t, err, domain.ErrNotDeployed)
	})

	t.Run("deploy rejects empty bytecode", func(t *testing.T) {
		artifact := registrationArtifact(nil)
		artifact.Bytecode = "0x"
		_, err := tc.client.Deploy(ctx, tc.address(0), artifact)
		assert.ErrorIs(t, err, domain.ErrInvalidDeployment)
	})

	t.Run("no signer for unknown account", func(t *testing.T) {
		_, err := tc.client.Deploy(ctx, common.HexToAddress("0x1"), registrationArtifact(echoRuntime()))
		assert.Error(t, err)
	})
}

func TestParsePrivateKeys(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	raw := hex.EncodeToString(crypto.FromECDSA(key))

	t.Run("with and without prefix", func(t *testing.T) {
		keys, err := blockchain.ParsePrivateKeys([]string{raw, "0x" + raw, " "})
		require.NoError(t, err)
		require.Len(t, keys, 2)
		assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), crypto.PubkeyToAddress(keys[1].PublicKey))
	})

	t.Run("invalid key", func(t *testing.T) {
		_, err := blockchain.ParsePrivateKeys([]string{"zz"})
		assert.Error(t, err)
	})
}
