package adapters

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/registrar/internal/adapters/ledger"
	"github.com/trebuchet-org/registrar/internal/domain/config"
)

func TestEndpoint(t *testing.T) {
	ctx := context.Background()
	log := slog.New(slog.DiscardHandler)

	t.Run("memory network", func(t *testing.T) {
		e := NewEndpoint(&config.RuntimeConfig{
			Network: &config.Network{Name: "memory", RPCURL: "memory://?network=99&accounts=3"},
		}, log)
		defer e.Close()

		id, err := e.NetworkID(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(99), id)

		accounts, err := e.Accounts(ctx)
		require.NoError(t, err)
		assert.Len(t, accounts, 3)

		// the same ledger serves every call
		_, isLedger := e.chain.(*ledger.Ledger)
		assert.True(t, isLedger)
		first := e.chain
		_, err = e.NetworkID(ctx)
		require.NoError(t, err)
		assert.Same(t, first, e.chain)
	})

	t.Run("no network", func(t *testing.T) {
		e := NewEndpoint(&config.RuntimeConfig{}, log)
		_, err := e.Accounts(ctx)
		assert.ErrorContains(t, err, "no network selected")
	})

	t.Run("bad private key", func(t *testing.T) {
		e := NewEndpoint(&config.RuntimeConfig{
			Network:     &config.Network{Name: "local", RPCURL: "http://127.0.0.1:1"},
			PrivateKeys: []string{"not-a-key"},
		}, log)
		_, err := e.NetworkID(ctx)
		assert.Error(t, err)
	})
}
