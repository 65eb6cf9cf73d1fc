package network

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbe_ChainID(t *testing.T) {
	ctx := context.Background()
	probe := NewProbe(time.Second, slog.New(slog.DiscardHandler))

	t.Run("memory default", func(t *testing.T) {
		id, err := probe.ChainID(ctx, "memory://")
		require.NoError(t, err)
		assert.Equal(t, uint64(5777), id)
	})

	t.Run("memory with network id", func(t *testing.T) {
		id, err := probe.ChainID(ctx, "memory://?network=42")
		require.NoError(t, err)
		assert.Equal(t, uint64(42), id)
	})

	t.Run("json-rpc endpoint", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":"0x539"}`))
		}))
		defer srv.Close()

		id, err := probe.ChainID(ctx, srv.URL)
		require.NoError(t, err)
		assert.Equal(t, uint64(1337), id)
	})

	t.Run("endpoint error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := probe.ChainID(ctx, srv.URL)
		assert.Error(t, err)
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		_, err := probe.ChainID(ctx, "ftp://example.org")
		assert.Error(t, err)
	})
}
