package interactive

import (
	"context"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/registrar/internal/domain/config"
	"github.com/trebuchet-org/registrar/internal/usecase"
)

func TestSelectorAdapter_NonInteractive(t *testing.T) {
	s := NewSelectorAdapter(&config.RuntimeConfig{NonInteractive: true})

	ok, err := s.Confirm(context.Background(), "Overwrite")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.SelectNetwork(context.Background(), []usecase.NetworkStatus{{Name: "memory"}}, "")
	assert.ErrorContains(t, err, "non-interactive")
}

func TestFormatNetworkOptions(t *testing.T) {
	color.NoColor = true

	options := formatNetworkOptions([]usecase.NetworkStatus{
		{Name: "development", RPCURL: "http://127.0.0.1:7545", Error: errors.New("refused")},
		{Name: "memory", RPCURL: "memory://", ChainID: 5777},
	}, "memory")

	assert.Equal(t, []string{
		"development (unreachable)",
		"memory (memory://, chain 5777) [current]",
	}, options)
}

func TestFuzzySearch(t *testing.T) {
	items := []string{"development (http://127.0.0.1:7545)", "memory (memory://)"}
	search := createFuzzySearchFunc(items)

	assert.True(t, search("", 0))
	assert.True(t, search("DEV", 0))
	assert.True(t, search("mmry", 1))
	assert.False(t, search("xyz", 1))
}
