package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/registrar/internal/domain"
	"github.com/trebuchet-org/registrar/internal/domain/config"
	"github.com/trebuchet-org/registrar/internal/usecase"
)

func TestShowDeployment(t *testing.T) {
	ctx := context.Background()

	t.Run("lists the ABI and queries the owner", func(t *testing.T) {
		_, provider, accounts := deployOnLedger(t)
		progress := new(MockProgressSink)
		uc := usecase.NewShowDeployment(provider, progress, discard)

		result, err := uc.Run(ctx, usecase.ShowDeploymentParams{QueryOwner: true})
		require.NoError(t, err)

		assert.Equal(t, provider.record, result.Record)
		assert.Equal(t, config.SourceStatic, result.Source)
		assert.Equal(t, []string{"owner", "registerUser", "send"}, result.Methods)
		assert.Equal(t, []string{"NewUser", "NewValue"}, result.Events)
		require.NotNil(t, result.Owner)
		assert.Equal(t, accounts[0], *result.Owner)
		assert.NoError(t, result.OwnerErr)
		assert.Equal(t, []string{"loading", "owner", "complete"}, progress.stages())
	})

	t.Run("owner query is optional", func(t *testing.T) {
		_, provider, _ := deployOnLedger(t)
		uc := usecase.NewShowDeployment(provider, usecase.NopProgress{}, discard)

		result, err := uc.Run(ctx, usecase.ShowDeploymentParams{})
		require.NoError(t, err)
		assert.Nil(t, result.Owner)
		assert.NoError(t, result.OwnerErr)
	})

	t.Run("missing record", func(t *testing.T) {
		provider := &ledgerProvider{err: domain.ErrNotFound}
		uc := usecase.NewShowDeployment(provider, usecase.NopProgress{}, discard)

		_, err := uc.Run(ctx, usecase.ShowDeploymentParams{QueryOwner: true})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
