//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/registrar/internal/adapters"
	"github.com/trebuchet-org/registrar/internal/config"
	"github.com/trebuchet-org/registrar/internal/logging"
	"github.com/trebuchet-org/registrar/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewDeployContract,
		usecase.NewShowDeployment,
		usecase.NewRegisterUser,
		usecase.NewSendValue,
		usecase.NewSendInterval,
		usecase.NewListNetworks,
		usecase.NewUseNetwork,

		// App
		NewApp,
	)
	return nil, nil
}
