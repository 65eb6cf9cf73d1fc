package app

import (
	"log/slog"

	"github.com/trebuchet-org/registrar/internal/adapters"
	"github.com/trebuchet-org/registrar/internal/domain/config"
	"github.com/trebuchet-org/registrar/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Shared dependencies
	Endpoint *adapters.Endpoint
	Selector usecase.NetworkSelector
	Progress usecase.ProgressSink

	// Use cases
	DeployContract *usecase.DeployContract
	ShowDeployment *usecase.ShowDeployment
	RegisterUser   *usecase.RegisterUser
	SendValue      *usecase.SendValue
	SendInterval   *usecase.SendInterval
	ListNetworks   *usecase.ListNetworks
	UseNetwork     *usecase.UseNetwork
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	endpoint *adapters.Endpoint,
	selector usecase.NetworkSelector,
	progress usecase.ProgressSink,
	deployContract *usecase.DeployContract,
	showDeployment *usecase.ShowDeployment,
	registerUser *usecase.RegisterUser,
	sendValue *usecase.SendValue,
	sendInterval *usecase.SendInterval,
	listNetworks *usecase.ListNetworks,
	useNetwork *usecase.UseNetwork,
) (*App, error) {
	return &App{
		Config:         cfg,
		Log:            log,
		Endpoint:       endpoint,
		Selector:       selector,
		Progress:       progress,
		DeployContract: deployContract,
		ShowDeployment: showDeployment,
		RegisterUser:   registerUser,
		SendValue:      sendValue,
		SendInterval:   sendInterval,
		ListNetworks:   listNetworks,
		UseNetwork:     useNetwork,
	}, nil
}

// Close releases the network connection
func (a *App) Close() {
	if a.Endpoint != nil {
		a.Endpoint.Close()
	}
}
