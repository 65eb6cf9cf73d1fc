package usecase

import (
	"context"
	"log/slog"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"github.com/trebuchet-org/registrar/internal/domain/config"
	"github.com/trebuchet-org/registrar/internal/domain/models"
)

// ShowDeploymentParams contains parameters for showing the deployment
type ShowDeploymentParams struct {
	// QueryOwner calls owner() on the deployed contract when the ABI has it
	QueryOwner bool
}

// ShowDeploymentResult describes the resolved deployment
type ShowDeploymentResult struct {
	Record  *models.DeploymentRecord
	Source  config.ContractSource
	Methods []string
	Events  []string
	Owner   *common.Address
	// OwnerErr is set when the owner() call was attempted and failed
	OwnerErr error
}

// ShowDeployment is the use case for showing the active deployment
type ShowDeployment struct {
	provider HandleProvider
	sink     ProgressSink
	log      *slog.Logger
}

// NewShowDeployment creates a new ShowDeployment use case
func NewShowDeployment(provider HandleProvider, sink ProgressSink, log *slog.Logger) *ShowDeployment {
	return &ShowDeployment{
		provider: provider,
		sink:     sink,
		log:      log.With("component", "ShowDeployment"),
	}
}

// Run executes the show deployment use case
func (uc *ShowDeployment) Run(ctx context.Context, params ShowDeploymentParams) (*ShowDeploymentResult, error) {
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "loading",
		Message: "Loading deployment details",
		Spinner: true,
	})

	record, err := uc.provider.Record(ctx)
	if err != nil {
		return nil, err
	}

	parsed, err := record.ParsedABI()
	if err != nil {
		return nil, err
	}

	result := &ShowDeploymentResult{
		Record:  record,
		Source:  uc.provider.Source(),
		Methods: lo.Keys(parsed.Methods),
		Events:  lo.Keys(parsed.Events),
	}
	sort.Strings(result.Methods)
	sort.Strings(result.Events)

	if _, ok := parsed.Methods[methodOwner]; ok && params.QueryOwner {
		uc.sink.OnProgress(ctx, ProgressEvent{
			Stage:   "owner",
			Message: "Querying contract owner",
			Spinner: true,
		})
		result.Owner, result.OwnerErr = uc.queryOwner(ctx)
		if result.OwnerErr != nil {
			uc.log.Debug("owner() call failed", "error", result.OwnerErr)
		}
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "complete",
		Message: "Deployment loaded",
	})

	return result, nil
}

func (uc *ShowDeployment) queryOwner(ctx context.Context) (*common.Address, error) {
	handle, err := uc.provider.InitContract(ctx)
	if err != nil {
		return nil, err
	}
	out, err := handle.Call(ctx, methodOwner)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	owner, ok := out[0].(common.Address)
	if !ok {
		return nil, nil
	}
	return &owner, nil
}
