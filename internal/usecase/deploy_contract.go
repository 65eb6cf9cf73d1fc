package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/trebuchet-org/registrar/internal/domain"
	"github.com/trebuchet-org/registrar/internal/domain/config"
	"github.com/trebuchet-org/registrar/internal/domain/models"
)

// ErrDeployCancelled is returned when the operator declines to overwrite
// an existing deployment record
var ErrDeployCancelled = errors.New("deployment cancelled")

// DeployContractParams contains parameters for deploying the contract
type DeployContractParams struct {
	// Force overwrites an existing record without asking
	Force bool
	// SkipArtifact leaves the artifact network table untouched. It is
	// implied for memory networks.
	SkipArtifact bool
	// Artifact replaces the one loaded from the repository
	Artifact *models.Artifact
}

// DeployContractResult contains the result of a deployment.
// A deployment is final once mined: MetadataErr and ArtifactErr report
// follow-up failures without undoing it.
type DeployContractResult struct {
	Record           *models.DeploymentRecord
	MetadataLocation string
	ArtifactUpdated  bool

	MetadataErr error
	ArtifactErr error
}

// DeployContract deploys the compiled contract from the first account and
// hands the result off through the metadata store
type DeployContract struct {
	cfg       *config.RuntimeConfig
	chain     Chain
	artifacts ArtifactRepository
	store     MetadataStore
	confirmer Confirmer
	progress  ProgressSink
	log       *slog.Logger
}

// NewDeployContract creates a new DeployContract use case
func NewDeployContract(
	cfg *config.RuntimeConfig,
	chain Chain,
	artifacts ArtifactRepository,
	store MetadataStore,
	confirmer Confirmer,
	progress ProgressSink,
	log *slog.Logger,
) *DeployContract {
	return &DeployContract{
		cfg:       cfg,
		chain:     chain,
		artifacts: artifacts,
		store:     store,
		confirmer: confirmer,
		progress:  progress,
		log:       log.With("component", "DeployContract"),
	}
}

// Run executes the deployment
func (uc *DeployContract) Run(ctx context.Context, params DeployContractParams) (*DeployContractResult, error) {
	artifact := params.Artifact
	if artifact == nil {
		loaded, err := uc.artifacts.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load artifact: %w", err)
		}
		artifact = loaded
	}

	accounts, err := uc.chain.Accounts(ctx)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("%w: deployment needs one account, endpoint has none", domain.ErrNotEnoughAccounts)
	}
	deployer := accounts[0]

	if err := uc.confirmOverwrite(ctx, params); err != nil {
		return nil, err
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "deploying",
		Message: fmt.Sprintf("Deploying %s from %s", artifact.ContractName, deployer.Hex()),
		Spinner: true,
	})

	record, err := uc.chain.Deploy(ctx, deployer, artifact)
	if err != nil {
		return nil, fmt.Errorf("failed to deploy %s: %w", artifact.ContractName, err)
	}
	if record.ContractName == "" {
		record.ContractName = artifact.ContractName
	}
	if record.DeployedAt.IsZero() {
		record.DeployedAt = time.Now().UTC()
	}

	uc.log.Info("contract deployed",
		"address", record.Address,
		"network", record.NetworkID,
		"tx", record.TransactionHash)

	result := &DeployContractResult{
		Record:           record,
		MetadataLocation: uc.store.Location(),
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "writing",
		Message: fmt.Sprintf("Writing deployment metadata to %s", uc.store.Location()),
	})

	if err := uc.store.Write(ctx, record); err != nil {
		uc.log.Error("failed to write deployment metadata",
			"location", uc.store.Location(),
			"tx", record.TransactionHash,
			"error", err)
		result.MetadataErr = &domain.MetadataWriteError{
			Location: uc.store.Location(),
			TxHash:   record.TransactionHash,
			Err:      err,
		}
	}

	// memory addresses exist only in this process and must not reach a
	// table that real networks sharing the id are looked up in
	skipArtifact := params.SkipArtifact || uc.cfg.Network.IsMemory()
	if skipArtifact {
		uc.log.Debug("artifact network table left untouched", "network", record.NetworkID)
	} else {
		entry := &models.NetworkDeployment{
			Address:         record.Address,
			TransactionHash: record.TransactionHash,
		}
		if err := uc.artifacts.RecordDeployment(ctx, record.NetworkID, entry); err != nil {
			uc.log.Warn("failed to update artifact network table",
				"artifact", uc.artifacts.Path(),
				"error", err)
			result.ArtifactErr = fmt.Errorf("failed to update %s: %w", uc.artifacts.Path(), err)
		} else {
			result.ArtifactUpdated = true
		}
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "complete",
		Message: "Deployment complete",
	})

	return result, nil
}

func (uc *DeployContract) confirmOverwrite(ctx context.Context, params DeployContractParams) error {
	if params.Force || uc.cfg.NonInteractive || uc.confirmer == nil {
		return nil
	}

	exists, err := uc.store.Exists(ctx)
	if err != nil {
		uc.log.Debug("could not check for existing metadata", "error", err)
		return nil
	}
	if !exists {
		return nil
	}

	ok, err := uc.confirmer.Confirm(ctx, fmt.Sprintf("A deployment record already exists at %s. Overwrite it", uc.store.Location()))
	if err != nil {
		return err
	}
	if !ok {
		return ErrDeployCancelled
	}
	return nil
}
