package blockchain

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/registrar/internal/domain"
	"github.com/trebuchet-org/registrar/internal/domain/models"
)

const methodConstructor = "constructor"

// Deploy submits the artifact's creation code from the given account and
// waits for the receipt
func (c *Client) Deploy(ctx context.Context, from common.Address, artifact *models.Artifact) (*models.DeploymentRecord, error) {
	bytecode, err := artifact.BytecodeBytes()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid bytecode for %s: %v", domain.ErrInvalidDeployment, artifact.ContractName, err)
	}
	if len(bytecode) == 0 {
		return nil, fmt.Errorf("%w: artifact %s has no bytecode (abstract contract or interface?)", domain.ErrInvalidDeployment, artifact.ContractName)
	}
	parsed, err := abi.JSON(bytes.NewReader(artifact.ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI of %s: %w", artifact.ContractName, err)
	}

	networkID, err := c.NetworkID(ctx)
	if err != nil {
		return nil, err
	}

	var tx *types.Transaction
	opts, signed, err := c.transactor(ctx, from)
	if err != nil {
		return nil, err
	}
	if signed {
		_, tx, _, err = bind.DeployContract(opts, parsed, bytecode, c.backend)
	} else {
		var input []byte
		input, err = parsed.Pack("")
		if err == nil {
			tx, err = c.sendManaged(ctx, from, nil, append(bytecode, input...))
		}
	}
	if err != nil {
		return nil, classifyError(methodConstructor, err)
	}

	c.log.Info("deployment submitted", "contract", artifact.ContractName, "tx", tx.Hash().Hex())

	receipt, err := c.waitMined(ctx, tx)
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, &domain.RevertError{Method: methodConstructor, TxHash: tx.Hash().Hex()}
	}

	return &models.DeploymentRecord{
		Address:         receipt.ContractAddress.Hex(),
		ABI:             artifact.ABI,
		NetworkID:       networkID,
		ContractName:    artifact.ContractName,
		TransactionHash: tx.Hash().Hex(),
		BlockNumber:     receipt.BlockNumber.Uint64(),
		Deployer:        from.Hex(),
	}, nil
}
