package blockchain

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/registrar/internal/domain"
	"github.com/trebuchet-org/registrar/internal/domain/models"
	"github.com/trebuchet-org/registrar/internal/usecase"
)

// ContractHandle is a deployed contract bound to the client's endpoint
type ContractHandle struct {
	client  *Client
	address common.Address
	abi     *abi.ABI
	bound   *bind.BoundContract
}

// Bind checks that code exists at the record address and returns a handle
func (c *Client) Bind(ctx context.Context, record *models.DeploymentRecord) (usecase.ContractHandle, error) {
	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDeployment, err)
	}
	parsed, err := record.ParsedABI()
	if err != nil {
		return nil, err
	}
	address := record.ContractAddress()

	code, err := c.backend.CodeAt(ctx, address, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check code at %s: %w", address.Hex(), err)
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("%w: no code at %s", domain.ErrNotDeployed, address.Hex())
	}

	return &ContractHandle{
		client:  c,
		address: address,
		abi:     parsed,
		bound:   bind.NewBoundContract(address, *parsed, c.backend, c.backend, c.backend),
	}, nil
}

// Address returns the contract address
func (h *ContractHandle) Address() common.Address {
	return h.address
}

// Transact sends a state-changing call and waits for it to be mined. A
// mined but failed transaction returns its TxResult together with a
// RevertError.
func (h *ContractHandle) Transact(ctx context.Context, from common.Address, method string, args ...any) (*models.TxResult, error) {
	if _, ok := h.abi.Methods[method]; !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownMethod, method)
	}
	data, err := h.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s arguments: %w", method, err)
	}

	var tx *types.Transaction
	opts, signed, err := h.client.transactor(ctx, from)
	if err != nil {
		return nil, err
	}
	if signed {
		tx, err = h.bound.RawTransact(opts, data)
	} else {
		tx, err = h.client.sendManaged(ctx, from, &h.address, data)
	}
	if err != nil {
		return nil, classifyError(method, err)
	}

	receipt, err := h.client.waitMined(ctx, tx)
	if err != nil {
		return nil, err
	}

	result := &models.TxResult{
		Hash:        tx.Hash().Hex(),
		From:        from.Hex(),
		To:          h.address.Hex(),
		Method:      method,
		Status:      models.TransactionStatusExecuted,
		BlockNumber: receipt.BlockNumber.Uint64(),
		GasUsed:     receipt.GasUsed,
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		result.Status = models.TransactionStatusFailed
		return result, &domain.RevertError{Method: method, TxHash: result.Hash}
	}

	result.Events = decodeEvents(h.abi, h.address, receipt.Logs)
	return result, nil
}

// Call performs a read-only call against the latest block
func (h *ContractHandle) Call(ctx context.Context, method string, args ...any) ([]any, error) {
	if _, ok := h.abi.Methods[method]; !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownMethod, method)
	}
	var out []any
	if err := h.bound.Call(&bind.CallOpts{Context: ctx}, &out, method, args...); err != nil {
		return nil, classifyError(method, err)
	}
	return out, nil
}

// decodeEvents decodes the logs emitted by address. Logs that do not match
// an ABI event are skipped.
func decodeEvents(parsed *abi.ABI, address common.Address, logs []*types.Log) []models.Event {
	var events []models.Event
	for _, lg := range logs {
		if lg.Address != address || len(lg.Topics) == 0 {
			continue
		}
		ev, err := parsed.EventByID(lg.Topics[0])
		if err != nil {
			continue
		}

		fields := make(map[string]any, len(ev.Inputs))
		if len(lg.Data) > 0 {
			if err := parsed.UnpackIntoMap(fields, ev.Name, lg.Data); err != nil {
				continue
			}
		}
		var indexed abi.Arguments
		for _, arg := range ev.Inputs {
			if arg.Indexed {
				indexed = append(indexed, arg)
			}
		}
		if err := abi.ParseTopicsIntoMap(fields, indexed, lg.Topics[1:]); err != nil {
			continue
		}

		events = append(events, models.Event{Name: ev.Name, Fields: fields})
	}
	return events
}

var _ usecase.ContractHandle = (*ContractHandle)(nil)
