package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/registrar/internal/domain"
	"github.com/trebuchet-org/registrar/internal/domain/bindings"
	"github.com/trebuchet-org/registrar/internal/domain/models"
)

// SendValueParams contains parameters for a single send
type SendValueParams struct {
	Value *big.Int
	// From overrides the default sender, the second account
	From *common.Address
}

// SendValueResult contains the outcome of a send
type SendValueResult struct {
	Tx    *models.TxResult
	From  common.Address
	Value *big.Int
	Event *bindings.RegistrationNewValue
}

// SendValue submits send(value) from the registered user account
type SendValue struct {
	provider HandleProvider
	accounts AccountLister
	log      *slog.Logger
}

// NewSendValue creates a new SendValue use case
func NewSendValue(provider HandleProvider, accounts AccountLister, log *slog.Logger) *SendValue {
	return &SendValue{
		provider: provider,
		accounts: accounts,
		log:      log.With("component", "SendValue"),
	}
}

// Run executes the use case
func (uc *SendValue) Run(ctx context.Context, params SendValueParams) (*SendValueResult, error) {
	handle, err := uc.provider.InitContract(ctx)
	if err != nil {
		return nil, err
	}

	from, err := uc.sender(ctx, params)
	if err != nil {
		return nil, err
	}
	return uc.send(ctx, handle, from, params.Value)
}

func (uc *SendValue) sender(ctx context.Context, params SendValueParams) (common.Address, error) {
	if params.From != nil {
		return *params.From, nil
	}
	accounts, err := uc.accounts.Accounts(ctx)
	if err != nil {
		return common.Address{}, err
	}
	if len(accounts) < 2 {
		return common.Address{}, fmt.Errorf("%w: send needs 2, endpoint has %d", domain.ErrNotEnoughAccounts, len(accounts))
	}
	return accounts[1], nil
}

func (uc *SendValue) send(ctx context.Context, handle ContractHandle, from common.Address, value *big.Int) (*SendValueResult, error) {
	if value == nil {
		value = big.NewInt(0)
	}

	tx, err := handle.Transact(ctx, from, methodSend, value)
	if err != nil {
		return nil, fmt.Errorf("send failed: %w", err)
	}

	uc.log.Debug("value sent", "from", from.Hex(), "value", value, "tx", tx.Hash)

	return &SendValueResult{
		Tx:    tx,
		From:  from,
		Value: value,
		Event: newValueEvent(tx),
	}, nil
}

func newValueEvent(tx *models.TxResult) *bindings.RegistrationNewValue {
	ev, ok := tx.EventByName(bindings.RegistrationNewValueEventName)
	if !ok {
		return nil
	}
	out := &bindings.RegistrationNewValue{}
	if v, ok := ev.Fields["userAddress"].(common.Address); ok {
		out.UserAddress = v
	}
	if v, ok := ev.Fields["value"].(*big.Int); ok {
		out.Value = v
	}
	return out
}
