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

const (
	methodRegisterUser = "registerUser"
	methodSend         = "send"
	methodOwner        = "owner"
)

// RegisterUserParams contains parameters for registering a user
type RegisterUserParams struct {
	Name string
	Age  *big.Int

	// Optional overrides for the default account roles
	Owner *common.Address
	User  *common.Address
}

// RegisterUserResult contains the outcome of a registration
type RegisterUserResult struct {
	Tx    *models.TxResult
	Owner common.Address
	User  common.Address
	Name  string
	Age   *big.Int
	// Event is the decoded NewUser event, nil if the contract emitted none
	Event *bindings.RegistrationNewUser
}

// RegisterUser registers the second account as a user, sent by the first
// account (the contract owner)
type RegisterUser struct {
	provider HandleProvider
	accounts AccountLister
	progress ProgressSink
	log      *slog.Logger
}

// NewRegisterUser creates a new RegisterUser use case
func NewRegisterUser(provider HandleProvider, accounts AccountLister, progress ProgressSink, log *slog.Logger) *RegisterUser {
	return &RegisterUser{
		provider: provider,
		accounts: accounts,
		progress: progress,
		log:      log.With("component", "RegisterUser"),
	}
}

// Run executes the use case
func (uc *RegisterUser) Run(ctx context.Context, params RegisterUserParams) (*RegisterUserResult, error) {
	handle, err := uc.provider.InitContract(ctx)
	if err != nil {
		return nil, err
	}

	owner, user, err := uc.resolveRoles(ctx, params)
	if err != nil {
		return nil, err
	}

	age := params.Age
	if age == nil {
		age = big.NewInt(0)
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "registering",
		Message: fmt.Sprintf("Registering %s as %q", user.Hex(), params.Name),
		Spinner: true,
	})

	tx, err := handle.Transact(ctx, owner, methodRegisterUser, user, params.Name, age)
	if err != nil {
		return nil, fmt.Errorf("registerUser failed: %w", err)
	}

	uc.log.Info("user registered", "user", user.Hex(), "tx", tx.Hash)

	return &RegisterUserResult{
		Tx:    tx,
		Owner: owner,
		User:  user,
		Name:  params.Name,
		Age:   age,
		Event: newUserEvent(tx),
	}, nil
}

func (uc *RegisterUser) resolveRoles(ctx context.Context, params RegisterUserParams) (common.Address, common.Address, error) {
	if params.Owner != nil && params.User != nil {
		return *params.Owner, *params.User, nil
	}

	accounts, err := uc.accounts.Accounts(ctx)
	if err != nil {
		return common.Address{}, common.Address{}, err
	}
	if len(accounts) < 2 {
		return common.Address{}, common.Address{}, fmt.Errorf("%w: registerUser needs 2, endpoint has %d", domain.ErrNotEnoughAccounts, len(accounts))
	}

	owner, user := accounts[0], accounts[1]
	if params.Owner != nil {
		owner = *params.Owner
	}
	if params.User != nil {
		user = *params.User
	}
	return owner, user, nil
}

func newUserEvent(tx *models.TxResult) *bindings.RegistrationNewUser {
	ev, ok := tx.EventByName(bindings.RegistrationNewUserEventName)
	if !ok {
		return nil
	}
	out := &bindings.RegistrationNewUser{}
	if v, ok := ev.Fields["userAddress"].(common.Address); ok {
		out.UserAddress = v
	}
	if v, ok := ev.Fields["name"].(string); ok {
		out.Name = v
	}
	if v, ok := ev.Fields["age"].(*big.Int); ok {
		out.Age = v
	}
	return out
}
