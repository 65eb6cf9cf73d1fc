package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidDeployment is returned when deployment data is invalid
	ErrInvalidDeployment = errors.New("invalid deployment")

	// ErrNetworkMismatch is returned when a deployment record belongs to a different network
	ErrNetworkMismatch = errors.New("network mismatch")

	// ErrNotDeployed is returned when the artifact has no entry for the connected network
	ErrNotDeployed = errors.New("contract not deployed on network")

	// ErrUnknownSource is returned for an unsupported contract source strategy
	ErrUnknownSource = errors.New("unknown contract source")

	// ErrNotEnoughAccounts is returned when the endpoint exposes fewer accounts than required
	ErrNotEnoughAccounts = errors.New("not enough accounts")

	// ErrTransactionReverted is returned when a transaction is rejected by the contract
	ErrTransactionReverted = errors.New("transaction reverted")

	// ErrUnknownMethod is returned when the ABI does not define the requested method
	ErrUnknownMethod = errors.New("unknown contract method")
)

// RevertError carries the node's reason for a rejected transaction.
// It matches ErrTransactionReverted with errors.Is.
type RevertError struct {
	Method string
	Reason string
	TxHash string
}

func (e *RevertError) Error() string {
	msg := fmt.Sprintf("%s: %s", ErrTransactionReverted, e.Method)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.TxHash != "" {
		msg += " (tx " + e.TxHash + ")"
	}
	return msg
}

func (e *RevertError) Is(target error) bool {
	return target == ErrTransactionReverted
}

// MetadataWriteError reports a deployment whose record could not be persisted.
// The deployment itself is final; TxHash is what an operator needs to
// rebuild the record by hand.
type MetadataWriteError struct {
	Location string
	TxHash   string
	Err      error
}

func (e *MetadataWriteError) Error() string {
	return fmt.Sprintf("failed to write deployment metadata to %s (deployment tx %s): %v", e.Location, e.TxHash, e.Err)
}

func (e *MetadataWriteError) Unwrap() error {
	return e.Err
}
