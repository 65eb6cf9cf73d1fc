package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// DeploymentRecord is the hand-off between the deployer and the contract
// consumers. Address and ABI always come from the same deployment.
type DeploymentRecord struct {
	Address   string          `json:"address" yaml:"address"`
	ABI       json.RawMessage `json:"abi" yaml:"-"`
	NetworkID uint64          `json:"networkId" yaml:"networkId"`

	// Provenance
	ContractName    string    `json:"contractName,omitempty" yaml:"contractName,omitempty"`
	TransactionHash string    `json:"transactionHash,omitempty" yaml:"transactionHash,omitempty"`
	BlockNumber     uint64    `json:"blockNumber,omitempty" yaml:"blockNumber,omitempty"`
	Deployer        string    `json:"deployer,omitempty" yaml:"deployer,omitempty"`
	DeployedAt      time.Time `json:"deployedAt,omitempty" yaml:"deployedAt,omitempty"`
}

// Validate checks that the record can be bound to a contract handle
func (r *DeploymentRecord) Validate() error {
	if r == nil {
		return fmt.Errorf("deployment record is nil")
	}
	if !common.IsHexAddress(r.Address) {
		return fmt.Errorf("invalid contract address %q", r.Address)
	}
	if len(bytes.TrimSpace(r.ABI)) == 0 {
		return fmt.Errorf("deployment record for %s has no ABI", r.Address)
	}
	if _, err := r.ParsedABI(); err != nil {
		return err
	}
	return nil
}

// ContractAddress returns the record address as a common.Address
func (r *DeploymentRecord) ContractAddress() common.Address {
	return common.HexToAddress(r.Address)
}

// ParsedABI decodes the raw ABI JSON
func (r *DeploymentRecord) ParsedABI() (*abi.ABI, error) {
	parsed, err := abi.JSON(bytes.NewReader(r.ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}
	return &parsed, nil
}
