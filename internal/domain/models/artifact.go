package models

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Artifact is a compiled contract in the Truffle build layout.
// Networks is the per-network deployment table, keyed by the decimal
// network id.
type Artifact struct {
	ContractName string                        `json:"contractName"`
	ABI          json.RawMessage               `json:"abi"`
	Bytecode     string                        `json:"bytecode"`
	Networks     map[string]*NetworkDeployment `json:"networks"`

	// Unknown top-level fields are carried through rewrites
	Extra map[string]json.RawMessage `json:"-"`
}

// NetworkDeployment is one entry of the artifact network table
type NetworkDeployment struct {
	Address         string `json:"address"`
	TransactionHash string `json:"transactionHash,omitempty"`
}

// BytecodeBytes decodes the creation bytecode
func (a *Artifact) BytecodeBytes() ([]byte, error) {
	code := strings.TrimSpace(a.Bytecode)
	if !strings.HasPrefix(code, "0x") {
		code = "0x" + code
	}
	return hexutil.Decode(code)
}

// Deployment returns the network table entry for networkID
func (a *Artifact) Deployment(networkID uint64) (*NetworkDeployment, bool) {
	if a.Networks == nil {
		return nil, false
	}
	entry, ok := a.Networks[strconv.FormatUint(networkID, 10)]
	if !ok || entry == nil || !common.IsHexAddress(entry.Address) {
		return nil, false
	}
	return entry, true
}

// SetDeployment records a deployment in the network table
func (a *Artifact) SetDeployment(networkID uint64, entry *NetworkDeployment) {
	if a.Networks == nil {
		a.Networks = make(map[string]*NetworkDeployment)
	}
	a.Networks[strconv.FormatUint(networkID, 10)] = entry
}

// Record builds the deployment record for networkID from the table
func (a *Artifact) Record(networkID uint64) (*DeploymentRecord, bool) {
	entry, ok := a.Deployment(networkID)
	if !ok {
		return nil, false
	}
	return &DeploymentRecord{
		Address:         common.HexToAddress(entry.Address).Hex(),
		ABI:             a.ABI,
		NetworkID:       networkID,
		ContractName:    a.ContractName,
		TransactionHash: entry.TransactionHash,
	}, true
}

type artifactFields struct {
	ContractName string                        `json:"contractName"`
	ABI          json.RawMessage               `json:"abi"`
	Bytecode     string                        `json:"bytecode"`
	Networks     map[string]*NetworkDeployment `json:"networks"`
}

var artifactKeys = []string{"contractName", "abi", "bytecode", "networks"}

// UnmarshalJSON keeps fields this tool does not model so that a rewrite of
// the network table does not drop compiler output.
func (a *Artifact) UnmarshalJSON(data []byte) error {
	var fields artifactFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, key := range artifactKeys {
		delete(all, key)
	}

	a.ContractName = fields.ContractName
	a.ABI = fields.ABI
	a.Bytecode = fields.Bytecode
	a.Networks = fields.Networks
	a.Extra = all
	return nil
}

// MarshalJSON writes the modelled fields plus anything carried in Extra
func (a Artifact) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(a.Extra)+len(artifactKeys))
	for k, v := range a.Extra {
		out[k] = v
	}
	out["contractName"] = a.ContractName
	out["abi"] = a.ABI
	out["bytecode"] = a.Bytecode
	networks := a.Networks
	if networks == nil {
		networks = map[string]*NetworkDeployment{}
	}
	out["networks"] = networks
	return json.Marshal(out)
}
