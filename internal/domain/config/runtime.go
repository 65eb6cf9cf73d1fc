package config

import (
	"math/big"
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Context settings
	Network *Network // nil if not specified

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool // Output in JSON format
	// Timeout bounds single-shot commands
	Timeout time.Duration
	// LoopTimeout bounds periodic sending. Zero unless a timeout was set
	// explicitly, so loops run until interrupted.
	LoopTimeout time.Duration

	// RunID tags every log line of one process
	RunID string

	// Resolved configurations
	Contract ContractConfig
	Client   ClientConfig

	// Networks maps configured network names to RPC URLs
	Networks map[string]string

	// PrivateKeys are hex keys for endpoints that do not manage accounts
	PrivateKeys []string

	// Config source tracking
	ConfigSource string // path of registrar.toml, empty when defaults are used
}

// Network represents network configuration
type Network struct {
	ChainID     uint64 `json:"chainId"`
	Name        string `json:"name"`
	RPCURL      string `json:"rpcUrl"`
	ExplorerURL string `json:"explorerUrl,omitempty"`
}

// IsMemory reports whether the network is served by the in-process ledger
func (n *Network) IsMemory() bool {
	return n != nil && len(n.RPCURL) >= len(MemoryScheme) && n.RPCURL[:len(MemoryScheme)] == MemoryScheme
}

// MemoryScheme selects the in-process ledger instead of a JSON-RPC endpoint
const MemoryScheme = "memory://"

// ContractSource selects how a contract handle is produced
type ContractSource string

const (
	// SourceStatic reads address and ABI from the metadata record
	SourceStatic ContractSource = "static"
	// SourceNetworkLookup resolves the address from the artifact network table
	SourceNetworkLookup ContractSource = "network-lookup"
)

// ContractConfig locates the compiled artifact and the deployment record
type ContractConfig struct {
	Name         string         `toml:"name"`
	ArtifactPath string         `toml:"artifact"`
	MetadataURI  string         `toml:"metadata"`
	Source       ContractSource `toml:"source"`
}

// OverlapPolicy decides what happens to a tick that fires while the
// previous call is still in flight
type OverlapPolicy string

const (
	OverlapSkip     OverlapPolicy = "skip"
	OverlapQueue    OverlapPolicy = "queue"
	OverlapCoalesce OverlapPolicy = "coalesce"
)

// ClientConfig holds the values the registration client submits
type ClientConfig struct {
	UserName string        `toml:"name"`
	UserAge  uint64        `toml:"age"`
	Value    uint64        `toml:"value"`
	Interval time.Duration `toml:"interval"`
	Overlap  OverlapPolicy `toml:"overlap"`
}

// AgeBig returns the configured age as a uint256-compatible value
func (c ClientConfig) AgeBig() *big.Int {
	return new(big.Int).SetUint64(c.UserAge)
}

// ValueBig returns the configured value as a uint256-compatible value
func (c ClientConfig) ValueBig() *big.Int {
	return new(big.Int).SetUint64(c.Value)
}

const (
	DefaultContractName = "Registration"
	DefaultArtifactPath = "build/contracts/Registration.json"
	DefaultMetadataPath = ".registrar/metadata.json"
	DefaultUserName     = "John Doe"
	DefaultUserAge      = 30
	DefaultValue        = 100
	DefaultInterval     = 3 * time.Second
	DefaultTimeout      = 5 * time.Minute
)

// DefaultContractConfig returns the contract settings used without a project file
func DefaultContractConfig() ContractConfig {
	return ContractConfig{
		Name:         DefaultContractName,
		ArtifactPath: DefaultArtifactPath,
		MetadataURI:  DefaultMetadataPath,
		Source:       SourceStatic,
	}
}

// DefaultClientConfig returns the client settings used without a project file
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		UserName: DefaultUserName,
		UserAge:  DefaultUserAge,
		Value:    DefaultValue,
		Interval: DefaultInterval,
		Overlap:  OverlapSkip,
	}
}
