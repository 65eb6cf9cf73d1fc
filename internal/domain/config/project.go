package config

// ProjectFile represents the full registrar.toml configuration
type ProjectFile struct {
	DefaultNetwork string            `toml:"default_network,omitempty"`
	Contract       ContractConfig    `toml:"contract"`
	Client         ClientConfig      `toml:"client"`
	Networks       map[string]string `toml:"networks"` // name -> RPC URL, ${VAR} expanded on load
}
