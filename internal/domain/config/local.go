package config

// LocalConfig represents the local registrar configuration
type LocalConfig struct {
	Network string `json:"network"`
}

// DefaultLocalConfig returns the default local configuration
func DefaultLocalConfig() *LocalConfig {
	return &LocalConfig{
		Network: "",
	}
}
