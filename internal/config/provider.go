package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/registrar/internal/domain/config"
)

// DataDirName is the per-project directory for local state
const DataDirName = ".registrar"

// Provider creates RuntimeConfig for Wire dependency injection.
//
// Precedence, highest first: command-line flags, REGISTRAR_* environment
// variables, .registrar/config.local.json, registrar.toml, defaults.
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	loadEnvFiles(projectRoot)

	file, source, err := loadProjectFile(projectRoot)
	if err != nil {
		return nil, err
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		DataDir:        filepath.Join(projectRoot, DataDirName),
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		JSON:           v.GetBool("json"),
		Timeout:        config.DefaultTimeout,
		RunID:          uuid.NewString(),
		Contract:       file.Contract,
		Client:         file.Client,
		Networks:       file.Networks,
		PrivateKeys:    splitList(v.GetString("private_keys")),
		ConfigSource:   source,
	}

	if v.IsSet("timeout") {
		cfg.Timeout = v.GetDuration("timeout")
		cfg.LoopTimeout = cfg.Timeout
	}

	applyOverrides(v, cfg)

	networkName := v.GetString("network")
	if networkName == "" {
		networkName = file.DefaultNetwork
	}
	if networkName != "" {
		network, err := LookupNetwork(cfg.Networks, networkName)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve network %s: %w", networkName, err)
		}
		cfg.Network = network
	}

	return cfg, nil
}

// applyOverrides lets flags and environment variables replace values from
// the project file
func applyOverrides(v *viper.Viper, cfg *config.RuntimeConfig) {
	if s := v.GetString("contract.source"); s != "" {
		cfg.Contract.Source = config.ContractSource(s)
	}
	if s := v.GetString("contract.metadata"); s != "" {
		cfg.Contract.MetadataURI = s
	}
	if s := v.GetString("contract.artifact"); s != "" {
		cfg.Contract.ArtifactPath = s
	}
	if v.IsSet("client.name") {
		cfg.Client.UserName = v.GetString("client.name")
	}
	if v.IsSet("client.age") {
		cfg.Client.UserAge = v.GetUint64("client.age")
	}
	if v.IsSet("client.value") {
		cfg.Client.Value = v.GetUint64("client.value")
	}
	if v.IsSet("client.interval") {
		cfg.Client.Interval = v.GetDuration("client.interval")
	}
	if s := v.GetString("client.overlap"); s != "" {
		cfg.Client.Overlap = config.OverlapPolicy(s)
	}
}

// FindProjectRoot walks up from the current directory to find
// registrar.toml. Without one, the current directory is the project root.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, ProjectFileName)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd, nil
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Local settings written by `registrar networks use`
	v.SetConfigName("config.local")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, DataDirName))

	v.SetEnvPrefix("REGISTRAR")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("project_root", projectRoot)

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if !f.Changed {
				return
			}
			if err := v.BindPFlag(flagKey(f.Name), f); err != nil {
				panic(err)
			}
		})
	}

	return v
}

// flagKey maps a flag name to its viper key
func flagKey(name string) string {
	switch name {
	case "non-interactive":
		return "non_interactive"
	case "source", "metadata", "artifact":
		return "contract." + name
	case "name", "age", "value", "interval", "overlap":
		return "client." + name
	default:
		return name
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
