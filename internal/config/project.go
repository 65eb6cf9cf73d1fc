package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/trebuchet-org/registrar/internal/domain/config"
)

// ProjectFileName is the project configuration file looked up from the
// working directory upwards
const ProjectFileName = "registrar.toml"

// defaultEndpoints are available without any configuration
var defaultEndpoints = map[string]string{
	"development": "http://127.0.0.1:7545",
	"localhost":   "http://127.0.0.1:8545",
	"memory":      config.MemoryScheme,
}

// loadEnvFiles loads .env and .env.local from the project root. Variables
// already set in the environment win.
func loadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// loadProjectFile loads registrar.toml, returning defaults when it does not
// exist. The second return value is the path read, empty for defaults.
func loadProjectFile(projectRoot string) (*config.ProjectFile, string, error) {
	file := &config.ProjectFile{
		Contract: config.DefaultContractConfig(),
		Client:   config.DefaultClientConfig(),
	}

	path := filepath.Join(projectRoot, ProjectFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		file.Networks = mergeEndpoints(nil)
		return file, "", nil
	}

	// decoding over the defaults keeps any key the file leaves out
	if _, err := toml.DecodeFile(path, file); err != nil {
		return nil, "", fmt.Errorf("failed to parse %s: %w", ProjectFileName, err)
	}

	file.Contract.MetadataURI = os.ExpandEnv(file.Contract.MetadataURI)
	file.Networks = mergeEndpoints(file.Networks)
	return file, path, nil
}

// mergeEndpoints overlays configured endpoints on the defaults and expands
// ${VAR} references
func mergeEndpoints(configured map[string]string) map[string]string {
	out := make(map[string]string, len(defaultEndpoints)+len(configured))
	for name, url := range defaultEndpoints {
		out[name] = url
	}
	for name, url := range configured {
		out[name] = os.ExpandEnv(url)
	}
	return out
}
