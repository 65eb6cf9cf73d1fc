package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/trebuchet-org/registrar/internal/domain/config"
	"github.com/trebuchet-org/registrar/internal/usecase"
)

// LocalConfigStore keeps per-checkout settings in .registrar/config.local.json
type LocalConfigStore struct {
	configPath string
}

// NewLocalConfigStore creates a new LocalConfigStore
func NewLocalConfigStore(cfg *config.RuntimeConfig) *LocalConfigStore {
	return &LocalConfigStore{
		configPath: filepath.Join(cfg.DataDir, "config.local.json"),
	}
}

// Load reads the local configuration, returning defaults if none is saved
func (s *LocalConfigStore) Load(ctx context.Context) (*config.LocalConfig, error) {
	data, err := os.ReadFile(s.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return config.DefaultLocalConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var localConfig config.LocalConfig
	if err := json.Unmarshal(data, &localConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &localConfig, nil
}

// Save writes the local configuration
func (s *LocalConfigStore) Save(ctx context.Context, cfg *config.LocalConfig) error {
	if err := os.MkdirAll(filepath.Dir(s.configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(s.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Path returns the path to the config file
func (s *LocalConfigStore) Path() string {
	return s.configPath
}

var _ usecase.LocalConfigRepository = (*LocalConfigStore)(nil)
