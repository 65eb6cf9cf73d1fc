package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/trebuchet-org/registrar/internal/domain"
	"github.com/trebuchet-org/registrar/internal/domain/config"
	"github.com/trebuchet-org/registrar/internal/domain/models"
	"github.com/trebuchet-org/registrar/internal/usecase"
)

// ArtifactRepository reads and updates a Truffle-style build artifact
type ArtifactRepository struct {
	path string
	mu   sync.RWMutex
}

// NewArtifactRepository creates a repository for the configured artifact.
// Relative paths are resolved against the project root.
func NewArtifactRepository(cfg *config.RuntimeConfig) *ArtifactRepository {
	path := cfg.Contract.ArtifactPath
	if path == "" {
		path = config.DefaultArtifactPath
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.ProjectRoot, path)
	}
	return &ArtifactRepository{path: path}
}

// Path returns the artifact file path
func (r *ArtifactRepository) Path() string {
	return r.path
}

// Load reads the artifact
func (r *ArtifactRepository) Load(ctx context.Context) (*models.Artifact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.load()
}

func (r *ArtifactRepository) load() (*models.Artifact, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: artifact %s (compile the contract first)", domain.ErrNotFound, r.path)
		}
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}

	var artifact models.Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to parse artifact %s: %w", r.path, err)
	}
	if len(artifact.ABI) == 0 {
		return nil, fmt.Errorf("artifact %s has no abi", r.path)
	}
	return &artifact, nil
}

// RecordDeployment sets the network table entry for networkID and rewrites
// the artifact atomically. Fields the tool does not model are preserved.
func (r *ArtifactRepository) RecordDeployment(ctx context.Context, networkID uint64, entry *models.NetworkDeployment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	artifact, err := r.load()
	if err != nil {
		return err
	}
	artifact.SetDeployment(networkID, entry)

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode artifact: %w", err)
	}

	tmpPath := r.path + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, r.path)
}

var _ usecase.ArtifactRepository = (*ArtifactRepository)(nil)
