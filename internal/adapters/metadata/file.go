package metadata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/trebuchet-org/registrar/internal/domain"
	"github.com/trebuchet-org/registrar/internal/domain/models"
	"github.com/trebuchet-org/registrar/internal/usecase"
)

// FileStore keeps the deployment record in a local JSON or YAML file
type FileStore struct {
	path   string
	format format
	mu     sync.RWMutex
}

// NewFileStore creates a store for path. The encoding follows the file
// extension: .yaml and .yml are YAML, anything else is JSON.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path:   path,
		format: formatFor(path),
	}
}

// Location returns the file path
func (s *FileStore) Location() string {
	return s.path
}

// Exists reports whether a record has been written
func (s *FileStore) Exists(ctx context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fileExists(s.path)
}

// Read loads and validates the record
func (s *FileStore) Read(ctx context.Context) (*models.DeploymentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no deployment metadata at %s", domain.ErrNotFound, s.path)
		}
		return nil, fmt.Errorf("failed to read deployment metadata: %w", err)
	}

	record, err := decode(data, s.format)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", domain.ErrInvalidDeployment, s.path, err)
	}
	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidDeployment, s.path, err)
	}
	return record, nil
}

// Write replaces the record. The file is written to a temporary sibling
// and renamed into place, so readers see either the old or the new record.
func (s *FileStore) Write(ctx context.Context, record *models.DeploymentRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidDeployment, err)
	}

	data, err := encode(record, s.format)
	if err != nil {
		return fmt.Errorf("failed to encode deployment metadata: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create metadata directory: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}

	return os.Rename(tmpPath, s.path)
}

var _ usecase.MetadataStore = (*FileStore)(nil)
