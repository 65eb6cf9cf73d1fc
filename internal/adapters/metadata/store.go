package metadata

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/trebuchet-org/registrar/internal/domain/config"
	"github.com/trebuchet-org/registrar/internal/domain/models"
	"github.com/trebuchet-org/registrar/internal/usecase"
)

// NewStore creates the metadata store for the configured location.
//
// Supported locations:
//   - a file path, relative to the project root (file:// prefix optional)
//   - s3://bucket/key?region=...&endpoint=...
func NewStore(cfg *config.RuntimeConfig, log *slog.Logger) (usecase.MetadataStore, error) {
	location := cfg.Contract.MetadataURI
	if location == "" {
		location = config.DefaultMetadataPath
	}

	if strings.HasPrefix(location, "s3://") {
		u, err := url.Parse(location)
		if err != nil {
			return nil, fmt.Errorf("invalid metadata location %q: %w", location, err)
		}
		return newS3StoreFromURL(u, log)
	}

	path := strings.TrimPrefix(location, "file://")
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.ProjectRoot, path)
	}
	return NewFileStore(path), nil
}

// format is the document encoding chosen by file extension
type format int

const (
	formatJSON format = iota
	formatYAML
)

func formatFor(name string) format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return formatYAML
	default:
		return formatJSON
	}
}

// yamlRecord carries the ABI as a YAML tree instead of a JSON string
type yamlRecord struct {
	models.DeploymentRecord `yaml:",inline"`
	ABI                     any `yaml:"abi"`
}

func encode(record *models.DeploymentRecord, f format) ([]byte, error) {
	if f == formatYAML {
		var abiTree any
		if err := json.Unmarshal(record.ABI, &abiTree); err != nil {
			return nil, fmt.Errorf("failed to decode ABI: %w", err)
		}
		return yaml.Marshal(&yamlRecord{DeploymentRecord: *record, ABI: abiTree})
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func decode(data []byte, f format) (*models.DeploymentRecord, error) {
	if f == formatYAML {
		var rec yamlRecord
		if err := yaml.Unmarshal(data, &rec); err != nil {
			return nil, err
		}
		abiJSON, err := json.Marshal(rec.ABI)
		if err != nil {
			return nil, fmt.Errorf("failed to encode ABI: %w", err)
		}
		rec.DeploymentRecord.ABI = abiJSON
		return &rec.DeploymentRecord, nil
	}

	var rec models.DeploymentRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
