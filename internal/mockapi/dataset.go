package mockapi

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"go.safehomi.dev/homeadmin/internal/entity"
)

// Dataset is the on-disk form of the mock backend's records.
type Dataset struct {
	Listings  []entity.Listing `yaml:"listings"`
	Inquiries []entity.Inquiry `yaml:"inquiries"`
}

// LoadDataset reads a dataset file. A missing file is reported with
// os.ErrNotExist so callers can fall back to fixtures.
func LoadDataset(path string) (Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Dataset{}, fmt.Errorf("read dataset: %w", os.ErrNotExist)
		}
		return Dataset{}, fmt.Errorf("read dataset: %w", err)
	}

	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return Dataset{}, fmt.Errorf("parse dataset: %w", err)
	}
	return ds, nil
}

func SaveDataset(path string, ds Dataset) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dataset dir: %w", err)
	}

	data, err := yaml.Marshal(ds)
	if err != nil {
		return fmt.Errorf("marshal dataset: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	return nil
}

// Dataset snapshots the current records, e.g. to persist edits made while
// the server ran. Inquiries carry only their property id.
func (s *Server) Dataset() Dataset {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	return Dataset{
		Listings:  append([]entity.Listing{}, s.store.listings...),
		Inquiries: append([]entity.Inquiry{}, s.store.inquiries...),
	}
}

// SeedDataset is Seed for a loaded dataset.
func (s *Server) SeedDataset(ds Dataset) {
	s.Seed(ds.Listings, ds.Inquiries)
}
