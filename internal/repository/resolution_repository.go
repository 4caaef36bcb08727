package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ResolutionRepository persists the set of resolved alert ids. The set
// is always written in full; there are no incremental writes.
type ResolutionRepository interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, ids []string) error
}

// FileResolutionRepository stores the ids as a single JSON array on
// disk.
type FileResolutionRepository struct {
	path string
}

func NewFileResolutionRepository(path string) *FileResolutionRepository {
	return &FileResolutionRepository{path: path}
}

// Load reads the persisted id array. A missing file is an empty set,
// not an error.
func (r *FileResolutionRepository) Load(ctx context.Context) ([]string, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read resolved ids: %w", err)
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("failed to decode resolved ids: %w", err)
	}
	return ids, nil
}

// Save rewrites the full id array atomically via a temp file rename.
func (r *FileResolutionRepository) Save(ctx context.Context, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to encode resolved ids: %w", err)
	}
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write resolved ids: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("failed to replace resolved ids file: %w", err)
	}
	return nil
}
