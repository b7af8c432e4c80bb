package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"PiggyVault/internal/model"
)

// FileStore keeps the account record in a pretty-printed JSON file.
type FileStore struct {
	path string
}

// NewFileStore builds a FileStore; the file and its directory are created
// on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Load(_ context.Context) (*model.AccountState, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultAccountState(), nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}
	var st model.AccountState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parse state file: %w", err)
	}
	return &st, nil
}

func (f *FileStore) Save(_ context.Context, st *model.AccountState) error {
	st.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}
	return os.WriteFile(f.path, data, 0644)
}

func (f *FileStore) Close() error { return nil }
