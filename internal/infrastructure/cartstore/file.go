package cartstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/foodexplorer/backend/internal/domain"
	"github.com/spf13/afero"
)

// FileStorage persists the cart as one JSON document at a fixed path, the
// local-storage-key equivalent for a server process. The filesystem is
// abstracted behind afero so tests run against an in-memory fs.
type FileStorage struct {
	fs   afero.Fs
	path string
}

// NewFileStorage creates a file-backed cart storage at path.
func NewFileStorage(fs afero.Fs, path string) *FileStorage {
	return &FileStorage{fs: fs, path: path}
}

// Load reads the persisted cart. A missing file is not an error: it yields
// nil state, meaning "start empty". Corrupt content surfaces as
// ErrStorageUnavailable and is left to the caller to swallow.
func (s *FileStorage) Load(ctx context.Context) (*domain.CartState, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}

	var state domain.CartState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("%w: corrupt cart data: %v", domain.ErrStorageUnavailable, err)
	}

	return &state, nil
}

// Save overwrites the persisted cart wholesale.
func (s *FileStorage) Save(ctx context.Context, state *domain.CartState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
		}
	}

	if err := afero.WriteFile(s.fs, s.path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}
