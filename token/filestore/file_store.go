package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jrsteele09/go-dashboard/internal/errors"
	"github.com/jrsteele09/go-dashboard/token"
)

var _ token.Repo = (*FileStore)(nil)

// FileStore persists the token as a small JSON document readable only by the
// current user.
type FileStore struct {
	path string
	lock sync.Mutex
}

func New(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Save(_ context.Context, stored token.Stored) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("filestore: create directory: %w", err)
	}

	data, err := json.MarshalIndent(token.NewRecord(stored), "", "  ")
	if err != nil {
		return fmt.Errorf("filestore: failed to marshal: %w", err)
	}

	// Write to a sibling file and rename so a crash never leaves half a token.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("filestore: write: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("filestore: rename: %w", err)
	}
	return nil
}

func (f *FileStore) Load(_ context.Context) (*token.Stored, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("filestore: read: %w", err)
	}

	var rec token.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("filestore: failed to unmarshal: %w", err)
	}
	return rec.Stored(), nil
}

func (f *FileStore) Clear(_ context.Context) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("filestore: remove: %w", err)
	}
	return nil
}
