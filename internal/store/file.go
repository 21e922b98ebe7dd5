package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/socialchef/chefvoice/internal/errors"
)

// FileStore keeps recipes as a JSON array of strings in one file.
//
// Append rewrites the whole file through a temp file and rename, so readers
// never see a partial write. The mutex serializes appends inside this
// process; separate processes sharing the file can still lose updates.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store backed by path. The file is created on the
// first Append.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) ReadAll(ctx context.Context) ([]string, error) {
	return s.read()
}

func (s *FileStore) read() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, readFailed(err)
	}

	var recipes []string
	if err := json.Unmarshal(data, &recipes); err != nil {
		return nil, errors.NewPersistenceError(
			fmt.Sprintf("saved recipes file %s is malformed", s.path), "MALFORMED_STORE", err)
	}
	if recipes == nil {
		recipes = []string{}
	}
	return recipes, nil
}

func (s *FileStore) Append(ctx context.Context, recipe string) error {
	if err := checkEncoding(recipe); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recipes, err := s.read()
	if err != nil {
		return err
	}
	recipes = append(recipes, recipe)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(recipes); err != nil {
		return writeFailed(err)
	}
	if err := s.replace(buf.Bytes()); err != nil {
		return writeFailed(err)
	}
	return nil
}

// replace writes data next to the target and renames it into place.
func (s *FileStore) replace(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+"-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, s.path)
}

func (s *FileStore) Close() error { return nil }
