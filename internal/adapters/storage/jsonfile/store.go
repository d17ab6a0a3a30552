package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/evanschultz/lists/internal/app"
	"github.com/evanschultz/lists/internal/domain"
)

// Store keeps the whole collection in one pretty-printed JSON document.
type Store struct {
	path string
}

// New returns a store backed by the file at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load implements app.Store. A missing file is created empty.
func (s *Store) Load(context.Context) ([]domain.List, error) {
	if strings.TrimSpace(s.path) == "" {
		return nil, errors.New("json store path is required")
	}
	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := s.create(); err != nil {
			return nil, err
		}
		return []domain.List{}, nil
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []domain.List{}, nil
	}
	var lists []domain.List
	if err := json.Unmarshal(data, &lists); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", app.ErrStorageCorrupt, s.path, err)
	}
	for idx := range lists {
		if lists[idx].Tasks == nil {
			lists[idx].Tasks = []domain.Task{}
		}
	}
	if lists == nil {
		lists = []domain.List{}
	}
	return lists, nil
}

// Save implements app.Store. The file is replaced atomically.
func (s *Store) Save(_ context.Context, lists []domain.List) error {
	if strings.TrimSpace(s.path) == "" {
		return errors.New("json store path is required")
	}
	out := domain.CloneLists(lists)
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode lists: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

// create writes an empty data file, creating parent directories.
func (s *Store) create() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", s.path, err)
	}
	return f.Close()
}
