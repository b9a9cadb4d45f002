package treestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kinforge/kinforge/pkg/treeio"
)

// FileStore persists the collection as a single JSON file.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a file-backed store at path. If path is empty it
// defaults to ~/.config/kinforge/trees.json. Parent directories are created
// as needed.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		path = filepath.Join(home, ".config", "kinforge", "trees.json")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Load reads and migrates the collection file. A missing file yields a fresh
// empty collection.
func (s *FileStore) Load(ctx context.Context) (treeio.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return treeio.NewCollection(), nil
	}
	return treeio.ReadCollectionFile(s.path)
}

// Save writes the collection. The write goes through a temp file plus rename
// so an interrupted save never truncates the previous state.
func (s *FileStore) Save(ctx context.Context, c treeio.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := s.path + ".tmp"
	if err := treeio.WriteCollectionFile(c, tmp); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

// Close does nothing for the file store.
func (s *FileStore) Close() error { return nil }

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

var _ Store = (*FileStore)(nil)
