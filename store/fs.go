package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
)

// fsStore keeps each resource in a file under root.
type fsStore struct {
	root        string
	defaultName string
}

func openFS(root, defaultName string) (Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create resource directory: %w", err)
	}

	return &fsStore{root: root, defaultName: defaultName}, nil
}

// filename maps a resource name to a file path. Existing directories
// resolve to their default file.
func (s *fsStore) filename(name string) string {
	full := filepath.Join(s.root, filepath.FromSlash(Clean(name)))

	if info, err := os.Stat(full); err == nil && info.IsDir() {
		full = filepath.Join(full, s.defaultName)
	}

	return full
}

func (s *fsStore) Read(name string) ([]byte, error) {
	data, err := os.ReadFile(s.filename(name))
	if err != nil {
		if notExist(err) {
			return nil, fmt.Errorf("read %q: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("read %q: %w", name, err)
	}

	return data, nil
}

func (s *fsStore) Write(name string, data []byte) error {
	full := s.filename(name)

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("write %q: %w", name, err)
	}

	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("write %q: %w", name, err)
	}

	return nil
}

func (s *fsStore) Exists(name string) (bool, error) {
	info, err := os.Stat(s.filename(name))
	switch {
	case err == nil:
		return !info.IsDir(), nil
	case notExist(err):
		return false, nil
	default:
		return false, fmt.Errorf("stat %q: %w", name, err)
	}
}

func (s *fsStore) Close() error { return nil }

// notExist also covers a path that walks through a regular file.
func notExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}
