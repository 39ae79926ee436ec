package session

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// FileStorage keeps each value in its own file under a directory, mode 0600.
// It stands in for the browser's localStorage.
type FileStorage struct {
	dir string
}

var _ Storage = FileStorage{}

func NewFileStorage(dir string) FileStorage {
	return FileStorage{dir: dir}
}

func (f FileStorage) Get(key string) (string, bool) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}

func (f FileStorage) Set(key, value string) error {
	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		return errors.Wrap(err, "[FileStorage.Set] MkdirAll")
	}
	if err := os.WriteFile(f.path(key), []byte(value), 0o600); err != nil {
		return errors.Wrap(err, "[FileStorage.Set] WriteFile")
	}
	return nil
}

func (f FileStorage) Remove(key string) error {
	if err := os.Remove(f.path(key)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[FileStorage.Remove] Remove")
	}
	return nil
}

func (f FileStorage) path(key string) string {
	return filepath.Join(f.dir, key)
}
