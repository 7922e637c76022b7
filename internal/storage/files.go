// Package storage keeps attachment files on local disk under random names.
package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidName = errors.New("invalid stored file name")

type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// Save writes the content under a fresh random name, keeping only the
// original extension, and returns the stored name.
func (s *FileStore) Save(src io.Reader, originalName string) (string, error) {
	ext := filepath.Ext(originalName)
	storedName := uuid.New().String() + ext

	dst, err := os.Create(filepath.Join(s.dir, storedName))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return storedName, nil
}

// Path returns the on-disk path for a stored name. Names are opaque tokens
// issued by Save; anything resembling a path is refused.
func (s *FileStore) Path(storedName string) (string, error) {
	if storedName == "" || strings.ContainsAny(storedName, `/\`) || strings.Contains(storedName, "..") {
		return "", ErrInvalidName
	}
	return filepath.Join(s.dir, storedName), nil
}

// Delete removes a stored file. A file already gone is not an error.
func (s *FileStore) Delete(storedName string) error {
	path, err := s.Path(storedName)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
