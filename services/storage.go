package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kendall-kelly/petnic-studio-api/utils"
)

// ErrObjectNotFound is returned when a stored upload does not exist
var ErrObjectNotFound = errors.New("object not found")

// Storage persists uploaded images under flat, server-generated names
type Storage interface {
	Save(ctx context.Context, name string, data []byte, contentType string) error
	Delete(ctx context.Context, name string) error
	Exists(ctx context.Context, name string) (bool, error)
	URL(ctx context.Context, name string) (string, error)
}

// LocalStorage keeps uploads in a directory on disk
type LocalStorage struct {
	dir       string
	urlPrefix string
}

// NewLocalStorage creates the upload directory when needed
func NewLocalStorage(dir, urlPrefix string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStorage{dir: dir, urlPrefix: urlPrefix}, nil
}

// Path returns the on-disk location of name, refusing names that would
// leave the upload directory.
func (s *LocalStorage) Path(name string) (string, error) {
	clean, err := utils.SanitizeFilename(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, clean), nil
}

func (s *LocalStorage) Save(_ context.Context, name string, data []byte, _ string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write upload: %w", err)
	}
	return nil
}

func (s *LocalStorage) Delete(_ context.Context, name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrObjectNotFound
		}
		return fmt.Errorf("failed to stat upload: %w", err)
	}
	if !info.Mode().IsRegular() {
		return ErrObjectNotFound
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrObjectNotFound
		}
		return fmt.Errorf("failed to delete upload: %w", err)
	}
	return nil
}

func (s *LocalStorage) Exists(_ context.Context, name string) (bool, error) {
	path, err := s.Path(name)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

func (s *LocalStorage) URL(_ context.Context, name string) (string, error) {
	return utils.GetImageURL(s.urlPrefix, name), nil
}
