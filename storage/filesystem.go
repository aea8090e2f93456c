package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"paperpaints/logs"
)

// StorageFS keeps media on local disk. The router serves Root under PublicURL.
type StorageFS struct {
	Root      string
	PublicURL string
}

func NewStorageFS(root, publicURL string) (*StorageFS, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(absRoot, 0755); err != nil {
		return nil, fmt.Errorf("create media root %v (relative path %v): %w", absRoot, root, err)
	}
	return &StorageFS{Root: absRoot, PublicURL: publicURL}, nil
}

func (fs *StorageFS) WriteFile(_ context.Context, name, _ string) (io.WriteCloser, error) {
	if !validName(name) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidName, name)
	}
	logs.Logger.WithField("name", name).Info("writing media file")
	fullPath := filepath.Join(fs.Root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(fullPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
}

func (fs *StorageFS) DeleteFile(_ context.Context, name string) error {
	if !validName(name) {
		return fmt.Errorf("%w: %v", ErrInvalidName, name)
	}
	logs.Logger.WithField("name", name).Info("deleting media file")
	return os.Remove(filepath.Join(fs.Root, filepath.FromSlash(name)))
}

func (fs *StorageFS) URL(name string) string {
	return joinURL(fs.PublicURL, name)
}
