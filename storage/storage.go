// Package storage is the media host that uploaded images and résumés are
// written to. Every stored object is reachable at a public URL.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"paperpaints/config"
	"paperpaints/logs"
	"paperpaints/models"
)

var ErrInvalidName = errors.New("invalid object name")

// Storage is an abstraction of a blob store that serves its objects publicly.
type Storage interface {
	// When finished, you must close the WriteCloser
	WriteFile(ctx context.Context, name, contentType string) (io.WriteCloser, error)

	DeleteFile(ctx context.Context, name string) error

	// URL is the public address of a stored object.
	URL(name string) string
}

// New opens the media host selected by the storage config.
func New(ctx context.Context, cfg *config.Config) (Storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageGCS:
		return NewStorageGCS(ctx, cfg.Storage.Bucket, cfg.Storage.PublicURL)
	case config.StorageFS:
		return NewStorageFS(cfg.Storage.Root, cfg.Storage.PublicURL)
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

// ObjectName places a new object under folder with a fresh id and the
// extension of the client's file name.
func ObjectName(folder, filename string) (string, error) {
	id, err := models.NewID(time.Now())
	if err != nil {
		return "", err
	}
	ext := strings.ToLower(path.Ext(filename))
	if len(ext) > 10 || strings.ContainsAny(ext, `/\ `) {
		ext = ""
	}
	return path.Join(folder, id+ext), nil
}

// Upload streams content to a new object under folder and returns its URL.
func Upload(ctx context.Context, s Storage, folder, filename, contentType string, content io.Reader) (string, error) {
	name, err := ObjectName(folder, filename)
	if err != nil {
		return "", err
	}
	// Cancelling the write context aborts a GCS upload instead of committing it.
	writeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	f, err := s.WriteFile(writeCtx, name, contentType)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, content); err != nil {
		cancel()
		_ = f.Close()
		discard(ctx, s, name)
		return "", err
	}
	if err := f.Close(); err != nil {
		discard(ctx, s, name)
		return "", err
	}
	return s.URL(name), nil
}

// NameFromURL maps a public URL back to the object it serves. It reports
// false for URLs outside the media host.
func NameFromURL(s Storage, url string) (string, bool) {
	base := s.URL("")
	if !strings.HasPrefix(url, base) {
		return "", false
	}
	name := strings.TrimPrefix(url, base)
	return name, validName(name)
}

// discard removes a partially written object.
func discard(ctx context.Context, s Storage, name string) {
	if err := s.DeleteFile(ctx, name); err != nil && !errors.Is(err, os.ErrNotExist) {
		logs.Logger.WithField("name", name).WithError(err).Debug("partial upload cleanup failed")
	}
}

func validName(name string) bool {
	return name != "" && !strings.Contains(name, "..") && !strings.HasPrefix(name, "/")
}

func joinURL(base, name string) string {
	return strings.TrimRight(base, "/") + "/" + name
}
