package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/sirupsen/logrus"

	"paperpaints/logs"
)

const gcsPublicBase = "https://storage.googleapis.com/"

// StorageGCS keeps media in a Google Cloud Storage bucket that allows
// public reads.
type StorageGCS struct {
	bucketName string
	bucket     *gcs.BucketHandle
	publicURL  string
}

// NewStorageGCS uses application default credentials. publicURL overrides
// the bucket's storage.googleapis.com address, e.g. for a CDN in front of it.
func NewStorageGCS(ctx context.Context, bucketName, publicURL string) (*StorageGCS, error) {
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	if publicURL == "" || strings.HasPrefix(publicURL, "/") {
		publicURL = gcsPublicBase + bucketName
	}
	return &StorageGCS{
		bucketName: bucketName,
		bucket:     client.Bucket(bucketName),
		publicURL:  publicURL,
	}, nil
}

func (s *StorageGCS) WriteFile(ctx context.Context, name, contentType string) (io.WriteCloser, error) {
	if !validName(name) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidName, name)
	}
	logs.Logger.WithFields(logrus.Fields{"bucket": s.bucketName, "name": name}).Info("writing media object")
	w := s.bucket.Object(name).NewWriter(ctx)
	w.ContentType = contentType
	return w, nil
}

func (s *StorageGCS) DeleteFile(ctx context.Context, name string) error {
	if !validName(name) {
		return fmt.Errorf("%w: %v", ErrInvalidName, name)
	}
	logs.Logger.WithFields(logrus.Fields{"bucket": s.bucketName, "name": name}).Info("deleting media object")
	return s.bucket.Object(name).Delete(ctx)
}

func (s *StorageGCS) URL(name string) string {
	return joinURL(s.publicURL, name)
}
