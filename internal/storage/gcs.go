package storage

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// GCSStorage stores images in a Google Cloud Storage bucket with a download
// token, matching how seeded catalog images are hosted.
type GCSStorage struct {
	client *gcs.Client
	bucket string
	prefix string
}

func NewGCSStorage(ctx context.Context, bucket string) (*GCSStorage, error) {
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("init storage client: %w", err)
	}
	return &GCSStorage{client: client, bucket: bucket, prefix: "images/products"}, nil
}

func (s *GCSStorage) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	ct, err := Validate(filename, int64(len(data)))
	if err != nil {
		return "", err
	}

	token := uuid.NewString()
	objectPath := fmt.Sprintf("%s/%s%s", s.prefix, uuid.NewString(), ext)
	obj := s.client.Bucket(s.bucket).Object(objectPath)
	w := obj.NewWriter(ctx)
	w.ContentType = ct
	w.Metadata = map[string]string{
		"firebaseStorageDownloadTokens": token,
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close object: %w", err)
	}

	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		s.bucket, url.PathEscape(objectPath), token), nil
}

func (s *GCSStorage) Delete(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid image url: %w", err)
	}
	parts := strings.SplitN(u.Path, "/o/", 2)
	if len(parts) != 2 {
		return fmt.Errorf("unexpected image url: %s", rawURL)
	}
	objectPath, err := url.PathUnescape(parts[1])
	if err != nil {
		return err
	}
	err = s.client.Bucket(s.bucket).Object(objectPath).Delete(ctx)
	if err != nil && err != gcs.ErrObjectNotExist {
		return err
	}
	return nil
}

func (s *GCSStorage) Close() error {
	return s.client.Close()
}
