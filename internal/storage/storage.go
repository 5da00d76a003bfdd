package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

const MaxFileSize = 5 * 1024 * 1024 // 5MB

var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

var (
	ErrFileTooLarge    = errors.New("file exceeds 5MB limit")
	ErrUnsupportedType = errors.New("unsupported file type (jpg, jpeg, png, gif only)")
)

// Service stores image blobs and hands back a URL a browser can load.
type Service interface {
	Upload(ctx context.Context, filename string, data []byte) (string, error)
	Delete(ctx context.Context, url string) error
}

// Validate checks the extension allow-list and size cap before any bytes are
// written. Returns the content type for the upload.
func Validate(filename string, size int64) (string, error) {
	if size > MaxFileSize {
		return "", ErrFileTooLarge
	}
	ext := strings.ToLower(filepath.Ext(filename))
	ct, ok := allowedExtensions[ext]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	}
	return ct, nil
}
