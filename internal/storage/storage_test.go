package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		size     int64
		wantCT   string
		wantErr  error
	}{
		{"jpg", "photo.jpg", 1024, "image/jpeg", nil},
		{"jpeg", "photo.JPEG", 1024, "image/jpeg", nil},
		{"png", "shot.png", MaxFileSize, "image/png", nil},
		{"gif", "anim.gif", 1, "image/gif", nil},
		{"too large", "big.png", MaxFileSize + 1, "", ErrFileTooLarge},
		{"pdf", "doc.pdf", 10, "", ErrUnsupportedType},
		{"no extension", "noext", 10, "", ErrUnsupportedType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct, err := Validate(tt.filename, tt.size)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err=%v want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("err=%v", err)
			}
			if ct != tt.wantCT {
				t.Fatalf("contentType=%s want %s", ct, tt.wantCT)
			}
		})
	}
}

func TestLocalStorage(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir, "/uploads")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()

	url, err := store.Upload(ctx, "photo.png", []byte("png-bytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(url, "/uploads/") {
		t.Fatalf("url=%s want /uploads/ prefix", url)
	}
	if !strings.HasSuffix(url, ".png") {
		t.Fatalf("url=%s should keep the extension", url)
	}

	name := strings.TrimPrefix(url, "/uploads/")
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("stored %q", data)
	}

	if err := store.Delete(ctx, url); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
		t.Fatalf("file still exists after delete")
	}

	// URLs outside the base path are ignored, not treated as paths
	if err := store.Delete(ctx, "/etc/passwd"); err == nil {
		t.Fatalf("delete accepted a foreign path")
	}
}
