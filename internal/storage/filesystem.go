package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const uploadsURLPrefix = "/uploads/"

// FilesystemClient stores objects as files under a local directory and
// serves them from the /uploads/ path. It is the default backend for
// single-node deployments.
type FilesystemClient struct {
	dir string
}

// NewFilesystemClient constructs a filesystem backend rooted at dir.
func NewFilesystemClient(dir string) (*FilesystemClient, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("uploads directory is required")
	}
	return &FilesystemClient{dir: dir}, nil
}

// EnsureBucket creates the uploads directory if it does not exist.
func (f *FilesystemClient) EnsureBucket(ctx context.Context) error {
	return os.MkdirAll(f.dir, 0o755)
}

// Put writes an object to disk. The key is reduced to its base name so
// callers cannot escape the uploads directory.
func (f *FilesystemClient) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	file, err := os.Create(f.pathFor(key))
	if err != nil {
		return err
	}
	if _, err := io.Copy(file, r); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// Get opens a reader for an object on disk.
func (f *FilesystemClient) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return os.Open(f.pathFor(key))
}

// Delete removes an object from disk.
func (f *FilesystemClient) Delete(ctx context.Context, key string) error {
	return os.Remove(f.pathFor(key))
}

// URL returns the /uploads/ path the object is served from.
func (f *FilesystemClient) URL(key string) string {
	return uploadsURLPrefix + path.Base(key)
}

// Bucket returns the uploads directory.
func (f *FilesystemClient) Bucket() string {
	return f.dir
}

// Dir returns the uploads directory for static file serving.
func (f *FilesystemClient) Dir() string {
	return f.dir
}

func (f *FilesystemClient) pathFor(key string) string {
	return filepath.Join(f.dir, filepath.Base(key))
}
