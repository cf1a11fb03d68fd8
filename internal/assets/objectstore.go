package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ObjectStore is path-addressed binary blob storage. Put writes data at path
// and returns a durable URL for it.
type ObjectStore interface {
	Put(path string, data []byte, contentType string) (string, error)
}

// FileObjectStore is an ObjectStore backed by a local directory, serving
// uploads under a configured base URL. It is the on-device/self-hosted
// stand-in for a hosted bucket.
type FileObjectStore struct {
	root    string
	baseURL string
}

// NewFileObjectStore creates the root directory if needed.
func NewFileObjectStore(root, baseURL string) (*FileObjectStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create object store root: %w", err)
	}
	return &FileObjectStore{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Put writes data under root/path and returns baseURL/path.
func (s *FileObjectStore) Put(path string, data []byte, _ string) (string, error) {
	full := filepath.Join(s.root, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create object directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write object %s: %w", path, err)
	}
	return s.baseURL + "/" + path, nil
}
