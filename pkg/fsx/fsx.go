// Package fsx abstracts blob storage behind a small file-system style API.
package fsx

import (
	"context"
	"errors"
	"io"
)

// ErrNotExist is returned by readers when a path has no object
var ErrNotExist = errors.New("fsx: file does not exist")

// FileReader reads stored objects
type FileReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	ReadFileStream(ctx context.Context, path string) (io.ReadCloser, error)
}

// FileWriter stores and removes objects. DeleteFile on a missing path is not an error.
type FileWriter interface {
	WriteFile(ctx context.Context, path string, data []byte) error
	WriteFileStream(ctx context.Context, path string, r io.Reader, contentType string) error
	DeleteFile(ctx context.Context, path string) error
}

// FileSystem is the full storage surface used by services
type FileSystem interface {
	FileReader
	FileWriter

	// Join builds a storage path from segments
	Join(elem ...string) string
	// URL returns the public location of path
	URL(path string) string
}
