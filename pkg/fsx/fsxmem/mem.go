// Package fsxmem is an in-process fsx.FileSystem for local development and tests.
package fsxmem

import (
	"bytes"
	"context"
	"io"
	"path"
	"sort"
	"sync"

	"github.com/Abraxas-365/bolsa/pkg/fsx"
)

type FileSystem struct {
	mu      sync.RWMutex
	files   map[string][]byte
	baseURL string

	// FailWrites makes every write return the given error
	FailWrites error
}

var _ fsx.FileSystem = (*FileSystem)(nil)

func New(baseURL string) *FileSystem {
	return &FileSystem{files: map[string][]byte{}, baseURL: baseURL}
}

func (fs *FileSystem) WriteFile(ctx context.Context, p string, data []byte) error {
	return fs.WriteFileStream(ctx, p, bytes.NewReader(data), "")
}

func (fs *FileSystem) WriteFileStream(_ context.Context, p string, r io.Reader, _ string) error {
	if fs.FailWrites != nil {
		return fs.FailWrites
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.files[p] = data
	return nil
}

func (fs *FileSystem) ReadFile(_ context.Context, p string) ([]byte, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	data, ok := fs.files[p]
	if !ok {
		return nil, fsx.ErrNotExist
	}
	return append([]byte(nil), data...), nil
}

func (fs *FileSystem) ReadFileStream(ctx context.Context, p string) (io.ReadCloser, error) {
	data, err := fs.ReadFile(ctx, p)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (fs *FileSystem) DeleteFile(_ context.Context, p string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	delete(fs.files, p)
	return nil
}

func (fs *FileSystem) Join(elem ...string) string { return path.Join(elem...) }

func (fs *FileSystem) URL(p string) string { return fs.baseURL + "/" + p }

// Paths lists stored paths in order
func (fs *FileSystem) Paths() []string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	out := make([]string, 0, len(fs.files))
	for p := range fs.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
