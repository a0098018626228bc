// Package storage persists uploaded image bytes.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Local writes uploads into a directory on disk.
type Local struct {
	dir string
}

// NewLocal ensures dir exists and returns a store rooted at it.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Local{dir: dir}, nil
}

// Put writes data to dir/filename. filename must be a bare name.
func (l *Local) Put(ctx context.Context, filename string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if filename == "" || filepath.Base(filename) != filename {
		return fmt.Errorf("invalid filename %q", filename)
	}
	if err := os.WriteFile(filepath.Join(l.dir, filename), data, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	return nil
}
