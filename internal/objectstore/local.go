package objectstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Local writes objects under a base directory.
type Local struct {
	baseDir string
}

// NewLocal returns a store rooted at baseDir. An empty baseDir means the working directory.
func NewLocal(baseDir string) *Local {
	if baseDir == "" {
		baseDir = "."
	}
	return &Local{baseDir: baseDir}
}

// Save writes r to baseDir/key and returns the file path.
func (s *Local) Save(ctx context.Context, key, _ string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean, err := cleanKey(key)
	if err != nil {
		return "", err
	}

	fullPath := filepath.Join(s.baseDir, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write body: %w", err)
	}
	return fullPath, nil
}

var _ Store = (*Local)(nil)
