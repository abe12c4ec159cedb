// Package objectstore saves exported reports to a local directory or an S3 bucket.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
)

// Store saves named objects and returns where they ended up.
type Store interface {
	Save(ctx context.Context, key, contentType string, r io.Reader) (location string, err error)
}

// Options selects a backend. A non-empty Bucket selects S3.
type Options struct {
	Dir      string
	Bucket   string
	Region   string
	Prefix   string
	KMSKeyID string
}

// Open returns the store described by opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	if strings.TrimSpace(opts.Bucket) != "" {
		return NewS3(ctx, opts.Region, opts.Bucket, opts.Prefix, opts.KMSKeyID)
	}
	return NewLocal(opts.Dir), nil
}

// cleanKey rejects keys that would escape the store root.
func cleanKey(key string) (string, error) {
	clean := path.Clean("/" + strings.TrimSpace(key))
	clean = strings.TrimPrefix(clean, "/")
	if clean == "" || clean == "." || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return clean, nil
}
