// Package kvstore provides the persisted key-value store that holds the credential token,
// the analysis history and the result relay slot.
//
// Stores do no cross-process locking. Two processes doing read-modify-write on the same key
// may lose one update; callers accept last-write-wins at whole-value granularity.
package kvstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Well-known keys.
const (
	KeyToken   = "token"
	KeyHistory = "analysis_history"
	KeyResult  = "analysis_result"
)

// Store is a string key-value store.
type Store interface {
	// Get returns the value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set overwrites the value for key.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Options selects and configures a backend.
type Options struct {
	Backend       string
	Profile       string
	Path          string
	RedisAddr     string
	RedisPassword string
	DatabaseURL   string
	Timeout       time.Duration
}

// Opened is a Store plus the function that releases its resources.
type Opened struct {
	Store
	Close func() error
}

// Open builds the configured backend.
func Open(ctx context.Context, opts Options, logger *slog.Logger) (*Opened, error) {
	if logger == nil {
		logger = slog.Default()
	}
	noop := func() error { return nil }

	switch opts.Backend {
	case BackendMemory:
		return &Opened{Store: NewMemory(), Close: noop}, nil
	case "", BackendFile:
		fs, err := NewFile(opts.Path, logger)
		if err != nil {
			return nil, err
		}
		return &Opened{Store: fs, Close: noop}, nil
	case BackendRedis:
		rs := NewRedis(opts.RedisAddr, opts.RedisPassword, opts.Profile, opts.Timeout)
		if err := rs.Ping(ctx); err != nil {
			_ = rs.Close()
			return nil, err
		}
		return &Opened{Store: rs, Close: rs.Close}, nil
	case BackendPostgres:
		ps, err := ConnectPostgres(ctx, opts.DatabaseURL, opts.Profile)
		if err != nil {
			return nil, err
		}
		return &Opened{Store: ps, Close: func() error { ps.Close(); return nil }}, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}
