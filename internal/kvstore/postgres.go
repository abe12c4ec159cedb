package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createTableSQL = `CREATE TABLE IF NOT EXISTS client_kv (
	profile    TEXT NOT NULL,
	key        TEXT NOT NULL,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (profile, key)
)`

// Postgres keeps keys in the client_kv table, one row per (profile, key).
type Postgres struct {
	pool    *pgxpool.Pool
	profile string
}

// ConnectPostgres opens a pool, verifies it and ensures the table exists.
func ConnectPostgres(ctx context.Context, databaseURL, profile string) (*Postgres, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is required for the postgres store")
	}
	if profile == "" {
		profile = "default"
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create client_kv table: %w", err)
	}
	return &Postgres{pool: pool, profile: profile}, nil
}

// Close closes the pool.
func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// Get implements Store.
func (p *Postgres) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := p.pool.QueryRow(ctx,
		`SELECT value FROM client_kv WHERE profile = $1 AND key = $2`,
		p.profile, key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, true, nil
}

// Set implements Store.
func (p *Postgres) Set(ctx context.Context, key, value string) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO client_kv (profile, key, value)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (profile, key) DO UPDATE SET value = $3, updated_at = NOW()`,
		p.profile, key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Remove implements Store.
func (p *Postgres) Remove(ctx context.Context, key string) error {
	_, err := p.pool.Exec(ctx,
		`DELETE FROM client_kv WHERE profile = $1 AND key = $2`,
		p.profile, key,
	)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

var _ Store = (*Postgres)(nil)
