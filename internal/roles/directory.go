// Package roles caches the role profiles owned by the role service.
package roles

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/jonathan/talentalign/internal/types"
)

// Service is the subset of the analysis service the directory needs.
type Service interface {
	ListRoles(ctx context.Context) ([]types.RoleProfile, error)
	CreateRole(ctx context.Context, req types.CreateRoleRequest) (*types.RoleProfile, error)
	DeleteRole(ctx context.Context, id int64) error
}

// Listener receives the full replacement list after every refresh.
type Listener func([]types.RoleProfile)

// Directory is a read-through cache of role profiles, sorted by updated_at descending.
type Directory struct {
	svc    Service
	logger *slog.Logger

	mu        sync.RWMutex
	profiles  []types.RoleProfile
	loaded    bool
	listeners []Listener
}

// NewDirectory returns an empty directory backed by svc.
func NewDirectory(svc Service, logger *slog.Logger) *Directory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Directory{svc: svc, logger: logger}
}

// Subscribe registers fn to be called after each successful refresh.
func (d *Directory) Subscribe(fn Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, fn)
}

// Refresh reloads the list from the service. On failure the cached list is left untouched.
func (d *Directory) Refresh(ctx context.Context) ([]types.RoleProfile, error) {
	profiles, err := d.svc.ListRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load role profiles: %w", err)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	SortByUpdated(profiles)

	d.mu.Lock()
	d.profiles = profiles
	d.loaded = true
	listeners := slices.Clone(d.listeners)
	d.mu.Unlock()

	d.logger.Debug("role profiles refreshed", "count", len(profiles))
	for _, fn := range listeners {
		fn(slices.Clone(profiles))
	}
	return slices.Clone(profiles), nil
}

// List returns the cached profiles, loading them on first use.
func (d *Directory) List(ctx context.Context) ([]types.RoleProfile, error) {
	d.mu.RLock()
	loaded := d.loaded
	out := slices.Clone(d.profiles)
	d.mu.RUnlock()
	if loaded {
		return out, nil
	}
	return d.Refresh(ctx)
}

// Get returns the cached profile with id.
func (d *Directory) Get(id int64) (types.RoleProfile, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, p := range d.profiles {
		if p.ID == id {
			return p, true
		}
	}
	return types.RoleProfile{}, false
}

// Create validates req locally, creates the profile and refreshes the list.
// Validation failures are returned as *types.ValidationError without contacting the service.
func (d *Directory) Create(ctx context.Context, req types.CreateRoleRequest) (*types.RoleProfile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	created, err := d.svc.CreateRole(ctx, req)
	if err != nil {
		return nil, err
	}
	if _, err := d.Refresh(ctx); err != nil {
		d.logger.Warn("role created but refresh failed", "error", err)
	}
	return created, nil
}

// Delete removes the profile and forces a refresh.
func (d *Directory) Delete(ctx context.Context, id int64) error {
	if err := d.svc.DeleteRole(ctx, id); err != nil {
		return err
	}
	if _, err := d.Refresh(ctx); err != nil {
		return err
	}
	return nil
}

// SortByUpdated orders profiles by updated_at descending. Ties keep service order.
func SortByUpdated(profiles []types.RoleProfile) {
	slices.SortStableFunc(profiles, func(a, b types.RoleProfile) int {
		return b.UpdatedAt.Compare(a.UpdatedAt.Time)
	})
}
