package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/talentalign/internal/kvstore"
	"github.com/jonathan/talentalign/internal/relay"
	"github.com/jonathan/talentalign/internal/schemas"
	"github.com/jonathan/talentalign/internal/session"
	"github.com/jonathan/talentalign/internal/types"
)

// Cache persists the history ring under kvstore.KeyHistory.
//
// Append is a read-modify-write of the whole list. Two processes appending at once can lose
// one entry; that is accepted.
type Cache struct {
	store  kvstore.Store
	relay  *relay.Relay
	logger *slog.Logger
}

// NewCache returns a cache over store. relay is used by Reopen.
func NewCache(store kvstore.Store, r *relay.Relay, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{store: store, relay: r, logger: logger}
}

// NewEntry summarizes result. Names recorded by the service win over the caller's fallbacks;
// blank values are stored as absent.
func NewEntry(result *types.AnalysisResult, candidateName, roleTitle string, now time.Time) types.HistoryEntry {
	entry := types.HistoryEntry{
		ID:                uuid.NewString(),
		Score:             result.Score,
		CreatedAt:         now.UTC(),
		CandidateName:     firstNonBlank(result.InputMetadata.CandidateName(), candidateName),
		RoleTitle:         firstNonBlank(result.InputMetadata.RoleTitle(), roleTitle),
		OverlappingSkills: nonNil(result.OverlappingSkills),
		MissingSkills:     nonNil(result.MissingSkills),
		Result:            result,
	}
	return entry
}

// Append inserts entry at the head, keeping at most Capacity entries.
// A store read failure aborts without writing so stored entries are not replaced.
func (c *Cache) Append(ctx context.Context, entry types.HistoryEntry) error {
	entries, err := c.load(ctx)
	if err != nil {
		return err
	}
	ring := RingFrom(Capacity, entries)
	ring.Push(entry)
	return c.save(ctx, ring.Items())
}

// List returns the entries newest first. Missing or unreadable data yields an empty list.
func (c *Cache) List(ctx context.Context) []types.HistoryEntry {
	entries, err := c.load(ctx)
	if err != nil {
		c.logger.Warn("failed to read history, treating as empty", "error", err)
		return []types.HistoryEntry{}
	}
	return entries
}

// load reads the ring. Missing or corrupt data is empty; store failures are returned.
func (c *Cache) load(ctx context.Context) ([]types.HistoryEntry, error) {
	raw, ok, err := c.store.Get(ctx, kvstore.KeyHistory)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []types.HistoryEntry{}, nil
	}

	var entries []types.HistoryEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		c.logger.Warn("history is corrupt, treating as empty", "error", err)
		return []types.HistoryEntry{}, nil
	}
	return RingFrom(Capacity, entries).Items(), nil
}

// Clear removes the whole collection in one store operation.
func (c *Cache) Clear(ctx context.Context) error {
	if err := c.store.Remove(ctx, kvstore.KeyHistory); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Find returns the entry with id, matching a unique id prefix as well.
func (c *Cache) Find(ctx context.Context, id string) (types.HistoryEntry, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return types.HistoryEntry{}, false
	}
	var match *types.HistoryEntry
	for _, e := range c.List(ctx) {
		if e.ID == id {
			return e, true
		}
		if strings.HasPrefix(e.ID, id) {
			if match != nil {
				return types.HistoryEntry{}, false
			}
			e := e
			match = &e
		}
	}
	if match == nil {
		return types.HistoryEntry{}, false
	}
	return *match, true
}

// Reopen republishes the entry's stored result through the relay and returns the report view.
func (c *Cache) Reopen(ctx context.Context, entry types.HistoryEntry) (session.View, error) {
	if entry.Result == nil {
		return "", fmt.Errorf("history entry %s has no stored result", entry.ID)
	}
	if err := c.relay.Publish(ctx, entry.Result); err != nil {
		return "", err
	}
	return session.ViewResult, nil
}

func (c *Cache) save(ctx context.Context, entries []types.HistoryEntry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := schemas.Validate(schemas.History, raw); err != nil {
		return fmt.Errorf("refusing to save history: %w", err)
	}
	if err := c.store.Set(ctx, kvstore.KeyHistory, string(raw)); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

func firstNonBlank(values ...string) *string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return &v
		}
	}
	return nil
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
