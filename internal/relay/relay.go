// Package relay carries the most recent analysis result from the submission flow to the report view.
//
// The relay is one persisted slot: Publish overwrites, Consume reads without clearing.
// Because the slot lives in the store, a report view opened after a restart still finds it.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jonathan/talentalign/internal/kvstore"
	"github.com/jonathan/talentalign/internal/types"
)

// Relay is the single-slot hand-off channel.
type Relay struct {
	store  kvstore.Store
	logger *slog.Logger
}

// New returns a relay over store.
func New(store kvstore.Store, logger *slog.Logger) *Relay {
	if logger == nil {
		logger = slog.Default()
	}
	return &Relay{store: store, logger: logger}
}

// Publish stores result, replacing whatever was there.
func (r *Relay) Publish(ctx context.Context, result *types.AnalysisResult) error {
	if result == nil {
		return fmt.Errorf("cannot publish a nil result")
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if err := r.store.Set(ctx, kvstore.KeyResult, string(raw)); err != nil {
		return fmt.Errorf("failed to publish result: %w", err)
	}
	return nil
}

// Consume returns the current result. It reports false when nothing was published or the slot
// cannot be decoded; both mean "no analysis found", never an error.
func (r *Relay) Consume(ctx context.Context) (*types.AnalysisResult, bool) {
	raw, ok, err := r.store.Get(ctx, kvstore.KeyResult)
	if err != nil {
		r.logger.Warn("failed to read result slot", "error", err)
		return nil, false
	}
	if !ok || raw == "" || raw == "null" {
		return nil, false
	}

	var result types.AnalysisResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		r.logger.Warn("result slot is corrupt, treating as empty", "error", err)
		return nil, false
	}
	return &result, true
}
