package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jonathan/talentalign/internal/objectstore"
	"github.com/jonathan/talentalign/internal/types"
)

// FileName returns the export name for a report created at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("talentalign-report-%d.json", t.UnixMilli())
}

// Export writes r as indented JSON to store and returns its location.
func Export(ctx context.Context, store objectstore.Store, r *types.AnalysisResult, now time.Time) (string, error) {
	return exportJSON(ctx, store, FileName(now), r)
}

// ExportInterviewKit writes kit as indented JSON to store and returns its location.
func ExportInterviewKit(ctx context.Context, store objectstore.Store, kit *types.InterviewKit, now time.Time) (string, error) {
	return exportJSON(ctx, store, fmt.Sprintf("talentalign-interview-kit-%d.json", now.UnixMilli()), kit)
}

func exportJSON(ctx context.Context, store objectstore.Store, name string, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}
	loc, err := store.Save(ctx, name, "application/json", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to export report: %w", err)
	}
	return loc, nil
}
