// Package compare runs one resume against several role profiles in a single batched request.
package compare

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"github.com/jonathan/talentalign/internal/relay"
	"github.com/jonathan/talentalign/internal/session"
	"github.com/jonathan/talentalign/internal/types"
)

// Validation messages shown before any request is made.
const (
	MsgResumeRequired    = "Upload a resume (PDF/DOCX) to compare."
	MsgSelectionRequired = "Select at least one role profile."
)

// Service issues the batched compare call.
type Service interface {
	CompareRoles(ctx context.Context, in types.CompareInput) (*types.CompareResponse, error)
}

// Request describes one comparison run. Role ids come from the Selection.
type Request struct {
	ResumePath    string
	Mode          types.AnalysisMode
	CandidateName string
	AdhocJDs      []types.AdhocJD
}

// Aggregator validates a comparison, performs it and hands ranked entries to the report view.
type Aggregator struct {
	svc    Service
	relay  *relay.Relay
	logger *slog.Logger
}

// NewAggregator returns an aggregator over svc. r is used by Open.
func NewAggregator(svc Service, r *relay.Relay, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{svc: svc, relay: r, logger: logger}
}

// Compare validates req locally and performs one compare call for the selected roles.
// Entries are returned in the order the service ranked them.
func (a *Aggregator) Compare(ctx context.Context, req Request, sel *Selection) ([]types.ComparisonEntry, error) {
	resume := strings.TrimSpace(req.ResumePath)
	if resume == "" {
		return nil, types.Invalid("resume", MsgResumeRequired)
	}
	var ids []int64
	if sel != nil {
		ids = sel.IDs()
	}
	if len(ids) == 0 && len(req.AdhocJDs) == 0 {
		return nil, types.Invalid("roles", MsgSelectionRequired)
	}
	mode := req.Mode
	if mode == "" {
		mode = types.ModeStandard
	}

	resp, err := a.svc.CompareRoles(ctx, types.CompareInput{
		ResumePath:    resume,
		RoleIDs:       ids,
		AdhocJDs:      req.AdhocJDs,
		Mode:          mode,
		CandidateName: strings.TrimSpace(req.CandidateName),
	})
	if err != nil {
		return nil, err
	}
	a.logger.Debug("comparison complete", "roles", len(ids), "ranked", len(resp.Ranked))
	if resp.Ranked == nil {
		return []types.ComparisonEntry{}, nil
	}
	return resp.Ranked, nil
}

// CanOpen reports whether entry carries a full analysis that can be opened as a report.
func CanOpen(entry types.ComparisonEntry) bool {
	return entry.AnalysisPayload != nil
}

// Open publishes the entry's analysis, tagged with the entry's role title, and returns the
// report view. The entry itself is not modified.
func (a *Aggregator) Open(ctx context.Context, entry types.ComparisonEntry) (session.View, error) {
	if !CanOpen(entry) {
		return "", types.Invalid("entry", "Comparison entry for %q has no full analysis to open.", entry.RoleTitle)
	}
	payload := entry.AnalysisPayload.Clone()
	payload.InputMetadata = payload.InputMetadata.With(types.MetaRoleTitle, entry.RoleTitle)
	if err := a.relay.Publish(ctx, payload); err != nil {
		return "", err
	}
	return session.ViewResult, nil
}

// Bar returns the filled width of a score bar of the given total width.
// The score is clamped into [0, 100] for the width only.
func Bar(score float64, width int) int {
	if width <= 0 || math.IsNaN(score) {
		return 0
	}
	clamped := math.Max(0, math.Min(100, score))
	return int(math.Round(clamped / 100 * float64(width)))
}
