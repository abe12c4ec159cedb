// Package workspace runs the analysis submission flow and assembles the report view.
//
// A submission validates its inputs locally, preflights the files, calls the analysis
// service, publishes the result through the relay and records it in history. History entries
// are appended in completion order.
package workspace

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jonathan/talentalign/internal/api"
	"github.com/jonathan/talentalign/internal/documents"
	"github.com/jonathan/talentalign/internal/history"
	"github.com/jonathan/talentalign/internal/relay"
	"github.com/jonathan/talentalign/internal/report"
	"github.com/jonathan/talentalign/internal/roles"
	"github.com/jonathan/talentalign/internal/session"
	"github.com/jonathan/talentalign/internal/types"
)

// User-facing messages.
const (
	MsgResumeRequired  = "Please upload a resume file (PDF or DOCX)."
	MsgJDRequired      = "Provide JD text or upload JD file."
	MsgAnalysisFailed  = "Analysis failed. Please try again."
	MsgMissingAnalysis = "Missing analysis id. Run analysis again and retry."
	MsgShareFailed     = "Could not create share link."
	MsgInterviewFailed = "Could not generate interview kit."
	MsgRoleNotFound    = "Role profile not found."
	MsgNoAnalysis      = "No analysis found. Run an analysis first."
	MsgLoginRequired   = "Please log in first: run `talentctl login`"
)

// Service is the subset of the analysis service the workspace calls.
type Service interface {
	Analyze(ctx context.Context, in types.AnalyzeInput) (*types.AnalysisResult, error)
	CreateShare(ctx context.Context, analysisID int64, days int) (*types.ShareLink, error)
	GenerateInterviewKit(ctx context.Context, analysisID *int64, raw *types.AnalysisResult) (*types.InterviewKit, error)
}

// Draft is the next analysis to submit.
type Draft struct {
	ResumePath    string
	JDText        string
	JDPath        string
	Mode          types.AnalysisMode
	CandidateName string
	RoleTitle     string
}

// Outcome is a completed submission.
type Outcome struct {
	Result   *types.AnalysisResult
	Entry    types.HistoryEntry
	View     session.View
	Warnings []string
}

// ReportView is everything the report screen renders for one result.
type ReportView struct {
	Result      *types.AnalysisResult
	Level       report.Level
	Decision    report.Verdict
	Summary     string
	Suggestions string
	Notes       []string
	Sections    []types.MatchingSection
	Keywords    []types.KeywordDensity
}

// Report list limits.
const (
	ReportSections = 5
	ReportKeywords = 12
)

// Deps wires a Workspace.
type Deps struct {
	Service Service
	Gate    *session.Gate
	Relay   *relay.Relay
	History *history.Cache
	Roles   *roles.Directory
	Logger  *slog.Logger
	Now     func() time.Time
}

// Workspace coordinates the submission flow.
type Workspace struct {
	svc     Service
	gate    *session.Gate
	relay   *relay.Relay
	history *history.Cache
	roles   *roles.Directory
	logger  *slog.Logger
	now     func() time.Time
}

// New returns a workspace over deps.
func New(deps Deps) *Workspace {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Workspace{
		svc:     deps.Service,
		gate:    deps.Gate,
		relay:   deps.Relay,
		history: deps.History,
		roles:   deps.Roles,
		logger:  logger,
		now:     now,
	}
}

// Validate checks a draft without touching the filesystem or the network.
func (d *Draft) Validate() error {
	d.ResumePath = strings.TrimSpace(d.ResumePath)
	d.JDPath = strings.TrimSpace(d.JDPath)
	if d.ResumePath == "" {
		return types.Invalid("resume_file", MsgResumeRequired)
	}
	if strings.TrimSpace(d.JDText) == "" && d.JDPath == "" {
		return types.Invalid("jd", MsgJDRequired)
	}
	return nil
}

// Analyze submits draft. On success the result is in the relay and at the head of history.
func (w *Workspace) Analyze(ctx context.Context, draft Draft) (*Outcome, error) {
	if err := w.guard(ctx, session.ViewDashboard); err != nil {
		return nil, err
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	var warnings []string
	resume, err := documents.InspectResume(draft.ResumePath)
	if err != nil {
		return nil, err
	}
	if resume.Warning != "" {
		warnings = append(warnings, resume.Name+": "+resume.Warning)
	}
	if draft.JDPath != "" {
		jd, err := documents.InspectJD(draft.JDPath)
		if err != nil {
			return nil, err
		}
		if jd.Warning != "" {
			warnings = append(warnings, jd.Name+": "+jd.Warning)
		}
	}
	for _, warn := range warnings {
		w.logger.Warn("document preflight", "warning", warn)
	}

	mode := draft.Mode
	if mode == "" {
		mode = types.ModeStandard
	}
	start := w.now()
	result, err := w.svc.Analyze(ctx, types.AnalyzeInput{
		ResumePath:    draft.ResumePath,
		JDText:        draft.JDText,
		JDPath:        draft.JDPath,
		Mode:          mode,
		CandidateName: draft.CandidateName,
		RoleTitle:     draft.RoleTitle,
	})
	if err != nil {
		return nil, w.fail(ctx, err)
	}
	if ctx.Err() != nil {
		// The caller stopped waiting; the late response is dropped.
		return nil, ctx.Err()
	}
	w.logger.Info("analysis complete", "score", result.Score, "mode", mode, "duration", w.now().Sub(start))

	if err := w.relay.Publish(ctx, result); err != nil {
		return nil, err
	}
	entry := history.NewEntry(result, draft.CandidateName, draft.RoleTitle, w.now())
	if err := w.history.Append(ctx, entry); err != nil {
		w.logger.Warn("failed to record analysis in history", "error", err)
	}
	return &Outcome{Result: result, Entry: entry, View: session.ViewResult, Warnings: warnings}, nil
}

// Report returns the report for the relayed result, or false for the empty state.
func (w *Workspace) Report(ctx context.Context) (*ReportView, bool, error) {
	if err := w.guard(ctx, session.ViewResult); err != nil {
		return nil, false, err
	}
	result, ok := w.relay.Consume(ctx)
	if !ok {
		return nil, false, nil
	}
	return BuildReport(result), true, nil
}

// BuildReport derives the report fields from result.
func BuildReport(result *types.AnalysisResult) *ReportView {
	return &ReportView{
		Result:      result,
		Level:       report.FitLevel(result.Score),
		Decision:    report.Decision(result.Score, result.Confidence),
		Summary:     report.RecruiterSummary(result),
		Suggestions: report.SuggestionsText(result),
		Notes:       result.ReliabilityNotes(),
		Sections:    result.TopMatchingSections(ReportSections),
		Keywords:    result.KeywordDensities(ReportKeywords),
	}
}

// UseRole copies a role profile's title and job description into draft.
func (w *Workspace) UseRole(ctx context.Context, id int64, draft *Draft) error {
	if err := w.guard(ctx, session.ViewRoles); err != nil {
		return err
	}
	if _, err := w.roles.List(ctx); err != nil {
		return w.fail(ctx, err)
	}
	profile, ok := w.roles.Get(id)
	if !ok {
		return types.Invalid("role", MsgRoleNotFound)
	}
	draft.RoleTitle = profile.Title
	draft.JDText = profile.JDText
	draft.JDPath = ""
	return nil
}

// Share creates a read-only link for the relayed result.
func (w *Workspace) Share(ctx context.Context, days int) (*types.ShareLink, error) {
	if err := w.guard(ctx, session.ViewResult); err != nil {
		return nil, err
	}
	result, ok := w.relay.Consume(ctx)
	if !ok {
		return nil, types.Invalid("analysis", MsgNoAnalysis)
	}
	if result.AnalysisID == nil {
		return nil, types.Invalid("analysis_id", MsgMissingAnalysis)
	}
	link, err := w.svc.CreateShare(ctx, *result.AnalysisID, days)
	if err != nil {
		return nil, w.fail(ctx, err)
	}
	return link, nil
}

// InterviewKit requests a kit for the relayed result, by id when the service stored it.
func (w *Workspace) InterviewKit(ctx context.Context) (*types.InterviewKit, error) {
	if err := w.guard(ctx, session.ViewResult); err != nil {
		return nil, err
	}
	result, ok := w.relay.Consume(ctx)
	if !ok {
		return nil, types.Invalid("analysis", MsgNoAnalysis)
	}
	var raw *types.AnalysisResult
	if result.AnalysisID == nil {
		raw = result
	}
	kit, err := w.svc.GenerateInterviewKit(ctx, result.AnalysisID, raw)
	if err != nil {
		return nil, w.fail(ctx, err)
	}
	return kit, nil
}

func (w *Workspace) guard(ctx context.Context, view session.View) error {
	if w.gate == nil {
		return nil
	}
	_, err := w.gate.Guard(ctx, view)
	return err
}

// fail drops a token the service rejected so the next navigation lands on login.
func (w *Workspace) fail(ctx context.Context, err error) error {
	if api.IsUnauthorized(err) && w.gate != nil {
		w.gate.Invalidate(ctx)
		return &session.RedirectError{View: session.ViewLogin}
	}
	return err
}

// Message converts a workspace error into the line shown to the user.
func Message(err error, fallback string) string {
	var redirect *session.RedirectError
	if errors.As(err, &redirect) {
		return MsgLoginRequired
	}
	return api.Message(err, fallback)
}
