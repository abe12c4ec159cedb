package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/jonathan/talentalign/internal/api"
	"github.com/jonathan/talentalign/internal/report"
	"github.com/jonathan/talentalign/internal/session"
	"github.com/jonathan/talentalign/internal/types"
	"github.com/jonathan/talentalign/internal/workspace"
)

// MsgNoResult is returned by /result when nothing has been relayed.
const MsgNoResult = "No analysis found. Run an analysis first."

type loginView struct {
	View          session.View `json:"view"`
	Authenticated bool         `json:"authenticated"`
	Next          string       `json:"next,omitempty"`
	Message       string       `json:"message"`
}

type healthView struct {
	Status    string     `json:"status"`
	CheckedAt *time.Time `json:"checked_at,omitempty"`
}

type dashboardView struct {
	History    []types.HistoryEntry `json:"history"`
	Roles      []types.RoleProfile  `json:"roles"`
	RolesError string               `json:"roles_error,omitempty"`
}

type resultView struct {
	Result          *types.AnalysisResult   `json:"result"`
	FitLevel        string                  `json:"fit_level"`
	FitNote         string                  `json:"fit_note"`
	Decision        string                  `json:"decision"`
	Summary         string                  `json:"recruiter_summary"`
	Suggestions     string                  `json:"suggestions_text"`
	Notes           []string                `json:"reliability_notes"`
	Sections        []types.MatchingSection `json:"top_sections"`
	SectionsMessage string                  `json:"top_sections_message,omitempty"`
	Keywords        []types.KeywordDensity  `json:"keywords"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	authed := s.gate.IsAuthenticated(r.Context())
	msg := "Run `talentctl login` to sign in."
	if authed {
		msg = "Already signed in."
	}
	s.jsonResponse(w, http.StatusOK, loginView{
		View:          session.ViewLogin,
		Authenticated: authed,
		Next:          r.URL.Query().Get("next"),
		Message:       msg,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	if s.monitor == nil {
		s.jsonResponse(w, http.StatusOK, healthView{Status: "unknown"})
		return
	}
	status, at := s.monitor.Status()
	view := healthView{Status: string(status)}
	if !at.IsZero() {
		view.CheckedAt = &at
	}
	s.jsonResponse(w, http.StatusOK, view)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	view := dashboardView{History: s.history.List(r.Context()), Roles: []types.RoleProfile{}}
	profiles, err := s.roles.List(r.Context())
	switch {
	case api.IsUnauthorized(err):
		s.gate.Invalidate(r.Context())
		http.Redirect(w, r, session.LoginPath, http.StatusSeeOther)
		return
	case err != nil:
		view.RolesError = api.Message(err, "Could not load role profiles.")
	default:
		view.Roles = profiles
	}
	s.jsonResponse(w, http.StatusOK, view)
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	rv, ok, err := s.workspace.Report(r.Context())
	if err != nil {
		s.redirectOrError(w, r, err)
		return
	}
	if !ok {
		s.errorResponse(w, http.StatusNotFound, MsgNoResult)
		return
	}
	view := resultView{
		Result:      rv.Result,
		FitLevel:    rv.Level.Label,
		FitNote:     rv.Level.Note,
		Decision:    string(rv.Decision),
		Summary:     rv.Summary,
		Suggestions: rv.Suggestions,
		Notes:       nonNil(rv.Notes),
		Sections:    nonNil(rv.Sections),
		Keywords:    nonNil(rv.Keywords),
	}
	if len(rv.Sections) == 0 {
		view.SectionsMessage = report.MsgNoSections
	}
	s.jsonResponse(w, http.StatusOK, view)
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.history.List(r.Context()))
}

func (s *Server) handleOpenHistory(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.history.Find(r.Context(), r.PathValue("id"))
	if !ok {
		s.errorResponse(w, http.StatusNotFound, "History entry not found.")
		return
	}
	if _, err := s.history.Reopen(r.Context(), entry); err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, api.Message(err, "Could not open this analysis."))
		return
	}
	http.Redirect(w, r, "/result", http.StatusSeeOther)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.history.Clear(r.Context()); err != nil {
		s.logger.Error("failed to clear history", "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "Could not clear history.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListRoles(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.roles.Refresh(r.Context())
	if err != nil {
		if api.IsUnauthorized(err) {
			s.gate.Invalidate(r.Context())
			http.Redirect(w, r, session.LoginPath, http.StatusSeeOther)
			return
		}
		s.errorResponse(w, http.StatusBadGateway, api.Message(err, "Could not load role profiles."))
		return
	}
	s.jsonResponse(w, http.StatusOK, profiles)
}

func (s *Server) redirectOrError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, session.ErrLoginRequired) {
		http.Redirect(w, r, session.LoginPath, http.StatusSeeOther)
		return
	}
	s.errorResponse(w, http.StatusInternalServerError, workspace.Message(err, "Something went wrong."))
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
