package types

import "time"

// HistoryEntry is the locally kept summary of one past analysis.
type HistoryEntry struct {
	ID                string          `json:"id"`
	Score             float64         `json:"score"`
	CreatedAt         time.Time       `json:"created_at"`
	CandidateName     *string         `json:"candidate_name,omitempty"`
	RoleTitle         *string         `json:"role_title,omitempty"`
	OverlappingSkills []string        `json:"overlapping_skills"`
	MissingSkills     []string        `json:"missing_skills"`
	Result            *AnalysisResult `json:"result"`
}

// Candidate returns the candidate name or "-" when unknown.
func (e HistoryEntry) Candidate() string {
	if e.CandidateName == nil || *e.CandidateName == "" {
		return "-"
	}
	return *e.CandidateName
}

// Role returns the role title or "-" when unknown.
func (e HistoryEntry) Role() string {
	if e.RoleTitle == nil || *e.RoleTitle == "" {
		return "-"
	}
	return *e.RoleTitle
}
