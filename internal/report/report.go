// Package report derives the recruiter-facing verdicts shown alongside an analysis result.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/talentalign/internal/types"
)

// DefaultConfidence is assumed when the service reports no confidence.
const DefaultConfidence = 0.7

// summaryListLimit caps the strengths and gaps quoted in a recruiter summary.
const summaryListLimit = 6

// Level is a coarse fit band.
type Level struct {
	Label string
	Note  string
}

// FitLevel bands a match score.
func FitLevel(score float64) Level {
	switch {
	case score >= 85:
		return Level{Label: "Excellent Fit", Note: "Candidate profile strongly aligns with role requirements."}
	case score >= 70:
		return Level{Label: "Good Fit", Note: "Strong baseline fit with targeted optimization opportunities."}
	case score >= 55:
		return Level{Label: "Moderate Fit", Note: "Partial alignment; role-specific edits recommended before submission."}
	default:
		return Level{Label: "Low Fit", Note: "Significant gaps detected across core responsibilities or skills."}
	}
}

// Verdict is the suggested next step for a candidate.
type Verdict string

const (
	Proceed     Verdict = "Proceed"
	NeedsReview Verdict = "Needs Review"
	Hold        Verdict = "Hold"
)

// Decision suggests a next step. A zero confidence is treated as DefaultConfidence.
func Decision(score, confidence float64) Verdict {
	if confidence == 0 {
		confidence = DefaultConfidence
	}
	switch {
	case score >= 80 && confidence >= 0.8:
		return Proceed
	case score >= 65:
		return NeedsReview
	default:
		return Hold
	}
}

// FormatScore renders a score without trailing zeros.
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

// Texts for the top matching sections list.
const (
	MsgNoSections     = "No section-level data available for this analysis."
	MsgNoChunkPreview = "Resume segment preview unavailable."
)

// RecruiterSummary renders a one-paragraph summary suitable for pasting into an ATS note.
func RecruiterSummary(r *types.AnalysisResult) string {
	candidate := r.InputMetadata.CandidateName()
	if candidate == "" {
		candidate = "Candidate"
	}
	role := r.InputMetadata.RoleTitle()
	if role == "" {
		role = "target role"
	}
	mode := r.AnalysisMode
	if mode == "" {
		mode = types.ModeStandard
	}

	strengths := joinTop(r.OverlappingSkills, "Not enough data")
	gaps := joinTop(r.MissingSkills, "No major gaps identified")

	return strings.Join([]string{
		fmt.Sprintf("%s evaluated for %s.", candidate, role),
		fmt.Sprintf("Final Match Score: %s%% (%s mode).", FormatScore(r.Score), mode),
		fmt.Sprintf("Decision: %s.", Decision(r.Score, r.Confidence)),
		fmt.Sprintf("Top strengths: %s.", strengths),
		fmt.Sprintf("Primary gaps: %s.", gaps),
	}, " ")
}

// SuggestionsText renders the suggestions as a numbered list, one per line.
func SuggestionsText(r *types.AnalysisResult) string {
	lines := make([]string, 0, len(r.Suggestions))
	for i, s := range r.Suggestions {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, s))
	}
	return strings.Join(lines, "\n")
}

func joinTop(items []string, empty string) string {
	if len(items) == 0 {
		return empty
	}
	return strings.Join(items[:min(len(items), summaryListLimit)], ", ")
}
