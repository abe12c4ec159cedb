// Package observability renders analysis results, history and comparisons for the terminal.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jonathan/talentalign/internal/compare"
	"github.com/jonathan/talentalign/internal/report"
	"github.com/jonathan/talentalign/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// barWidth is the width of a score bar
	barWidth = 20
	// maxSections is how many top matching sections the report shows
	maxSections = 5
	// maxKeywords is how many keyword density rows the report shows
	maxKeywords = 12
)

// Printer writes boxed, human-readable summaries.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// ScoreBar renders a filled bar for score. The score is clamped for the bar only.
func ScoreBar(score float64) string {
	filled := compare.Bar(score, barWidth)
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

func writeList(sb *strings.Builder, heading string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
	sb.WriteString("\n")
}

// PrintResult outputs the report view of one analysis.
func (p *Printer) PrintResult(r *types.AnalysisResult) {
	if r == nil {
		p.PrintNoResult()
		return
	}
	level := report.FitLevel(r.Score)

	var sb strings.Builder
	if name := r.InputMetadata.CandidateName(); name != "" {
		sb.WriteString(fmt.Sprintf("Candidate:  %s\n", name))
	}
	if role := r.InputMetadata.RoleTitle(); role != "" {
		sb.WriteString(fmt.Sprintf("Role:       %s\n", role))
	}
	sb.WriteString(fmt.Sprintf("Score:      %s%%  %s\n", report.FormatScore(r.Score), ScoreBar(r.Score)))
	sb.WriteString(fmt.Sprintf("Fit:        %s\n", level.Label))
	sb.WriteString(fmt.Sprintf("Decision:   %s\n", report.Decision(r.Score, r.Confidence)))
	if r.Confidence > 0 {
		sb.WriteString(fmt.Sprintf("Confidence: %.0f%%\n", r.Confidence*100))
	}
	if r.AnalysisMode != "" {
		sb.WriteString(fmt.Sprintf("Mode:       %s\n", r.AnalysisMode))
	}
	sb.WriteString("\n")

	writeList(&sb, "Matched skills", r.OverlappingSkills, maxItemsToShow)
	writeList(&sb, "Missing skills", r.MissingSkills, maxItemsToShow)
	writeList(&sb, "Strengths", r.Strengths, 3)
	writeList(&sb, "Suggestions", r.Suggestions, 3)

	if explanation := r.ExtraString(types.ExtraScoreExplanation); explanation != "" {
		sb.WriteString(explanation + "\n")
	}
	for _, note := range r.ReliabilityNotes() {
		sb.WriteString(fmt.Sprintf("- %s\n", note))
	}
	sb.WriteString("\n")

	writeSections(&sb, r.TopMatchingSections(maxSections))
	writeKeywords(&sb, r.KeywordDensities(maxKeywords))

	p.printBox("ANALYSIS REPORT", strings.TrimRight(sb.String(), "\n"))
}

func writeSections(sb *strings.Builder, sections []types.MatchingSection) {
	sb.WriteString("Top matching sections:\n")
	if len(sections) == 0 {
		sb.WriteString("  " + report.MsgNoSections + "\n\n")
		return
	}
	for _, sec := range sections {
		sb.WriteString(fmt.Sprintf("  Resume #%d vs JD #%d  %s%%\n", sec.ResumeIndex+1, sec.JDIndex+1, report.FormatScore(sec.Value)))
		preview := strings.Join(strings.Fields(sec.ResumeChunk), " ")
		if preview == "" {
			preview = report.MsgNoChunkPreview
		}
		sb.WriteString("    " + preview + "\n")
	}
	sb.WriteString("\n")
}

func writeKeywords(sb *strings.Builder, rows []types.KeywordDensity) {
	if len(rows) == 0 {
		return
	}
	sb.WriteString("Keyword density (resume / JD):\n")
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("  %-20s %6.2f / %6.2f\n", truncate(row.Keyword, 20), row.ResumeDensity, row.JDDensity))
	}
}

// PrintNoResult outputs the empty state of the report view.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintNoResult() {
	fmt.Fprintln(p.out, "No analysis found")
	fmt.Fprintln(p.out, "Run a new analysis from the dashboard: talentctl analyze --resume <file> --jd-text <text>")
}

// PrintHistory outputs the history list, newest first.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintHistory(entries []types.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(p.out, "No analyses yet.")
		return
	}

	var sb strings.Builder
	for i, e := range entries {
		sb.WriteString(fmt.Sprintf("%s  %5s%%  %s\n", shortID(e.ID), report.FormatScore(e.Score), e.CreatedAt.Local().Format(time.DateTime)))
		sb.WriteString(fmt.Sprintf("          %s / %s\n", e.Candidate(), e.Role()))
		if len(e.MissingSkills) > 0 {
			sb.WriteString(fmt.Sprintf("          missing: %s\n", strings.Join(e.MissingSkills[:min(len(e.MissingSkills), 3)], ", ")))
		}
		if i < len(entries)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox(fmt.Sprintf("ANALYSIS HISTORY (%d)", len(entries)), strings.TrimRight(sb.String(), "\n"))
}

// PrintComparison outputs ranked comparison entries in the order given.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintComparison(entries []types.ComparisonEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(p.out, "No comparison results.")
		return
	}

	var sb strings.Builder
	for i, e := range entries {
		sb.WriteString(fmt.Sprintf("#%d %s\n", i+1, e.RoleTitle))
		sb.WriteString(fmt.Sprintf("   %s %s%%\n", ScoreBar(e.Score), report.FormatScore(e.Score)))
		if e.Summary != "" {
			sb.WriteString(fmt.Sprintf("   %s\n", e.Summary))
		}
		if len(e.MissingSkillsTop5) > 0 {
			sb.WriteString(fmt.Sprintf("   gaps: %s\n", strings.Join(e.MissingSkillsTop5, ", ")))
		}
		if !compare.CanOpen(e) {
			sb.WriteString("   (no full report)\n")
		}
		if i < len(entries)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox("ROLE COMPARISON", strings.TrimRight(sb.String(), "\n"))
}

// PrintRoles outputs the role profile directory.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintRoles(profiles []types.RoleProfile) {
	if len(profiles) == 0 {
		fmt.Fprintln(p.out, "No role profiles yet.")
		return
	}

	var sb strings.Builder
	for i, r := range profiles {
		sb.WriteString(fmt.Sprintf("[%d] %s\n", r.ID, r.Title))
		sb.WriteString(fmt.Sprintf("    %s\n", r.Describe()))
		if !r.UpdatedAt.IsZero() {
			sb.WriteString(fmt.Sprintf("    updated %s\n", r.UpdatedAt.Local().Format(time.DateTime)))
		}
		if i < len(profiles)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox(fmt.Sprintf("ROLE PROFILES (%d)", len(profiles)), strings.TrimRight(sb.String(), "\n"))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
