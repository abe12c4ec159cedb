// Package types provides type definitions for the payloads exchanged with the analysis service
// and the records the client keeps locally.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AnalysisMode is the scoring strictness flag passed through to the analysis service.
type AnalysisMode string

const (
	// ModeStandard is the default scoring mode
	ModeStandard AnalysisMode = "standard"
	// ModeStrict asks the service for stricter scoring
	ModeStrict AnalysisMode = "strict"
)

// ParseMode normalizes a user supplied mode. An empty string means standard.
func ParseMode(s string) (AnalysisMode, error) {
	switch AnalysisMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeStandard:
		return ModeStandard, nil
	case ModeStrict:
		return ModeStrict, nil
	default:
		return "", fmt.Errorf("analysis mode must be 'standard' or 'strict', got %q", s)
	}
}

// AnalysisResult is the payload returned by the analysis service for one resume/job-description pair.
//
// Only the fields the client branches on are typed. Everything else the service sends
// (score_explanation, keyword_density, heatmap_data, top_matching_sections, ...) is kept
// verbatim in Extra so that a result written to the relay or history reads back unchanged.
type AnalysisResult struct {
	Score             float64      `json:"score"`
	Confidence        float64      `json:"confidence"`
	AnalysisMode      AnalysisMode `json:"analysis_mode,omitempty"`
	AnalysisID        *int64       `json:"analysis_id,omitempty"`
	OverlappingSkills []string     `json:"overlapping_skills"`
	MissingSkills     []string     `json:"missing_skills"`
	Strengths         []string     `json:"strengths"`
	Suggestions       []string     `json:"suggestions"`
	InputMetadata     Metadata     `json:"input_metadata"`

	Extra map[string]json.RawMessage `json:"-"`
}

// knownResultFields must list every json key of the typed fields above.
var knownResultFields = []string{
	"score", "confidence", "analysis_mode", "analysis_id",
	"overlapping_skills", "missing_skills", "strengths", "suggestions", "input_metadata",
}

// resultFields is an alias without methods so the default codec can be reused.
type resultFields AnalysisResult

// UnmarshalJSON decodes the typed fields and stashes every other key in Extra.
func (r *AnalysisResult) UnmarshalJSON(data []byte) error {
	var typed resultFields
	if err := json.Unmarshal(data, &typed); err != nil {
		return err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, key := range knownResultFields {
		delete(all, key)
	}

	*r = AnalysisResult(typed)
	if len(all) > 0 {
		r.Extra = all
	} else {
		r.Extra = nil
	}
	return nil
}

// MarshalJSON encodes the typed fields merged with Extra. Typed fields win on conflicts.
func (r AnalysisResult) MarshalJSON() ([]byte, error) {
	typed, err := json.Marshal(resultFields(r))
	if err != nil {
		return nil, err
	}
	if len(r.Extra) == 0 {
		return typed, nil
	}

	merged := make(map[string]json.RawMessage, len(r.Extra)+len(knownResultFields))
	for k, v := range r.Extra {
		merged[k] = v
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(typed, &fields); err != nil {
		return nil, err
	}
	for k, v := range fields {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// Clone returns a copy that shares no maps or slices with r.
func (r *AnalysisResult) Clone() *AnalysisResult {
	if r == nil {
		return nil
	}
	out := *r
	if r.AnalysisID != nil {
		id := *r.AnalysisID
		out.AnalysisID = &id
	}
	out.OverlappingSkills = cloneStrings(r.OverlappingSkills)
	out.MissingSkills = cloneStrings(r.MissingSkills)
	out.Strengths = cloneStrings(r.Strengths)
	out.Suggestions = cloneStrings(r.Suggestions)
	out.InputMetadata = r.InputMetadata.Clone()
	if r.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(r.Extra))
		for k, v := range r.Extra {
			out.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return &out
}

// ExtraString returns a string-valued opaque field such as score_explanation.
func (r *AnalysisResult) ExtraString(key string) string {
	raw, ok := r.Extra[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
