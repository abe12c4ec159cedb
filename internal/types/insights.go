package types

import "encoding/json"

// Keys of the opaque result fields the report view decodes.
const (
	ExtraScoreExplanation   = "score_explanation"
	ExtraReliabilityNotes   = "reliability_notes"
	ExtraTopMatchingSection = "top_matching_sections"
	ExtraKeywordDensity     = "keyword_density"
)

// MatchingSection pairs a resume segment with the job description segment it matched best.
// Indexes are zero-based; Value is a percentage.
type MatchingSection struct {
	ResumeIndex int     `json:"resume_index"`
	JDIndex     int     `json:"jd_index"`
	Value       float64 `json:"value"`
	ResumeChunk string  `json:"resume_chunk,omitempty"`
	JDChunk     string  `json:"jd_chunk,omitempty"`
}

// KeywordDensity compares how often a tracked keyword appears in the resume and the job description.
type KeywordDensity struct {
	Keyword       string  `json:"keyword"`
	ResumeDensity float64 `json:"resume_density"`
	JDDensity     float64 `json:"jd_density"`
	Gap           float64 `json:"gap"`
}

// ReliabilityNotes returns the service's caveats about the score, or nil.
func (r *AnalysisResult) ReliabilityNotes() []string {
	return decodeExtra[[]string](r, ExtraReliabilityNotes)
}

// TopMatchingSections returns at most limit sections in service order. limit <= 0 means all.
func (r *AnalysisResult) TopMatchingSections(limit int) []MatchingSection {
	return head(decodeExtra[[]MatchingSection](r, ExtraTopMatchingSection), limit)
}

// KeywordDensities returns at most limit keyword rows in service order. limit <= 0 means all.
func (r *AnalysisResult) KeywordDensities(limit int) []KeywordDensity {
	return head(decodeExtra[[]KeywordDensity](r, ExtraKeywordDensity), limit)
}

// decodeExtra returns the zero value when key is absent or has an unexpected shape.
func decodeExtra[T any](r *AnalysisResult, key string) T {
	var zero T
	if r == nil {
		return zero
	}
	raw, ok := r.Extra[key]
	if !ok {
		return zero
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return zero
	}
	return v
}

func head[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
