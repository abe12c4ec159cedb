//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisResult_KeepsUnknownFields(t *testing.T) {
	raw := `{"score":78,"confidence":0.8,"overlapping_skills":["go"],"missing_skills":[],
		"strengths":[],"suggestions":[],"input_metadata":{"candidate_name":"Ana"},
		"score_explanation":"solid","heatmap_data":{"a":1}}`

	var r AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	assert.Equal(t, 78.0, r.Score)
	assert.Equal(t, "Ana", r.InputMetadata.CandidateName())
	assert.Equal(t, "solid", r.ExtraString("score_explanation"))
	assert.NotContains(t, r.Extra, "score")

	out, err := json.Marshal(r)
	require.NoError(t, err)
	var back map[string]any
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, "solid", back["score_explanation"])
	assert.Equal(t, map[string]any{"a": float64(1)}, back["heatmap_data"])
	assert.Equal(t, 78.0, back["score"])
}

func TestAnalysisResult_Clone(t *testing.T) {
	id := int64(9)
	r := &AnalysisResult{
		Score:         50,
		AnalysisID:    &id,
		MissingSkills: []string{"sql"},
		InputMetadata: Metadata{MetaRoleTitle: "Backend"},
		Extra:         map[string]json.RawMessage{"x": json.RawMessage(`1`)},
	}
	c := r.Clone()
	*c.AnalysisID = 10
	c.MissingSkills[0] = "go"
	c.InputMetadata[MetaRoleTitle] = "Data"
	c.Extra["x"][0] = '2'

	assert.Equal(t, int64(9), *r.AnalysisID)
	assert.Equal(t, "sql", r.MissingSkills[0])
	assert.Equal(t, "Backend", r.InputMetadata.RoleTitle())
	assert.Equal(t, json.RawMessage(`1`), r.Extra["x"])
	assert.Nil(t, (*AnalysisResult)(nil).Clone())
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]AnalysisMode{"": ModeStandard, " Strict ": ModeStrict, "standard": ModeStandard} {
		got, err := ParseMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseMode("lenient")
	assert.Error(t, err)
}

func TestMetadata_With(t *testing.T) {
	var m Metadata
	n := m.With(MetaRoleTitle, "Platform")
	assert.Nil(t, m)
	assert.Equal(t, "Platform", n.RoleTitle())
	assert.Equal(t, "", Metadata{MetaCandidateName: 42}.CandidateName())
}

func TestTimestamp_ZonelessIsUTC(t *testing.T) {
	var p RoleProfile
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"title":"x","jd_text":"y",
		"created_at":"2025-03-01T10:00:00.123456","updated_at":null}`), &p))
	assert.Equal(t, time.Date(2025, 3, 1, 10, 0, 0, 123456000, time.UTC), p.CreatedAt.Time)
	assert.True(t, p.UpdatedAt.IsZero())

	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestCreateRoleRequest_Validate(t *testing.T) {
	tests := []struct {
		name string
		req  CreateRoleRequest
		want string
	}{
		{name: "missing title", req: CreateRoleRequest{JDText: "jd"}, want: "Role title is required."},
		{name: "blank title", req: CreateRoleRequest{Title: "  ", JDText: "jd"}, want: "Role title is required."},
		{name: "missing jd", req: CreateRoleRequest{Title: "Backend"}, want: "JD text is required."},
		{name: "both missing reports title", req: CreateRoleRequest{}, want: "Role title is required."},
		{name: "valid", req: CreateRoleRequest{Title: " Backend ", JDText: "Go"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.want == "" {
				require.NoError(t, err)
				assert.Equal(t, "Backend", tt.req.Title)
				return
			}
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.want, vErr.Message)
		})
	}
}

func TestCreateRoleRequest_FormFieldsOmitEmpty(t *testing.T) {
	req := CreateRoleRequest{Title: "Backend", JDText: "Go", Location: "Remote"}
	assert.Equal(t, map[string]string{"title": "Backend", "jd_text": "Go", "location": "Remote"}, req.FormFields())
}

func TestCredentials_Validate(t *testing.T) {
	c := Credentials{Email: " Ana@Example.COM ", Password: "x"}
	require.NoError(t, c.Validate())
	assert.Equal(t, "ana@example.com", c.Email)

	err := (&Credentials{Email: "nope", Password: "x"}).Validate()
	assert.EqualError(t, err, "A valid email address is required.")
	err = (&Credentials{Email: "a@b.co"}).Validate()
	assert.EqualError(t, err, "Password is required.")

	err = (&RegisterRequest{Email: "a@b.co", Password: "short"}).Validate()
	assert.EqualError(t, err, "Password must be between 8 and 128 characters.")
}

func TestHistoryEntry_Fallbacks(t *testing.T) {
	name := ""
	e := HistoryEntry{CandidateName: &name}
	assert.Equal(t, "-", e.Candidate())
	assert.Equal(t, "-", e.Role())
}

func TestRoleProfile_Describe(t *testing.T) {
	lvl := "Senior"
	assert.Equal(t, "Senior | - | -", RoleProfile{Level: &lvl}.Describe())
}

func TestAnalysisResult_Insights(t *testing.T) {
	var r AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(`{"score":70,
		"reliability_notes":["a","b"],
		"top_matching_sections":[{"resume_index":1,"jd_index":0,"value":77.5,"resume_chunk":"x"},
			{"resume_index":2,"jd_index":3,"value":60}],
		"keyword_density":{"go":1}}`), &r))

	assert.Equal(t, []string{"a", "b"}, r.ReliabilityNotes())
	sections := r.TopMatchingSections(1)
	require.Len(t, sections, 1)
	assert.Equal(t, MatchingSection{ResumeIndex: 1, JDIndex: 0, Value: 77.5, ResumeChunk: "x"}, sections[0])
	assert.Len(t, r.TopMatchingSections(0), 2)
	assert.Nil(t, r.KeywordDensities(12), "wrong shape reads as absent")

	var empty *AnalysisResult
	assert.Nil(t, empty.ReliabilityNotes())
}
