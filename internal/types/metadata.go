package types

import "strings"

// Metadata keys the client reads or writes.
const (
	MetaCandidateName  = "candidate_name"
	MetaRoleTitle      = "role_title"
	MetaResumeFilename = "resume_filename"
	MetaJDFilename     = "jd_filename"
	MetaResumeChars    = "resume_chars"
	MetaJDChars        = "jd_chars"
)

// Metadata is the free-form input_metadata object attached to an analysis result.
// Values are whatever the service sent (strings, numbers, bools, null).
type Metadata map[string]any

// String returns the trimmed string value for key, or "" when missing, null or not a string.
func (m Metadata) String(key string) string {
	if m == nil {
		return ""
	}
	s, ok := m[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// CandidateName returns the candidate name recorded by the service.
func (m Metadata) CandidateName() string {
	return m.String(MetaCandidateName)
}

// RoleTitle returns the role title recorded by the service.
func (m Metadata) RoleTitle() string {
	return m.String(MetaRoleTitle)
}

// Clone returns a shallow copy of the map. A nil receiver yields nil.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// With returns a copy of m with key set to value. m is not modified.
func (m Metadata) With(key string, value any) Metadata {
	out := m.Clone()
	if out == nil {
		out = Metadata{}
	}
	out[key] = value
	return out
}
