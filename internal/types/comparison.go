package types

// ComparisonEntry is one ranked outcome of comparing a resume against one role profile.
type ComparisonEntry struct {
	RoleID            *int64          `json:"role_id"`
	RoleTitle         string          `json:"role_title"`
	Score             float64         `json:"score"`
	Confidence        float64         `json:"confidence"`
	Strengths         []string        `json:"strengths"`
	MissingSkillsTop5 []string        `json:"missing_skills_top5"`
	Summary           string          `json:"summary"`
	AnalysisPayload   *AnalysisResult `json:"analysis_payload,omitempty"`
}

// CompareResponse is the compare-roles response body. Ranked is ordered by the service.
type CompareResponse struct {
	Ranked []ComparisonEntry `json:"ranked"`
}

// AdhocJD is a job description compared without saving it as a role profile.
type AdhocJD struct {
	Title  string `json:"title"`
	JDText string `json:"jd_text"`
}

// ShareLink is the response of share-link creation.
type ShareLink struct {
	ShareURL  string    `json:"share_url"`
	Token     string    `json:"token,omitempty"`
	ExpiresAt Timestamp `json:"expires_at,omitempty"`
}

// InterviewKit is a generated interview kit. Content is opaque to the client.
type InterviewKit struct {
	ID      int64          `json:"id"`
	Content map[string]any `json:"content"`
}

// CompareInput is everything a compare-roles request carries.
type CompareInput struct {
	ResumePath    string
	RoleIDs       []int64
	AdhocJDs      []AdhocJD
	Mode          AnalysisMode
	CandidateName string
}

// AnalyzeInput is everything an analyze request carries. JDText and JDPath may both be set;
// the service prefers the uploaded file.
type AnalyzeInput struct {
	ResumePath    string
	JDText        string
	JDPath        string
	Mode          AnalysisMode
	CandidateName string
	RoleTitle     string
}
