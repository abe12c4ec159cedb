package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/talentalign/internal/schemas"
	"github.com/jonathan/talentalign/internal/types"
)

// Share link expiry bounds, in days.
const (
	MinShareDays     = 1
	MaxShareDays     = 30
	DefaultShareDays = 7
)

// HealthTimeout bounds a single health probe.
const HealthTimeout = 5 * time.Second

// Login exchanges credentials for a credential token.
func (c *Client) Login(ctx context.Context, creds types.Credentials) (*types.AuthResponse, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	var resp types.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", creds, &resp, ""); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, &ResponseError{Path: "/auth/login", Cause: fmt.Errorf("no access token in response")}
	}
	return &resp, nil
}

// Register creates an account and returns its credential token.
func (c *Client) Register(ctx context.Context, reg types.RegisterRequest) (*types.AuthResponse, error) {
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	var resp types.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", reg, &resp, ""); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, &ResponseError{Path: "/auth/register", Cause: fmt.Errorf("no access token in response")}
	}
	return &resp, nil
}

// Me returns the account the current token belongs to.
func (c *Client) Me(ctx context.Context) (*types.User, error) {
	var user types.User
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, &user, ""); err != nil {
		return nil, err
	}
	return &user, nil
}

// Analyze scores one resume against one job description.
func (c *Client) Analyze(ctx context.Context, in types.AnalyzeInput) (*types.AnalysisResult, error) {
	mode := in.Mode
	if mode == "" {
		mode = types.ModeStandard
	}
	form := newForm()
	form.file("resume_file", in.ResumePath)
	form.optional("jd_text", in.JDText)
	if strings.TrimSpace(in.JDPath) != "" {
		form.file("jd_file", in.JDPath)
	}
	form.field("analysis_mode", string(mode))
	form.optional("candidate_name", in.CandidateName)
	form.optional("role_title", in.RoleTitle)

	var result types.AnalysisResult
	if err := c.doForm(ctx, http.MethodPost, "/match/analyze", form, &result, schemas.AnalysisResult); err != nil {
		return nil, err
	}
	return &result, nil
}

// CompareRoles scores one resume against several role profiles in one call.
func (c *Client) CompareRoles(ctx context.Context, in types.CompareInput) (*types.CompareResponse, error) {
	mode := in.Mode
	if mode == "" {
		mode = types.ModeStandard
	}
	ids := in.RoleIDs
	if ids == nil {
		ids = []int64{}
	}
	form := newForm()
	form.file("resume_file", in.ResumePath)
	form.jsonField("role_profile_ids_json", ids)
	if len(in.AdhocJDs) > 0 {
		form.jsonField("adhoc_jds_json", in.AdhocJDs)
	}
	form.field("analysis_mode", string(mode))
	form.optional("candidate_name", in.CandidateName)

	var resp types.CompareResponse
	if err := c.doForm(ctx, http.MethodPost, "/match/compare-roles", form, &resp, schemas.CompareResponse); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListRoles returns every role profile the account owns, in service order.
func (c *Client) ListRoles(ctx context.Context) ([]types.RoleProfile, error) {
	var profiles []types.RoleProfile
	if err := c.doJSON(ctx, http.MethodGet, "/roles", nil, &profiles, schemas.RoleProfiles); err != nil {
		return nil, err
	}
	if profiles == nil {
		profiles = []types.RoleProfile{}
	}
	return profiles, nil
}

// CreateRole submits a new role profile. req is expected to be validated already.
func (c *Client) CreateRole(ctx context.Context, req types.CreateRoleRequest) (*types.RoleProfile, error) {
	form := newForm()
	for name, value := range req.FormFields() {
		form.field(name, value)
	}
	var profile types.RoleProfile
	if err := c.doForm(ctx, http.MethodPost, "/roles", form, &profile, ""); err != nil {
		return nil, err
	}
	return &profile, nil
}

// DeleteRole removes a role profile.
func (c *Client) DeleteRole(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/roles/%d", id), nil, nil, "")
}

// ClampShareDays bounds days into [MinShareDays, MaxShareDays]. Zero means DefaultShareDays.
func ClampShareDays(days int) int {
	if days == 0 {
		return DefaultShareDays
	}
	return max(MinShareDays, min(MaxShareDays, days))
}

// CreateShare creates a read-only link to a stored analysis. ShareURL is made absolute.
func (c *Client) CreateShare(ctx context.Context, analysisID int64, days int) (*types.ShareLink, error) {
	payload := map[string]any{
		"analysis_id":     analysisID,
		"expires_in_days": ClampShareDays(days),
	}
	var link types.ShareLink
	if err := c.doJSON(ctx, http.MethodPost, "/share/create", payload, &link, ""); err != nil {
		return nil, err
	}
	if link.ShareURL == "" {
		return nil, &ResponseError{Path: "/share/create", Cause: fmt.Errorf("no share_url in response")}
	}
	link.ShareURL = c.AbsoluteURL(link.ShareURL)
	return &link, nil
}

// GenerateInterviewKit requests an interview kit for a stored analysis, or for raw when
// the analysis was never stored by the service.
func (c *Client) GenerateInterviewKit(ctx context.Context, analysisID *int64, raw *types.AnalysisResult) (*types.InterviewKit, error) {
	payload := map[string]any{}
	switch {
	case analysisID != nil:
		payload["analysis_result_id"] = *analysisID
	case raw != nil:
		payload["raw_analysis"] = raw
	default:
		return nil, types.Invalid("analysis", "Run an analysis before generating an interview kit.")
	}
	var kit types.InterviewKit
	if err := c.doJSON(ctx, http.MethodPost, "/interview-kit/generate", payload, &kit, ""); err != nil {
		return nil, err
	}
	return &kit, nil
}

// Health probes the service. A nil error means the service answered with 2xx.
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, HealthTimeout)
	defer cancel()
	return c.doJSON(ctx, http.MethodGet, "/api/health", nil, nil, "")
}
