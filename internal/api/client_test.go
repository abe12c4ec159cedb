package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/talentalign/internal/types"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Options{BaseURL: srv.URL + "/", Tokens: StaticToken("tok-123")}), srv
}

func TestResolveBaseURL(t *testing.T) {
	t.Setenv(EnvBaseURL, "")
	t.Setenv(EnvBaseURLFallback, "")
	assert.Equal(t, DefaultBaseURL, ResolveBaseURL(""))

	t.Setenv(EnvBaseURLFallback, "http://fallback:9000/")
	assert.Equal(t, "http://fallback:9000", ResolveBaseURL(""))

	t.Setenv(EnvBaseURL, "http://env:8000//")
	assert.Equal(t, "http://env:8000", ResolveBaseURL(""))

	assert.Equal(t, "https://explicit.example", ResolveBaseURL(" https://explicit.example/ "))
}

func TestAbsoluteURL(t *testing.T) {
	c := NewClient(Options{BaseURL: "http://svc:8000/"})
	assert.Equal(t, "http://svc:8000/share/abc", c.AbsoluteURL("/share/abc"))
	assert.Equal(t, "http://svc:8000/share/abc", c.AbsoluteURL("share/abc"))
	assert.Equal(t, "https://x/y", c.AbsoluteURL("https://x/y"))
}

func TestAnalyze_SendsMultipartAndBearer(t *testing.T) {
	resume := writeFile(t, "r.pdf", "%PDF-1.4 fake")

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/match/analyze", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Go engineer", r.FormValue("jd_text"))
		assert.Equal(t, "standard", r.FormValue("analysis_mode"))
		assert.Equal(t, "Ada", r.FormValue("candidate_name"))
		_, hasRole := r.MultipartForm.Value["role_title"]
		assert.False(t, hasRole, "blank optional fields are omitted")

		file, header, err := r.FormFile("resume_file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "r.pdf", header.Filename)

		_, _ = w.Write([]byte(`{"score": 78, "confidence": 0.82, "analysis_id": 5,
			"overlapping_skills": ["Go"], "missing_skills": ["Kubernetes"],
			"score_explanation": "semantic"}`))
	})

	result, err := c.Analyze(context.Background(), types.AnalyzeInput{
		ResumePath: resume, JDText: "Go engineer", CandidateName: " Ada ",
	})
	require.NoError(t, err)
	assert.Equal(t, 78.0, result.Score)
	require.NotNil(t, result.AnalysisID)
	assert.Equal(t, int64(5), *result.AnalysisID)
	assert.Equal(t, "semantic", result.ExtraString("score_explanation"))
}

func TestAnalyze_MissingFile(t *testing.T) {
	var calls int32
	c, _ := newTestClient(t, func(http.ResponseWriter, *http.Request) { atomic.AddInt32(&calls, 1) })

	_, err := c.Analyze(context.Background(), types.AnalyzeInput{ResumePath: "/does/not/exist.pdf", JDText: "x"})
	require.Error(t, err)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestAnalyze_SchemaMismatch(t *testing.T) {
	resume := writeFile(t, "r.pdf", "x")
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"score": "seventy"}`))
	})

	_, err := c.Analyze(context.Background(), types.AnalyzeInput{ResumePath: resume, JDText: "x"})
	var respErr *ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, "fallback", Message(err, "fallback"))
}

func TestCompareRoles_EncodesIDs(t *testing.T) {
	resume := writeFile(t, "r.docx", "x")
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/match/compare-roles", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.JSONEq(t, `[1,2,3]`, r.FormValue("role_profile_ids_json"))
		assert.Equal(t, "strict", r.FormValue("analysis_mode"))
		_, hasAdhoc := r.MultipartForm.Value["adhoc_jds_json"]
		assert.False(t, hasAdhoc)

		_, _ = w.Write([]byte(`{"ranked": [
			{"role_id": 2, "role_title": "Platform", "score": 91, "confidence": 0.9, "strengths": [], "missing_skills_top5": [], "summary": ""},
			{"role_id": 1, "role_title": "Backend", "score": 74, "confidence": 0.8, "strengths": [], "missing_skills_top5": [], "summary": ""},
			{"role_id": 3, "role_title": "Data", "score": 60, "confidence": 0.7, "strengths": [], "missing_skills_top5": [], "summary": ""}
		]}`))
	})

	resp, err := c.CompareRoles(context.Background(), types.CompareInput{
		ResumePath: resume, RoleIDs: []int64{1, 2, 3}, Mode: types.ModeStrict,
	})
	require.NoError(t, err)
	require.Len(t, resp.Ranked, 3)
	assert.Equal(t, "Platform", resp.Ranked[0].RoleTitle)
	assert.Equal(t, int64(3), *resp.Ranked[2].RoleID)
}

func TestListRoles_ZoneLessTimestamps(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`[{"id": 4, "title": "SRE", "jd_text": "ops",
			"created_at": "2025-05-01T10:00:00", "updated_at": "2025-05-02T11:30:00.123456"}]`))
	})

	profiles, err := c.ListRoles(context.Background())
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, 2, profiles[0].UpdatedAt.Day())
	assert.Equal(t, time.UTC, profiles[0].UpdatedAt.Location())
}

func TestCreateRole_OmitsEmptyOptionals(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "SRE", r.FormValue("title"))
		assert.Equal(t, "Senior", r.FormValue("level"))
		_, hasDept := r.MultipartForm.Value["department"]
		assert.False(t, hasDept)
		_, _ = w.Write([]byte(`{"id": 9, "title": "SRE", "jd_text": "ops"}`))
	})

	req := types.CreateRoleRequest{Title: "SRE", JDText: "ops", Level: "Senior"}
	require.NoError(t, req.Validate())
	p, err := c.CreateRole(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(9), p.ID)
}

func TestDeleteRole(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/roles/7", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})
	assert.NoError(t, c.DeleteRole(context.Background(), 7))
}

func TestAPIError_DetailVerbatim(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail": "Unsupported resume format"}`))
	})

	err := c.DeleteRole(context.Background(), 1)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Unsupported resume format", Message(err, "Analysis failed."))
	assert.False(t, IsUnauthorized(err))
}

func TestAPIError_ListDetail(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail": [{"loc": ["body", "email"], "msg": "value is not a valid email"}]}`))
	})

	err := c.DeleteRole(context.Background(), 1)
	assert.Equal(t, "email: value is not a valid email", Message(err, "x"))
}

func TestAPIError_NoDetailUsesFallback(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<html>oops</html>`))
	})

	err := c.DeleteRole(context.Background(), 1)
	assert.Equal(t, "Failed to delete role.", Message(err, "Failed to delete role."))
}

func TestIsUnauthorized(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
		})
		_, err := c.Me(context.Background())
		assert.True(t, IsUnauthorized(err), "status %d", status)
	}
	assert.False(t, IsUnauthorized(errors.New("plain")))
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(Options{BaseURL: url})
	err := c.Health(context.Background())
	var tErr *TransportError
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, MsgUnreachable, Message(err, "x"))
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(Options{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.Me(context.Background())
	var tErr *TransportError
	require.ErrorAs(t, err, &tErr)
	assert.True(t, tErr.Timeout())
}

func TestLogin(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ada@example.com", body["email"])
		_, _ = w.Write([]byte(`{"access_token": "jwt", "token_type": "bearer"}`))
	})

	resp, err := c.Login(context.Background(), types.Credentials{Email: " Ada@Example.com ", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "jwt", resp.AccessToken)
}

func TestLogin_ValidationBeforeRequest(t *testing.T) {
	var calls int32
	c, _ := newTestClient(t, func(http.ResponseWriter, *http.Request) { atomic.AddInt32(&calls, 1) })

	_, err := c.Login(context.Background(), types.Credentials{Email: "not-an-email", Password: "pw"})
	var vErr *types.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Zero(t, atomic.LoadInt32(&calls))

	_, err = c.Register(context.Background(), types.RegisterRequest{Email: "a@b.co", Password: "short"})
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Message, "8")
}

func TestCreateShare_ClampsAndAbsolutizes(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.EqualValues(t, 30, body["expires_in_days"])
		assert.EqualValues(t, 12, body["analysis_id"])
		_, _ = w.Write([]byte(`{"share_url": "/share/abc"}`))
	})

	link, err := c.CreateShare(context.Background(), 12, 90)
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/share/abc", link.ShareURL)
}

func TestClampShareDays(t *testing.T) {
	assert.Equal(t, DefaultShareDays, ClampShareDays(0))
	assert.Equal(t, 1, ClampShareDays(-4))
	assert.Equal(t, 30, ClampShareDays(31))
	assert.Equal(t, 14, ClampShareDays(14))
}

func TestGenerateInterviewKit(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if _, ok := body["analysis_result_id"]; ok {
			assert.NotContains(t, body, "raw_analysis")
		} else {
			assert.Contains(t, string(body["raw_analysis"]), `"score":40`)
		}
		_, _ = w.Write([]byte(`{"id": 3, "content": {"questions": ["Why Go?"]}}`))
	})

	id := int64(8)
	kit, err := c.GenerateInterviewKit(context.Background(), &id, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), kit.ID)

	_, err = c.GenerateInterviewKit(context.Background(), nil, &types.AnalysisResult{Score: 40})
	require.NoError(t, err)

	_, err = c.GenerateInterviewKit(context.Background(), nil, nil)
	var vErr *types.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(nil, "x"))
	assert.Equal(t, "Role title is required.", Message(types.Invalid("title", "Role title is required."), "x"))
	assert.Equal(t, "fallback", Message(errors.New("boom"), "fallback"))
	assert.Equal(t, "boom", Message(errors.New("boom"), ""))
	assert.True(t, strings.HasPrefix(Message(&TransportError{Path: "/", Cause: errors.New("x")}, ""), "Cannot reach"))
}
