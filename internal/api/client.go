// Package api is the HTTP client for the remote resume analysis service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonathan/talentalign/internal/schemas"
)

const (
	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL = "http://127.0.0.1:8000"
	// DefaultTimeout bounds every call.
	DefaultTimeout = 20 * time.Second

	// EnvBaseURL and EnvBaseURLFallback are read by ResolveBaseURL, in that order.
	EnvBaseURL         = "TALENTALIGN_API_URL"
	EnvBaseURLFallback = "TALENTALIGN_API_BASE_URL"

	maxResponseBytes = 16 << 20
)

// TokenSource supplies the credential token attached to each request.
type TokenSource interface {
	Token(ctx context.Context) string
}

// StaticToken is a fixed token, mostly for tests.
type StaticToken string

// Token returns the token.
func (s StaticToken) Token(context.Context) string { return string(s) }

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	Tokens     TokenSource
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client calls the analysis service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *slog.Logger
}

// ResolveBaseURL picks explicit, then the environment, then DefaultBaseURL.
// Trailing slashes are removed.
func ResolveBaseURL(explicit string) string {
	for _, candidate := range []string{explicit, os.Getenv(EnvBaseURL), os.Getenv(EnvBaseURLFallback)} {
		if c := strings.TrimRight(strings.TrimSpace(candidate), "/"); c != "" {
			return c
		}
	}
	return DefaultBaseURL
}

// NewClient constructs a service client.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	tokens := opts.Tokens
	if tokens == nil {
		tokens = StaticToken("")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    ResolveBaseURL(opts.BaseURL),
		httpClient: hc,
		tokens:     tokens,
		logger:     logger,
	}
}

// BaseURL returns the resolved base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// AbsoluteURL joins a service-relative path onto the base URL. Absolute URLs are returned unchanged.
func (c *Client) AbsoluteURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// request is one outbound call.
type request struct {
	method      string
	path        string
	body        io.Reader
	contentType string
	schema      string
	out         any
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload, out any, schema string) error {
	r := request{method: method, path: path, out: out, schema: schema}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		r.body = bytes.NewReader(data)
		r.contentType = "application/json"
	}
	return c.do(ctx, r)
}

func (c *Client) doForm(ctx context.Context, method, path string, form *formBuilder, out any, schema string) error {
	body, contentType, err := form.finish()
	if err != nil {
		return err
	}
	return c.do(ctx, request{method: method, path: path, body: body, contentType: contentType, out: out, schema: schema})
}

func (c *Client) do(ctx context.Context, r request) error {
	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, r.body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	req.Header.Set("Accept", "application/json")
	if token := c.tokens.Token(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", r.method, "path", r.path, "error", err)
		return &TransportError{Path: r.path, Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &TransportError{Path: r.path, Cause: err}
	}
	c.logger.Debug("request complete",
		"method", r.method, "path", r.path, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode >= 400 {
		return &APIError{Status: resp.StatusCode, Detail: parseDetail(body), Path: r.path}
	}
	if r.out == nil {
		return nil
	}
	if r.schema != "" {
		if err := schemas.Validate(r.schema, body); err != nil {
			return &ResponseError{Path: r.path, Cause: err}
		}
	}
	if err := json.Unmarshal(body, r.out); err != nil {
		return &ResponseError{Path: r.path, Cause: err}
	}
	return nil
}

// formBuilder accumulates a multipart body. The first error sticks.
type formBuilder struct {
	buf bytes.Buffer
	w   *multipart.Writer
	err error
}

func newForm() *formBuilder {
	f := &formBuilder{}
	f.w = multipart.NewWriter(&f.buf)
	return f
}

func (f *formBuilder) field(name, value string) {
	if f.err != nil {
		return
	}
	f.err = f.w.WriteField(name, value)
}

// optional writes the field only when value is not blank.
func (f *formBuilder) optional(name, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	f.field(name, strings.TrimSpace(value))
}

func (f *formBuilder) jsonField(name string, v any) {
	if f.err != nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		f.err = fmt.Errorf("failed to encode %s: %w", name, err)
		return
	}
	f.field(name, string(data))
}

func (f *formBuilder) file(name, path string) {
	if f.err != nil {
		return
	}
	src, err := os.Open(path)
	if err != nil {
		f.err = fmt.Errorf("failed to open %s: %w", path, err)
		return
	}
	defer src.Close()

	part, err := f.w.CreateFormFile(name, filepath.Base(path))
	if err != nil {
		f.err = err
		return
	}
	if _, err := io.Copy(part, src); err != nil {
		f.err = fmt.Errorf("failed to read %s: %w", path, err)
	}
}

func (f *formBuilder) finish() (io.Reader, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	if err := f.w.Close(); err != nil {
		return nil, "", err
	}
	return &f.buf, f.w.FormDataContentType(), nil
}
