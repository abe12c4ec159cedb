// Package fetch imports a job posting from a URL as plain text.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout bounds a page download.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is sent with every page request.
const DefaultUserAgent = "Mozilla/5.0 (compatible; TalentAlign/1.0)"

// maxPageBytes caps how much of a page is read.
const maxPageBytes = 8 << 20

// Posting is an imported job description.
type Posting struct {
	URL      string
	Platform Platform
	Title    string
	Text     string
	Rendered bool
}

// Error is a failed page import.
type Error struct {
	URL        string
	Message    string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Renderer returns the HTML of a page after client-side scripts have run.
type Renderer func(ctx context.Context, url string, timeout time.Duration) (string, error)

// Options configures an Importer.
type Options struct {
	Timeout    time.Duration
	UserAgent  string
	UseBrowser bool
	Renderer   Renderer
	Client     *http.Client
	Logger     *slog.Logger
}

// Importer downloads postings and extracts their description text.
type Importer struct {
	opts Options
}

// NewImporter fills unset options with defaults.
func NewImporter(opts Options) *Importer {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Renderer == nil {
		opts.Renderer = RenderWithBrowser
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Importer{opts: opts}
}

// Import fetches rawURL and returns its description text. When the static page yields too
// little text and UseBrowser is set, the page is rendered headlessly and extracted again.
func (im *Importer) Import(ctx context.Context, rawURL string) (*Posting, error) {
	rawURL = strings.TrimSpace(rawURL)
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, &Error{URL: rawURL, Message: "invalid URL", Cause: err}
	}

	platform := DetectPlatform(rawURL)
	html, err := im.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	posting, err := extractPosting(html, platform)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to parse page", Cause: err}
	}
	posting.URL = rawURL

	if NeedsBrowser(posting.Text) && im.opts.UseBrowser {
		im.opts.Logger.Info("page text is short, rendering in browser", "url", rawURL, "chars", len(posting.Text))
		rendered, err := im.opts.Renderer(ctx, rawURL, im.opts.Timeout)
		if err != nil {
			return nil, &Error{URL: rawURL, Message: "browser rendering failed", Cause: err}
		}
		renderedPosting, err := extractPosting(rendered, platform)
		if err != nil {
			return nil, &Error{URL: rawURL, Message: "failed to parse rendered page", Cause: err}
		}
		renderedPosting.URL = rawURL
		renderedPosting.Rendered = true
		posting = renderedPosting
	}

	if posting.Text == "" {
		return nil, &Error{URL: rawURL, Message: "no job description text found"}
	}
	im.opts.Logger.Debug("imported job posting", "url", rawURL, "platform", platform, "chars", len(posting.Text))
	return posting, nil
}

func (im *Importer) get(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &Error{URL: rawURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", im.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := im.opts.Client.Do(req)
	if err != nil {
		return "", &Error{URL: rawURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &Error{URL: rawURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode), StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", &Error{URL: rawURL, Message: "failed to read response body", Cause: err}
	}
	return string(body), nil
}

func extractPosting(html string, platform Platform) (*Posting, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	title := cleanWhitespace(doc.Find("h1").First().Text())
	if title == "" {
		title = cleanWhitespace(doc.Find("title").First().Text())
	}
	text := mainText(doc, platform.ContentSelectors(), platform.NoiseSelectors())
	return &Posting{Platform: platform, Title: title, Text: text}, nil
}

// ExtractMainText returns the description text of a job posting page.
func ExtractMainText(html string, platform Platform) (string, error) {
	p, err := extractPosting(html, platform)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	return p.Text, nil
}

// mainText strips page chrome and noise, then returns the text of the first matching
// content selector, falling back to the body.
func mainText(doc *goquery.Document, contentSelectors, noiseSelectors []string) string {
	doc.Find("nav, footer, header, script, style, noscript, .ad, .advertisement, .ads, .sidebar, .cookie-banner, .popup").Remove()
	if len(noiseSelectors) > 0 {
		doc.Find(strings.Join(noiseSelectors, ", ")).Remove()
	}

	content := doc.Find("body")
	for _, selector := range contentSelectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			content = selection.First()
			break
		}
	}
	return cleanWhitespace(content.Text())
}

// cleanWhitespace trims every line and drops blank ones.
func cleanWhitespace(text string) string {
	var cleaned []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
