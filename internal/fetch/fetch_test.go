package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func longText(n int) string {
	return strings.Repeat("Build reliable Go services. ", n)
}

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestImport_StaticPage(t *testing.T) {
	srv := serve(t, http.StatusOK, `<html><head><title>Jobs</title></head><body>
		<nav>Navigation</nav>
		<h1>Senior Go Engineer</h1>
		<div class="job-description"><h2>Requirements</h2><p>`+longText(30)+`</p></div>
		<form>Apply now</form>
		<footer>Footer</footer></body></html>`)

	p, err := NewImporter(Options{}).Import(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Senior Go Engineer", p.Title)
	assert.Contains(t, p.Text, "Requirements")
	assert.NotContains(t, p.Text, "Navigation")
	assert.NotContains(t, p.Text, "Apply now")
	assert.False(t, p.Rendered)
	assert.Equal(t, PlatformUnknown, p.Platform)
}

func TestImport_ShortPageUsesBrowserWhenEnabled(t *testing.T) {
	srv := serve(t, http.StatusOK, `<html><body><div id="root"></div><main>Loading</main></body></html>`)

	var rendered int
	renderer := func(_ context.Context, url string, _ time.Duration) (string, error) {
		rendered++
		return `<html><body><main>` + longText(30) + `</main></body></html>`, nil
	}

	p, err := NewImporter(Options{Renderer: renderer}).Import(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Loading", p.Text)
	assert.Zero(t, rendered)

	p, err = NewImporter(Options{Renderer: renderer, UseBrowser: true}).Import(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.True(t, p.Rendered)
	assert.Equal(t, 1, rendered)
	assert.Contains(t, p.Text, "reliable Go services")
}

func TestImport_RendererFailure(t *testing.T) {
	srv := serve(t, http.StatusOK, `<html><body></body></html>`)
	renderer := func(context.Context, string, time.Duration) (string, error) {
		return "", errors.New("chrome not installed")
	}

	_, err := NewImporter(Options{Renderer: renderer, UseBrowser: true}).Import(context.Background(), srv.URL)
	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "chrome not installed")
}

func TestImport_EmptyPage(t *testing.T) {
	srv := serve(t, http.StatusOK, `<html><body><nav>only nav</nav></body></html>`)
	_, err := NewImporter(Options{}).Import(context.Background(), srv.URL)
	assert.ErrorContains(t, err, "no job description text found")
}

func TestImport_InvalidURL(t *testing.T) {
	for _, u := range []string{"not-a-valid-url", "ftp://example.com/x", ""} {
		_, err := NewImporter(Options{}).Import(context.Background(), u)
		var fetchErr *Error
		require.ErrorAs(t, err, &fetchErr, u)
		assert.Contains(t, err.Error(), "invalid URL")
	}
}

func TestImport_HTTPError(t *testing.T) {
	srv := serve(t, http.StatusNotFound, "gone")
	_, err := NewImporter(Options{}).Import(context.Background(), srv.URL)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.Contains(t, err.Error(), "404")
}

func TestExtractMainText_PlatformSelectors(t *testing.T) {
	html := `<html><body>
		<div class="job__description body"><p>Greenhouse body</p></div>
		<div class="application--wrapper">Apply here</div>
	</body></html>`

	text, err := ExtractMainText(html, PlatformGreenhouse)
	require.NoError(t, err)
	assert.Equal(t, "Greenhouse body", text)
}

func TestExtractMainText_FallbackToBody(t *testing.T) {
	text, err := ExtractMainText(`<html><body><div>Some content here.</div></body></html>`, PlatformUnknown)
	require.NoError(t, err)
	assert.Equal(t, "Some content here.", text)
}

func TestNeedsBrowser(t *testing.T) {
	assert.True(t, NeedsBrowser("  short  "))
	assert.False(t, NeedsBrowser(strings.Repeat("x", MinContentLength)))
}
