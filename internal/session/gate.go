// Package session decides whether the caller holds a credential and routes to login otherwise.
//
// Presence of a token is the only check. Expiry and signature problems surface later as
// rejected calls, and the caller then drops the token and sends the user back to login.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jonathan/talentalign/internal/kvstore"
)

// View names a navigable screen.
type View string

// Views of the client.
const (
	ViewLogin     View = "login"
	ViewDashboard View = "dashboard"
	ViewResult    View = "result"
	ViewHistory   View = "history"
	ViewRoles     View = "roles"
	ViewCompare   View = "compare"
)

// LoginPath is where the HTTP middleware sends unauthenticated requests.
const LoginPath = "/login"

// ErrLoginRequired is matched by errors.Is on every redirect decision.
var ErrLoginRequired = errors.New("login required")

// RedirectError reports that navigation to View was diverted to the login view.
type RedirectError struct {
	View View
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("%s requires login", e.View)
}

// Is lets errors.Is(err, ErrLoginRequired) match.
func (e *RedirectError) Is(target error) bool {
	return target == ErrLoginRequired
}

// Gate reads the credential token from the persisted store.
type Gate struct {
	store  kvstore.Store
	logger *slog.Logger
}

// NewGate returns a gate over store.
func NewGate(store kvstore.Store, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{store: store, logger: logger}
}

// Token returns the stored token, or "" when absent. Store failures read as absent.
func (g *Gate) Token(ctx context.Context) string {
	tok, ok, err := g.store.Get(ctx, kvstore.KeyToken)
	if err != nil {
		g.logger.Warn("failed to read credential token", "error", err)
		return ""
	}
	if !ok {
		return ""
	}
	return strings.TrimSpace(tok)
}

// IsAuthenticated reports whether a token is present.
func (g *Gate) IsAuthenticated(ctx context.Context) bool {
	return g.Token(ctx) != ""
}

// Guard returns view when authenticated. Otherwise it returns ViewLogin and a *RedirectError.
func (g *Gate) Guard(ctx context.Context, view View) (View, error) {
	if g.IsAuthenticated(ctx) {
		return view, nil
	}
	return ViewLogin, &RedirectError{View: view}
}

// SaveToken stores a freshly issued token.
func (g *Gate) SaveToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("auth service returned an empty token")
	}
	if err := g.store.Set(ctx, kvstore.KeyToken, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// Logout removes the token. History and relay slot are kept.
func (g *Gate) Logout(ctx context.Context) error {
	if err := g.store.Remove(ctx, kvstore.KeyToken); err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}

// Invalidate drops a token the backend rejected.
func (g *Gate) Invalidate(ctx context.Context) {
	g.logger.Info("session rejected by service, clearing token")
	if err := g.Logout(ctx); err != nil {
		g.logger.Warn("failed to clear rejected token", "error", err)
	}
}

// Claims is what the client can read from a token without verifying it.
type Claims struct {
	Subject   string
	ExpiresAt *time.Time
}

// Peek decodes the stored token's claims without checking its signature.
// It is for display only and never affects gating.
func (g *Gate) Peek(ctx context.Context) (*Claims, error) {
	tok := g.Token(ctx)
	if tok == "" {
		return nil, &RedirectError{View: ViewDashboard}
	}

	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, mc); err != nil {
		return nil, fmt.Errorf("token is not a readable JWT: %w", err)
	}

	claims := &Claims{}
	if sub, err := mc.GetSubject(); err == nil {
		claims.Subject = sub
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		claims.ExpiresAt = &t
	}
	return claims, nil
}

// Middleware redirects requests without a token to LoginPath with 303 See Other.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.IsAuthenticated(r.Context()) {
			target := LoginPath + "?next=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
