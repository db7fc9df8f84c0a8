package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/israelb-ITVarsity/Secrets-App/internal/auth"
	"github.com/israelb-ITVarsity/Secrets-App/internal/auth/credentials"
	"github.com/israelb-ITVarsity/Secrets-App/internal/auth/provider"
	"github.com/israelb-ITVarsity/Secrets-App/internal/auth/resolver"
	"github.com/israelb-ITVarsity/Secrets-App/internal/session"
	"github.com/israelb-ITVarsity/Secrets-App/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeSessionStore struct {
	sessions map[string]session.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]session.Session)}
}

func (f *fakeSessionStore) Create(ctx context.Context, s session.Session) error {
	f.sessions[s.SessionID] = s
	return nil
}

func (f *fakeSessionStore) Get(ctx context.Context, sessionID string) (*session.Session, error) {
	s, ok := f.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (f *fakeSessionStore) Delete(ctx context.Context, sessionID string) error {
	delete(f.sessions, sessionID)
	return nil
}

// fakeProvider skips the real OIDC handshake and returns a fixed identity.
type fakeProvider struct {
	identity *auth.Identity
}

func (f *fakeProvider) Name() string { return "google" }

func (f *fakeProvider) AuthCodeURL(state, codeChallenge string) string {
	return "https://example.com/auth?state=" + state
}

func (f *fakeProvider) ExchangeCode(ctx context.Context, code, codeVerifier string) (*auth.Identity, error) {
	return f.identity, nil
}

type failingResolver struct{}

func (failingResolver) Resolve(ctx context.Context, identity *auth.Identity) (*store.User, error) {
	return nil, resolver.ErrIdentityResolution
}

type testEnv struct {
	router   *gin.Engine
	sessions *fakeSessionStore
	users    *store.Memory
}

func newTestEnv(t *testing.T, reg *provider.Registry, res resolver.Resolver) *testEnv {
	t.Helper()

	users := store.NewMemory()
	sessions := newFakeSessionStore()

	if res == nil {
		res = resolver.NewDBResolver(users)
	}
	if reg == nil {
		reg = provider.NewRegistry()
	}

	h := NewHandler(
		credentials.NewService(users),
		reg,
		sessions,
		res,
		24*time.Hour,
	)

	router := gin.New()
	h.RegisterRoutes(router)

	return &testEnv{router: router, sessions: sessions, users: users}
}

func postForm(env *testEnv, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	res := rec.Result()
	for _, c := range res.Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

func TestRegisterEstablishesSession(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	rec := postForm(env, "/register", url.Values{
		"username": {"a@x.com"},
		"password": {"password1"},
	})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/secrets" {
		t.Fatalf("expected redirect to /secrets, got %q", loc)
	}

	cookie := sessionCookie(rec)
	if cookie == nil || cookie.Value == "" {
		t.Fatal("expected session cookie")
	}
	if _, ok := env.sessions.sessions[cookie.Value]; !ok {
		t.Fatal("cookie does not reference a stored session")
	}
}

func TestRegisterConflictRedirectsWithError(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	form := url.Values{
		"username": {"a@x.com"},
		"password": {"password1"},
	}

	if rec := postForm(env, "/register", form); rec.Code != http.StatusSeeOther {
		t.Fatalf("first registration failed: %d", rec.Code)
	}

	rec := postForm(env, "/register", form)
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?error=account_exists" {
		t.Fatalf("expected conflict redirect, got %q", loc)
	}
	if env.users.Len() != 1 {
		t.Fatalf("expected 1 record, got %d", env.users.Len())
	}
	if sessionCookie(rec) != nil {
		t.Fatal("conflict must not establish a session")
	}
}

func TestLoginSuccess(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	postForm(env, "/register", url.Values{
		"username": {"a@x.com"},
		"password": {"password1"},
	})

	rec := postForm(env, "/login", url.Values{
		"username": {"a@x.com"},
		"password": {"password1"},
	})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/secrets" {
		t.Fatalf("expected redirect to /secrets, got %q", loc)
	}
	if sessionCookie(rec) == nil {
		t.Fatal("expected session cookie")
	}
}

func TestLoginFailureRedirectsUniformly(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	postForm(env, "/register", url.Values{
		"username": {"a@x.com"},
		"password": {"password1"},
	})
	before := len(env.sessions.sessions)

	for _, form := range []url.Values{
		{"username": {"a@x.com"}, "password": {"wrong"}},
		{"username": {"nobody@x.com"}, "password": {"password1"}},
	} {
		rec := postForm(env, "/login", form)
		if rec.Code != http.StatusFound {
			t.Fatalf("expected 302, got %d", rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "/login" {
			t.Fatalf("expected redirect to /login, got %q", loc)
		}
		if sessionCookie(rec) != nil {
			t.Fatal("failed login must not establish a session")
		}
	}

	if len(env.sessions.sessions) != before {
		t.Fatal("failed logins created sessions")
	}
}

func TestLogoutDeletesSessionAndClearsCookie(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	rec := postForm(env, "/register", url.Values{
		"username": {"a@x.com"},
		"password": {"password1"},
	})
	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatal("expected session cookie from registration")
	}

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: cookie.Value})
	out := httptest.NewRecorder()
	env.router.ServeHTTP(out, req)

	if out.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", out.Code)
	}
	if loc := out.Header().Get("Location"); loc != "/" {
		t.Fatalf("expected redirect to /, got %q", loc)
	}
	if _, ok := env.sessions.sessions[cookie.Value]; ok {
		t.Fatal("session not deleted")
	}

	cleared := sessionCookie(out)
	if cleared == nil || cleared.Value != "" || cleared.MaxAge != -1 {
		t.Fatalf("expected clearing cookie, got %+v", cleared)
	}
}

func TestOAuthLoginUnknownProvider(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/auth/unknown", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %q", loc)
	}
}

func callbackRequest() *http.Request {
	req := httptest.NewRequest(
		http.MethodGet,
		"/auth/google/callback?state=abc&code=xyz",
		nil,
	)
	req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "abc"})
	req.AddCookie(&http.Cookie{Name: pkceCookieName, Value: "verifier"})
	return req
}

func TestOAuthCallbackEstablishesSession(t *testing.T) {
	reg := provider.NewRegistry(&fakeProvider{
		identity: &auth.Identity{Provider: "google", ProviderUserID: "sub-1", Email: "b@x.com"},
	})
	env := newTestEnv(t, reg, nil)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, callbackRequest())

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/secrets" {
		t.Fatalf("expected redirect to /secrets, got %q", loc)
	}
	if sessionCookie(rec) == nil {
		t.Fatal("expected session cookie")
	}
	if env.users.Len() != 1 {
		t.Fatalf("expected federated record created, got %d records", env.users.Len())
	}
}

func TestOAuthCallbackStateMismatch(t *testing.T) {
	reg := provider.NewRegistry(&fakeProvider{
		identity: &auth.Identity{Provider: "google", Email: "b@x.com"},
	})
	env := newTestEnv(t, reg, nil)

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=evil&code=xyz", nil)
	req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "abc"})

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login" {
		t.Fatalf("expected /login redirect, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if len(env.sessions.sessions) != 0 {
		t.Fatal("state mismatch must not establish a session")
	}
}

func TestOAuthCallbackResolutionFailureHasNoSession(t *testing.T) {
	reg := provider.NewRegistry(&fakeProvider{
		identity: &auth.Identity{Provider: "google", Email: "b@x.com"},
	})
	env := newTestEnv(t, reg, failingResolver{})

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, callbackRequest())

	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login" {
		t.Fatalf("expected /login redirect, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if len(env.sessions.sessions) != 0 {
		t.Fatal("resolution failure must not establish a session")
	}
	if sessionCookie(rec) != nil {
		t.Fatal("resolution failure must not set a cookie")
	}
}
