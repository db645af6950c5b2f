package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytcat/internal/shared"
	th "github.com/desertthunder/ytcat/internal/testing"
	"golang.org/x/oauth2"
)

// tokenServer issues a fixed token for any exchange or refresh.
func tokenServer(t *testing.T, accessToken string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token":%q,"token_type":"Bearer","refresh_token":"refresh","expires_in":3600}`, accessToken)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(tokenURL, redirect string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  redirect,
		Endpoint: oauth2.Endpoint{
			AuthURL:   "https://accounts.example.com/auth",
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

func TestBasicRouter(t *testing.T) {
	t.Run("method filtering", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle("get", "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, "pong")
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
			t.Errorf("GET /ping = %d %q", rec.Code, rec.Body.String())
		}

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("POST /ping = %d, want 405", rec.Code)
		}
	})

	t.Run("middleware order", func(t *testing.T) {
		var order []string
		tag := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(tag("outer"), tag("inner"))
		router.Handle(http.MethodGet, "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		}))
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		if got := strings.Join(order, ","); got != "outer,inner,handler" {
			t.Errorf("unexpected order %s", got)
		}
	})

	t.Run("logging keeps the status", func(t *testing.T) {
		var buf strings.Builder
		logger := shared.NewLogger(&buf)
		shared.SetLogLevel(logger, log.DebugLevel)

		router := NewBasicRouter()
		router.Use(Logging(logger))
		router.Handle(http.MethodGet, "/gone", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusGone)
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/gone?code=secret", nil))
		if rec.Code != http.StatusGone {
			t.Errorf("expected 410, got %d", rec.Code)
		}
		if out := buf.String(); !strings.Contains(out, "410") || strings.Contains(out, "secret") {
			t.Errorf("unexpected log output %q", out)
		}
	})
}

func TestOAuthHandler(t *testing.T) {
	tokens := tokenServer(t, "access-1")

	t.Run("routes follow the redirect path", func(t *testing.T) {
		h := NewOAuthHandler(testConfig(tokens.URL, "http://localhost:3000/oauth2/callback"), "state")
		if routes := h.Routes(); len(routes) != 1 || routes[0] != "/oauth2/callback" {
			t.Errorf("unexpected routes %v", routes)
		}

		h = NewOAuthHandler(testConfig(tokens.URL, "http://localhost:3000"), "state")
		if routes := h.Routes(); routes[0] != "/callback" {
			t.Errorf("expected default route, got %v", routes)
		}
	})

	t.Run("consent url requests offline access", func(t *testing.T) {
		h := NewOAuthHandler(testConfig(tokens.URL, "http://localhost:3000/callback"), "xyz")
		u, err := url.Parse(h.AuthCodeURL())
		if err != nil {
			t.Fatalf("bad url: %v", err)
		}
		q := u.Query()
		if q.Get("state") != "xyz" || q.Get("access_type") != "offline" || q.Get("prompt") != "consent" {
			t.Errorf("unexpected query %v", q)
		}
	})

	t.Run("exchanges code", func(t *testing.T) {
		h := NewOAuthHandler(testConfig(tokens.URL, "http://localhost:3000/callback"), "xyz")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=xyz&code=abc", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		result := <-h.Result()
		if result.Error() != nil {
			t.Fatalf("unexpected error: %v", result.Error())
		}
		if result.Token.AccessToken != "access-1" {
			t.Errorf("unexpected token %+v", result.Token)
		}

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=xyz&code=abc", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("second callback should be rejected, got %d", rec.Code)
		}
	})

	t.Run("rejects bad state", func(t *testing.T) {
		h := NewOAuthHandler(testConfig(tokens.URL, "http://localhost:3000/callback"), "xyz")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=nope&code=abc", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		if result := <-h.Result(); !errors.Is(result.Error(), shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", result.Error())
		}
	})

	t.Run("reports consent errors", func(t *testing.T) {
		h := NewOAuthHandler(testConfig(tokens.URL, "http://localhost:3000/callback"), "xyz")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=xyz&error=access_denied", nil))
		result := <-h.Result()
		if !errors.Is(result.Error(), shared.ErrAuthFailed) || !strings.Contains(result.Error().Error(), "access_denied") {
			t.Errorf("unexpected error %v", result.Error())
		}
	})
}

func TestNewGoogleOAuthConfig(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg, err := NewGoogleOAuthConfig(shared.OAuthConfig{
			ClientID:     "id",
			ClientSecret: "secret",
			RedirectURI:  "http://localhost:3000/callback",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(cfg.Endpoint.AuthURL, "accounts.google.com") {
			t.Errorf("unexpected endpoint %+v", cfg.Endpoint)
		}
		if len(cfg.Scopes) != 1 || !strings.HasSuffix(cfg.Scopes[0], "/auth/youtube") {
			t.Errorf("unexpected scopes %v", cfg.Scopes)
		}
	})

	t.Run("missing credentials", func(t *testing.T) {
		_, err := NewGoogleOAuthConfig(shared.OAuthConfig{RedirectURI: "http://localhost"})
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("missing redirect", func(t *testing.T) {
		_, err := NewGoogleOAuthConfig(shared.OAuthConfig{ClientID: "id", ClientSecret: "secret"})
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestTokens(t *testing.T) {
	t.Run("save and load", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "token.json")
		token := &oauth2.Token{AccessToken: "a", RefreshToken: "r", Expiry: time.Now().Add(time.Hour)}

		if err := SaveToken(path, token); err != nil {
			t.Fatalf("SaveToken failed: %v", err)
		}
		th.AssertFileExists(t, path)

		loaded, err := LoadToken(path)
		if err != nil {
			t.Fatalf("LoadToken failed: %v", err)
		}
		if loaded.AccessToken != "a" || loaded.RefreshToken != "r" {
			t.Errorf("unexpected token %+v", loaded)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadToken(filepath.Join(t.TempDir(), "none.json"))
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("valid token is used as is", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "token.json")
		SaveToken(path, &oauth2.Token{AccessToken: "still-good", Expiry: time.Now().Add(time.Hour)})

		got, err := AccessToken(context.Background(), nil, path)
		if err != nil || got != "still-good" {
			t.Errorf("AccessToken = %q, %v", got, err)
		}
	})

	t.Run("expired token is refreshed and saved", func(t *testing.T) {
		tokens := tokenServer(t, "fresh")
		path := filepath.Join(t.TempDir(), "token.json")
		SaveToken(path, &oauth2.Token{AccessToken: "stale", RefreshToken: "refresh", Expiry: time.Now().Add(-time.Hour)})

		got, err := AccessToken(context.Background(), testConfig(tokens.URL, ""), path)
		if err != nil {
			t.Fatalf("AccessToken failed: %v", err)
		}
		if got != "fresh" {
			t.Errorf("expected refreshed token, got %q", got)
		}
		if saved, _ := LoadToken(path); saved.AccessToken != "fresh" {
			t.Errorf("refreshed token was not saved: %+v", saved)
		}
	})

	t.Run("expired token without refresh", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "token.json")
		SaveToken(path, &oauth2.Token{AccessToken: "stale", Expiry: time.Now().Add(-time.Hour)})

		_, err := AccessToken(context.Background(), testConfig("http://127.0.0.1:1", ""), path)
		if !errors.Is(err, shared.ErrTokenExpired) {
			t.Errorf("expected ErrTokenExpired, got %v", err)
		}
	})
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := l.Addr().String()
	l.Close()
	return addr
}

func TestLogin(t *testing.T) {
	t.Run("completes through the callback", func(t *testing.T) {
		tokens := tokenServer(t, "from-login")
		addr := freeAddr(t)
		config := testConfig(tokens.URL, "http://"+addr+"/callback")

		open := func(consent string) error {
			u, err := url.Parse(consent)
			if err != nil {
				return err
			}
			go func() {
				resp, err := http.Get(config.RedirectURL + "?code=abc&state=" + url.QueryEscape(u.Query().Get("state")))
				if err == nil {
					resp.Body.Close()
				}
			}()
			return nil
		}

		token, err := Login(context.Background(), LoginOpts{Config: config, Addr: addr, Open: open, Timeout: 5 * time.Second})
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if token.AccessToken != "from-login" {
			t.Errorf("unexpected token %+v", token)
		}
	})

	t.Run("prints the url when the browser fails and times out", func(t *testing.T) {
		addr := freeAddr(t)
		config := testConfig("http://127.0.0.1:1", "http://"+addr+"/callback")
		var out strings.Builder

		_, err := Login(context.Background(), LoginOpts{
			Config:  config,
			Addr:    addr,
			Open:    func(string) error { return errors.New("no browser") },
			Output:  &out,
			Timeout: 50 * time.Millisecond,
		})
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
		if !strings.Contains(out.String(), "accounts.example.com/auth") {
			t.Errorf("expected consent url in output, got %q", out.String())
		}
	})

	t.Run("requires a config", func(t *testing.T) {
		if _, err := Login(context.Background(), LoginOpts{}); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}
