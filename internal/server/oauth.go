package server

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"

	"github.com/desertthunder/ytcat/internal/shared"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
	"google.golang.org/api/youtube/v3"
)

// NewGoogleOAuthConfig builds the authorization code config for YouTube playlist writes.
func NewGoogleOAuthConfig(cfg shared.OAuthConfig) (*oauth2.Config, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: oauth client_id and client_secret are required", shared.ErrMissingCredentials)
	}
	if cfg.RedirectURI == "" {
		return nil, fmt.Errorf("%w: oauth redirect_uri is required", shared.ErrInvalidConfig)
	}

	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Endpoint:     endpoints.Google,
		Scopes:       []string{youtube.YoutubeScope},
	}, nil
}

// NewState returns a random state token for CSRF protection.
func NewState() string {
	return uuid.NewString()
}

// OAuthResult is the outcome of one authorization attempt: a token or an error.
type OAuthResult struct {
	Token *oauth2.Token
	err   error
}

func (o *OAuthResult) Error() error {
	return o.err
}

// OAuthHandler serves the redirect URI of the authorization code flow and accepts exactly one callback.
type OAuthHandler struct {
	config  *oauth2.Config
	state   string
	path    string
	results chan OAuthResult
	once    sync.Once
	handled atomic.Bool
}

// NewOAuthHandler creates a handler bound to state.
// The callback route is the path of config.RedirectURL, "/callback" when it has none.
func NewOAuthHandler(config *oauth2.Config, state string) *OAuthHandler {
	path := "/callback"
	if u, err := url.Parse(config.RedirectURL); err == nil && u.Path != "" && u.Path != "/" {
		path = u.Path
	}
	return &OAuthHandler{config: config, state: state, path: path, results: make(chan OAuthResult, 1)}
}

func (h *OAuthHandler) Routes() []string {
	return []string{h.path}
}

// AuthCodeURL returns the consent page URL, requesting a refresh token.
func (h *OAuthHandler) AuthCodeURL() string {
	return h.config.AuthCodeURL(h.state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// ServeHTTP checks the state, exchanges the code and publishes the result.
func (h *OAuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.handled.CompareAndSwap(false, true) {
		renderCallback(w, http.StatusBadRequest, "This sign-in link was already used.")
		return
	}

	query := r.URL.Query()
	if query.Get("state") != h.state {
		h.reject(w, http.StatusBadRequest, "state mismatch")
		return
	}

	code := query.Get("code")
	if code == "" {
		reason := query.Get("error")
		if desc := query.Get("error_description"); desc != "" {
			reason += ": " + desc
		}
		h.reject(w, http.StatusBadRequest, "consent denied ("+reason+")")
		return
	}

	token, err := h.config.Exchange(r.Context(), code)
	if err != nil {
		h.reject(w, http.StatusInternalServerError, fmt.Sprintf("token exchange: %v", err))
		return
	}

	h.Send(OAuthResult{Token: token})
	renderCallback(w, http.StatusOK, "")
}

func (h *OAuthHandler) reject(w http.ResponseWriter, status int, reason string) {
	h.Send(OAuthResult{err: fmt.Errorf("%w: %s", shared.ErrAuthFailed, reason)})
	renderCallback(w, status, "Sign-in failed. Check the terminal for details.")
}

// Send publishes result. Only the first call has an effect.
func (h *OAuthHandler) Send(result OAuthResult) {
	h.once.Do(func() {
		h.results <- result
		close(h.results)
	})
}

// Result yields exactly one result and is then closed.
func (h *OAuthHandler) Result() <-chan OAuthResult {
	return h.results
}

var callbackPage = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>ytcat</title>
<style>
body { font-family: system-ui, sans-serif; background: #0f0f0f; color: #f1f1f1; display: grid; place-items: center; height: 100vh; margin: 0; }
main { border-left: 4px solid {{if .Failure}}#aaaaaa{{else}}#ff0033{{end}}; padding: 1rem 1.5rem; }
h1 { font-size: 1.25rem; margin: 0 0 0.5rem; }
</style>
</head>
<body>
<main>
{{if .Failure}}<h1>ytcat</h1>
<p>{{.Failure}}</p>{{else}}<h1>ytcat is signed in</h1>
<p>Playlist writes are enabled. Close this tab and return to the terminal.</p>{{end}}
</main>
</body>
</html>
`))

// renderCallback writes the page shown in the browser after the redirect. An empty failure renders success.
func renderCallback(w http.ResponseWriter, status int, failure string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = callbackPage.Execute(w, struct{ Failure string }{failure})
}
