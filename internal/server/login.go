package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytcat/internal/shared"
	"golang.org/x/oauth2"
)

// DefaultLoginTimeout bounds how long [Login] waits for the browser callback.
const DefaultLoginTimeout = 2 * time.Minute

// LoginOpts configures [Login].
type LoginOpts struct {
	Config  *oauth2.Config
	Addr    string                 // Listen address; defaults to the redirect URI's host
	Timeout time.Duration          // Defaults to [DefaultLoginTimeout]
	Open    func(url string) error // Opens the consent page; defaults to [shared.OpenBrowser]
	Output  io.Writer              // Receives the consent URL when Open fails
	Logger  *log.Logger
}

// Login runs the authorization code flow against a temporary local callback server.
func Login(ctx context.Context, opts LoginOpts) (*oauth2.Token, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("%w: oauth config", shared.ErrMissingArgument)
	}
	if opts.Addr == "" {
		u, err := url.Parse(opts.Config.RedirectURL)
		if err != nil || u.Host == "" {
			return nil, fmt.Errorf("%w: redirect uri %q has no host", shared.ErrInvalidConfig, opts.Config.RedirectURL)
		}
		opts.Addr = u.Host
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultLoginTimeout
	}
	if opts.Open == nil {
		opts.Open = shared.OpenBrowser
	}
	if opts.Output == nil {
		opts.Output = io.Discard
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}

	handler := NewOAuthHandler(opts.Config, NewState())
	router := NewBasicRouter()
	router.Use(Logging(opts.Logger))
	router.Handler(handler)

	listener, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return nil, fmt.Errorf("%w: callback server: %v", shared.ErrServiceUnavailable, err)
	}

	httpServer := &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second}
	serverErrors := make(chan error, 1)
	go func() {
		opts.Logger.Info("starting OAuth callback server", "addr", listener.Addr().String())
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			opts.Logger.Warn("error shutting down server", "error", err)
		}
	}()

	authURL := handler.AuthCodeURL()
	if err := opts.Open(authURL); err != nil {
		opts.Logger.Warn("failed to open browser automatically", "error", err)
		fmt.Fprintf(opts.Output, "Please open this URL in your browser:\n%s\n\n", authURL)
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	var result OAuthResult
	select {
	case result = <-handler.Result():
	case err := <-serverErrors:
		return nil, fmt.Errorf("%w: callback server: %v", shared.ErrServiceUnavailable, err)
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: no authorization received: %v", shared.ErrAuthFailed, ctx.Err())
	}

	if result.Error() != nil {
		return nil, result.Error()
	}
	if result.Token == nil {
		return nil, fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
	}
	return result.Token, nil
}
