package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/ytcat/internal/server"
	"github.com/desertthunder/ytcat/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin runs the Google consent flow and saves the token to oauth.token_path.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	oauthConfig, err := server.NewGoogleOAuthConfig(r.config.OAuth)
	if err != nil {
		return err
	}

	var addr string
	if r.config.Server.Port > 0 {
		addr = fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	}

	r.writePlain("→ Opening browser for Google authorization...\n")
	token, err := server.Login(ctx, server.LoginOpts{
		Config:  oauthConfig,
		Addr:    addr,
		Timeout: cmd.Duration("timeout"),
		Output:  r.output,
		Logger:  r.logger,
	})
	if err != nil {
		return err
	}

	path := r.config.OAuth.ResolvedTokenPath()
	if err := server.SaveToken(path, token); err != nil {
		return err
	}

	r.logger.Info("token saved", "path", path)
	return r.writePlain("✓ Authorization successful\nToken saved to: %s\n", path)
}

// AuthStatus reports whether reads and writes are configured.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	r.writePlainHeader("Authentication")

	if r.config.YouTube.Key() != "" {
		r.writePlain("API key: ✓ configured\n")
	} else {
		r.writePlain("API key: ✗ missing (set youtube.api_key or %s)\n", shared.APIKeyEnv)
	}

	path := r.config.OAuth.ResolvedTokenPath()
	token, err := server.LoadToken(path)
	switch {
	case err != nil:
		r.writePlain("OAuth token: ✗ %v\n", err)
	case token.Valid() && token.Expiry.IsZero():
		r.writePlain("OAuth token: ✓ stored\n")
	case token.Valid():
		r.writePlain("OAuth token: ✓ valid until %s\n", token.Expiry.Format(time.RFC1123))
	case token.RefreshToken != "":
		r.writePlain("OAuth token: expired, will refresh on next write\n")
	default:
		r.writePlain("OAuth token: ✗ expired, run 'ytcat auth login'\n")
	}
	return nil
}

// accessToken returns a usable bearer token for playlist writes.
func (r *Runner) accessToken(ctx context.Context) (string, error) {
	oauthConfig, err := server.NewGoogleOAuthConfig(r.config.OAuth)
	if err != nil {
		r.logger.Debug("token refresh unavailable", "error", err)
		oauthConfig = nil
	}

	token, err := server.AccessToken(ctx, oauthConfig, r.config.OAuth.ResolvedTokenPath())
	if err != nil {
		return "", fmt.Errorf("playlist writes need authorization: %w", err)
	}
	return token, nil
}
