package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/desertthunder/ytcat/internal/shared"
	"golang.org/x/oauth2"
)

// SaveToken writes token as JSON to path, readable only by the current user.
func SaveToken(path string, token *oauth2.Token) error {
	if token == nil {
		return fmt.Errorf("%w: token", shared.ErrMissingArgument)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := shared.MarshalJSON(token, true)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token: %w", err)
	}
	return nil
}

// LoadToken reads a token saved by [SaveToken].
//
// A missing file is reported as [shared.ErrNotAuthenticated].
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: no token at %s, run `ytcat auth login`", shared.ErrNotAuthenticated, path)
	} else if err != nil {
		return nil, fmt.Errorf("failed to read token: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("%w: token file is not valid JSON: %v", shared.ErrInvalidConfig, err)
	}
	if token.AccessToken == "" && token.RefreshToken == "" {
		return nil, fmt.Errorf("%w: token file holds no credentials", shared.ErrNotAuthenticated)
	}
	return &token, nil
}

// AccessToken returns a valid access token, refreshing and re-saving it when it has expired.
//
// Without a refresh capable config the stored access token is returned as is.
func AccessToken(ctx context.Context, config *oauth2.Config, path string) (string, error) {
	token, err := LoadToken(path)
	if err != nil {
		return "", err
	}
	if token.Valid() || config == nil {
		return token.AccessToken, nil
	}
	if token.RefreshToken == "" {
		return "", fmt.Errorf("%w: no refresh token, run `ytcat auth login`", shared.ErrTokenExpired)
	}

	fresh, err := config.TokenSource(ctx, token).Token()
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrTokenExpired, err)
	}
	if fresh.AccessToken != token.AccessToken {
		if err := SaveToken(path, fresh); err != nil {
			return "", err
		}
	}
	return fresh.AccessToken, nil
}
