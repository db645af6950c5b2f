// YouTube Data API v3 client
//
// Every read is a GET against {base}/{resource} with the access key merged into the query.
// Every write is a POST with a bearer token and a JSON body carrying the access key.

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytcat/internal/shared"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const defaultYTBaseURL string = "https://www.googleapis.com/youtube/v3"

// Resource is a catalog service sub-resource.
type Resource string

const (
	ResourceSearch        Resource = "search"
	ResourcePlaylistItems Resource = "playlistItems"
	ResourceVideos        Resource = "videos"
	ResourceChannels      Resource = "channels"
	ResourcePlaylists     Resource = "playlists"
)

func (r Resource) readable() bool {
	switch r {
	case ResourceSearch, ResourcePlaylistItems, ResourceVideos, ResourceChannels, ResourcePlaylists:
		return true
	}
	return false
}

func (r Resource) writable() bool {
	return r == ResourcePlaylists || r == ResourcePlaylistItems
}

// KeyProvider supplies the access key injected into every call.
type KeyProvider interface {
	Key() string
}

// StaticKey is a fixed access key.
type StaticKey string

func (k StaticKey) Key() string { return string(k) }

// MessageLookup resolves localized error text, see [shared.Messages].
type MessageLookup interface {
	MessageFor(key string) string
}

// APIError is a non-2xx response from the catalog service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("youtube API error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("youtube API error (status %d): %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return shared.ErrAPIRequest }

// ClientOpts configures a [Client]. Only Keys is required.
type ClientOpts struct {
	BaseURL           string
	Keys              KeyProvider
	HTTPClient        *http.Client
	RequestsPerSecond float64 // 0 disables throttling
	Messages          MessageLookup
	Logger            *log.Logger
}

// Client issues catalog calls and runs the chained lookups built on them.
type Client struct {
	baseURL    string
	keys       KeyProvider
	httpClient *http.Client
	limiter    *rate.Limiter
	messages   MessageLookup
	logger     *log.Logger
}

// NewClient creates a catalog client.
func NewClient(opts ClientOpts) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultYTBaseURL
	}
	if opts.Keys == nil {
		opts.Keys = StaticKey("")
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Messages == nil {
		opts.Messages = shared.NewMessages("en")
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}

	c := &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		keys:       opts.Keys,
		httpClient: opts.HTTPClient,
		messages:   opts.Messages,
		logger:     shared.WithLogger(opts.Logger, "service", "youtube"),
	}
	if opts.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	return c
}

// Name returns the service name.
func (c *Client) Name() string {
	return "YouTube"
}

// Get performs a read call against resource with params plus the access key and returns the raw body.
func (c *Client) Get(ctx context.Context, resource Resource, params url.Values) ([]byte, error) {
	if !resource.readable() {
		return nil, fmt.Errorf("%w: %q is not a readable resource", shared.ErrInvalidArgument, resource)
	}

	query := make(url.Values, len(params)+1)
	for k, v := range params {
		query[k] = v
	}
	query.Set("key", c.keys.Key())

	endpoint := fmt.Sprintf("%s/%s?%s", c.baseURL, resource, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return c.do(req, resource)
}

// Insert performs a write call against resource, authorized by token.
//
// The body is payload encoded as JSON with the access key merged in.
func (c *Client) Insert(ctx context.Context, resource Resource, token string, payload any) ([]byte, error) {
	if !resource.writable() {
		return nil, fmt.Errorf("%w: %q is not a writable resource", shared.ErrInvalidArgument, resource)
	}
	if token == "" {
		return nil, fmt.Errorf("%w: write calls need an authorization token", shared.ErrNotAuthenticated)
	}

	body, err := withKey(payload, c.keys.Key())
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/%s?part=snippet", c.baseURL, resource)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(req)

	return c.do(req, resource)
}

func (c *Client) do(req *http.Request, resource Resource) ([]byte, error) {
	ctx := req.Context()
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: request failed: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrAPIRequest, err)
	}

	c.logger.Debug("catalog call", "method", req.Method, "resource", resource, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    gjson.GetBytes(body, "error.message").String(),
		}
	}

	if len(bytes.TrimSpace(body)) > 0 && !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: failed to decode response from %s", shared.ErrAPIRequest, resource)
	}

	return body, nil
}

// withKey encodes payload as a JSON object and adds the "key" member.
func withKey(payload any, key string) ([]byte, error) {
	fields := map[string]json.RawMessage{}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode payload: %w", err)
		}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("%w: payload must encode to a JSON object", shared.ErrInvalidArgument)
		}
	}

	encodedKey, err := json.Marshal(key)
	if err != nil {
		return nil, err
	}
	fields["key"] = encodedKey

	return json.Marshal(fields)
}

// emptyBody reports a response with nothing in it, which the catalog service never sends on purpose.
func emptyBody(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// protocolViolation logs and builds the error for a response that is missing entirely.
func (c *Client) protocolViolation(resource Resource, detail string) error {
	err := fmt.Errorf("%w: %s: %s", shared.ErrProtocolViolation, resource, detail)
	c.logger.Error("catalog contract breach", "resource", resource, "detail", detail)
	return err
}

// aborted reports whether err came from cancelling ctx.
func aborted(ctx context.Context, err error) bool {
	return ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded))
}
