package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTokenExpired     = fmt.Errorf("access token expired")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrProtocolViolation  = fmt.Errorf("catalog service returned no response")

	// Lookup errors, reported with a localized message
	ErrSongNotFound    = fmt.Errorf("song not found")
	ErrSongsNotFound   = fmt.Errorf("songs not found")
	ErrTitleNotFound   = fmt.Errorf("failed to load title")
	ErrChannelNotFound = fmt.Errorf("no content details")

	// Persistence errors
	ErrJobNotFound = fmt.Errorf("insert job not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
