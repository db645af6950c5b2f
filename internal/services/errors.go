package services

import "github.com/desertthunder/ytcat/internal/shared"

// NotFoundError reports a lookup that found nothing. Message is localized; Err is the
// matching sentinel from the shared package.
//
// A Fatal NotFoundError also matches [shared.ErrProtocolViolation]: the service left out
// a payload the call requires.
type NotFoundError struct {
	Message string
	Err     error
	Fatal   bool
}

func (e *NotFoundError) Error() string { return e.Message }

func (e *NotFoundError) Unwrap() []error {
	if e.Fatal {
		return []error{e.Err, shared.ErrProtocolViolation}
	}
	return []error{e.Err}
}

func (c *Client) notFound(key string, sentinel error, detail ...string) *NotFoundError {
	msg := c.messages.MessageFor(key)
	for _, d := range detail {
		msg += " " + d
	}
	return &NotFoundError{Message: msg, Err: sentinel}
}
