package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	ErrAuthenticationFailed = errors.New("authentication failed")
)

// UnexpectedStatusError describes a completed request whose status was
// not a success.
type UnexpectedStatusError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("%v: %d, body: %s", e.Err, e.StatusCode, e.Body)
}

func (e *UnexpectedStatusError) Unwrap() error {
	return e.Err
}

// CheckStatus converts a callback outcome into an error for callers that
// treat anything but 2xx as a failure. 401 and 403 wrap
// [ErrAuthenticationFailed]; a zero status returns nil because the
// transport error is reported by [Result.Err].
func CheckStatus(status int, body string) error {
	switch {
	case status == 0:
		return nil
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &UnexpectedStatusError{StatusCode: status, Body: body, Err: ErrAuthenticationFailed}
	default:
		return &UnexpectedStatusError{StatusCode: status, Body: body, Err: ErrUnexpectedStatusCode}
	}
}
