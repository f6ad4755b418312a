package client

import (
	"context"
	"errors"
)

// ErrRequestInFlight is returned when a request is issued while the
// previous one on the same Client has not completed.
var ErrRequestInFlight = errors.New("request already in flight")

// Result represents an in-flight or completed request.
type Result struct {
	done   chan struct{}
	cancel context.CancelFunc
	status int
	body   string
	err    error
}

// Done returns a channel that is closed once the callback has returned.
func (r *Result) Done() <-chan struct{} { return r.done }

// Wait blocks until the request completes and returns what the
// callback received.
func (r *Result) Wait() (status int, body string) {
	<-r.done
	return r.status, r.body
}

// Status blocks until the request completes and returns its status code,
// or 0 when no response arrived.
func (r *Result) Status() int {
	<-r.done
	return r.status
}

// Body blocks until the request completes and returns the response body.
func (r *Result) Body() string {
	<-r.done
	return r.body
}

// Err blocks until the request completes and returns the transport
// error, if any. HTTP error statuses are not errors.
func (r *Result) Err() error {
	<-r.done
	return r.err
}

// Cancel aborts the request. The callback still fires once, with status 0,
// unless the response had already arrived.
func (r *Result) Cancel() {
	r.cancel()
}
