package server

import (
	"context"
	"log/slog"
	"net"
	"time"
)

// Defaults used when the matching option is not given.
const (
	DefaultHost            = ":8080"
	DefaultReadTimeout     = 5 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 20 * time.Second
)

// Option configures a Server.
type Option func(*options)

type options struct {
	host     string
	listener net.Listener
	logger   *slog.Logger

	read, write, idle, shutdown time.Duration

	certFile, keyFile string
	onShutdown        []func(ctx context.Context) error
}

func defaults() options {
	return options{
		host:     DefaultHost,
		logger:   slog.Default(),
		read:     DefaultReadTimeout,
		write:    DefaultWriteTimeout,
		idle:     DefaultIdleTimeout,
		shutdown: DefaultShutdownTimeout,
	}
}

// positive sets *dst to d unless d is zero or negative, leaving the
// default in place for unset config values.
func positive(dst *time.Duration, d time.Duration) {
	if d > 0 {
		*dst = d
	}
}

// WithHost sets the address to listen on. An empty host keeps
// DefaultHost.
func WithHost(host string) Option {
	return func(o *options) {
		if host != "" {
			o.host = host
		}
	}
}

// WithListener serves on ln instead of listening on the host.
func WithListener(ln net.Listener) Option {
	return func(o *options) {
		o.listener = ln
	}
}

// WithReadTimeout bounds reading a whole request, body included.
func WithReadTimeout(d time.Duration) Option {
	return func(o *options) { positive(&o.read, d) }
}

// WithWriteTimeout bounds writing the response.
func WithWriteTimeout(d time.Duration) Option {
	return func(o *options) { positive(&o.write, d) }
}

// WithIdleTimeout bounds the wait for the next request on a keep-alive
// connection.
func WithIdleTimeout(d time.Duration) Option {
	return func(o *options) { positive(&o.idle, d) }
}

// WithShutdownTimeout bounds how long [Server.Run] waits for in-flight
// requests after a shutdown signal. [Server.Shutdown] takes its deadline
// from its context instead.
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *options) { positive(&o.shutdown, d) }
}

// WithLogger sets the logger for lifecycle events and http.Server errors.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.logger = log
		}
	}
}

// WithShutdownFunc adds fn to the functions run once in-flight requests
// have drained, in registration order.
func WithShutdownFunc(fn func(ctx context.Context) error) Option {
	return func(o *options) {
		o.onShutdown = append(o.onShutdown, fn)
	}
}

// WithTLS serves HTTPS with the given certificate and key files.
func WithTLS(certFile, keyFile string) Option {
	return func(o *options) {
		o.certFile, o.keyFile = certFile, keyFile
	}
}
