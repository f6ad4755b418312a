package client

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/scorpion/client/throttle"
)

// Option is a functional option for configuring a [Client] via [Build].
type Option func(*options) error
type options struct {
	client            *http.Client
	rt                http.RoundTripper
	timeout           *time.Duration
	userAgent         string
	throttle          *throttle.Config
	noFollowRedirects bool
	logger            *slog.Logger
	tracer            trace.Tracer
	credentials       *credentials
	callback          Callback
	cacheParam        string
	cacheValue        func() string
	contentType       string
	maxBodySize       int64
}

type credentials struct {
	username string
	password string
}

// WithClient replaces the default [http.Client] used by the [Client].
func WithClient(hc *http.Client) Option {
	return func(c *options) error {
		if hc == nil {
			return errors.New("client must not be nil")
		}
		c.client = hc
		return nil
	}
}

// WithTransport sets a custom [http.RoundTripper] as the base transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *options) error {
		if rt == nil {
			return errors.New("transport must not be nil")
		}
		c.rt = rt
		return nil
	}
}

// WithTimeout bounds each request. A request that times out completes
// with status 0.
func WithTimeout(d time.Duration) Option {
	return func(c *options) error {
		if d < 0 {
			return errors.New("timeout must not be negative")
		}
		c.timeout = &d
		return nil
	}
}

// WithUserAgent adds a persistent User-Agent header to all outgoing requests.
func WithUserAgent(header string) Option {
	return func(c *options) error {
		c.userAgent = header
		return nil
	}
}

// WithThrottle enables token-bucket rate limiting with the given requests per second and burst capacity.
func WithThrottle(rps, burst int) Option {
	return func(c *options) error {
		if rps <= 0 || burst <= 0 {
			return fmt.Errorf("rps[%d] and burst[%d] %w", rps, burst, throttle.ErrMustNotBeZero)
		}
		c.throttle = &throttle.Config{RPS: rps, Burst: burst}
		return nil
	}
}

// WithNoFollowRedirects prevents the [Client] from following HTTP redirects.
// The callback then receives the 3xx response itself.
func WithNoFollowRedirects() Option {
	return func(c *options) error {
		c.noFollowRedirects = true
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the [Client].
func WithLogger(logger *slog.Logger) Option {
	return func(c *options) error {
		c.logger = logger
		return nil
	}
}

// WithTracer records a client span for every request.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *options) error {
		if tracer == nil {
			return errors.New("tracer must not be nil")
		}
		c.tracer = tracer
		return nil
	}
}

// WithBasicAuth attaches an "Authorization: Basic" header to every request.
// Empty strings are valid credentials; omit the option to send none.
func WithBasicAuth(username, password string) Option {
	return func(c *options) error {
		c.credentials = &credentials{username: username, password: password}
		return nil
	}
}

// WithCallback sets the initial completion callback.
// See [Client.SetCallback].
func WithCallback(fn Callback) Option {
	return func(c *options) error {
		c.callback = fn
		return nil
	}
}

// WithCacheBuster overrides the volatile query parameter appended to every
// GET. valueFn must return a different value on every call.
func WithCacheBuster(param string, valueFn func() string) Option {
	return func(c *options) error {
		if param == "" {
			return errors.New("cache buster param must not be empty")
		}
		if valueFn == nil {
			return errors.New("cache buster func must not be nil")
		}
		c.cacheParam = param
		c.cacheValue = valueFn
		return nil
	}
}

// WithContentType overrides the default "text/plain; charset=utf-8"
// Content-Type of POST bodies.
func WithContentType(contentType string) Option {
	return func(c *options) error {
		if contentType == "" {
			return errors.New("cannot use empty content type")
		}
		c.contentType = contentType
		return nil
	}
}

// WithMaxBodySize truncates response bodies delivered to the callback
// to n bytes.
func WithMaxBodySize(n int64) Option {
	return func(c *options) error {
		if n <= 0 {
			return fmt.Errorf("max body size[%d] must be greater than zero", n)
		}
		c.maxBodySize = n
		return nil
	}
}

// userAgent is an http.RoundTripper, enabling the persistent User-Agent header.
type userAgent struct {
	value string
	base  http.RoundTripper
}

func (ua userAgent) RoundTrip(r *http.Request) (*http.Response, error) {
	cpy := r.Clone(r.Context())
	cpy.Header.Set("User-Agent", ua.value)
	return ua.base.RoundTrip(cpy)
}
