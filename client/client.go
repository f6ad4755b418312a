// Package client exposes an asynchronous HTTP client that reports every
// completed request to a single callback.
package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/adamwoolhether/scorpion/client/throttle"
	"github.com/adamwoolhether/scorpion/codec"
)

const (
	// DefaultCacheParam is the query parameter appended to every GET.
	DefaultCacheParam = "timestamp"

	// DefaultContentType is sent with POST bodies unless overridden.
	DefaultContentType = "text/plain; charset=utf-8"
)

// Callback receives the outcome of a request. status is 0 when the
// request never produced an HTTP response.
type Callback func(status int, body string)

// Client issues one request at a time and delivers each completion
// to its callback exactly once.
type Client struct {
	c           *http.Client
	logger      *slog.Logger
	tracer      trace.Tracer
	cacheParam  string
	cacheValue  func() string
	contentType string
	maxBodySize int64

	mu            sync.Mutex
	authorization string
	callback      Callback
	inFlight      *Result
}

// Build creates a Client configured by the given options. Without options
// it sends no credentials, has no callback, and uses a fresh
// [http.Client] over [http.DefaultTransport].
func Build(optFns ...Option) (*Client, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	client := &Client{
		c:           &http.Client{},
		logger:      slog.Default(),
		tracer:      noop.NewTracerProvider().Tracer("no-op tracer"),
		cacheParam:  DefaultCacheParam,
		cacheValue:  newTimestamper().next,
		contentType: DefaultContentType,
		maxBodySize: opts.maxBodySize,
		callback:    opts.callback,
	}

	if opts.client != nil {
		cpy := *opts.client
		client.c = &cpy
	}

	if opts.logger != nil {
		client.logger = opts.logger
	}

	if opts.tracer != nil {
		client.tracer = opts.tracer
	}

	if opts.credentials != nil {
		client.authorization = codec.BasicAuthHeader(opts.credentials.username, opts.credentials.password)
	}

	if opts.cacheParam != "" {
		client.cacheParam = opts.cacheParam
		client.cacheValue = opts.cacheValue
	}

	if opts.contentType != "" {
		client.contentType = opts.contentType
	}

	if opts.timeout != nil {
		client.c.Timeout = *opts.timeout
	}

	if opts.noFollowRedirects {
		client.c.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	var transport http.RoundTripper
	switch {
	case opts.rt != nil:
		transport = opts.rt
	case opts.client != nil && opts.client.Transport != nil:
		transport = opts.client.Transport
	default:
		transport = http.DefaultTransport
	}
	if opts.userAgent != "" {
		transport = userAgent{value: opts.userAgent, base: transport}
	}
	if opts.throttle != nil {
		rt, err := throttle.NewRoundTripper(opts.throttle.RPS, opts.throttle.Burst, func() *slog.Logger { return client.logger }, transport)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		transport = rt
	}
	client.c.Transport = transport

	return client, nil
}

// SetCallback replaces the completion callback. The callback is looked up
// when a request finishes, so the new function, and only it, receives the
// next completion even if that request is already in flight.
func (c *Client) SetCallback(fn Callback) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.callback = fn
}

// SetCredentials replaces the credentials sent from the next request on.
// A request already in flight keeps the header it was sent with.
func (c *Client) SetCredentials(username, password string) {
	header := codec.BasicAuthHeader(username, password)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.authorization = header
}

// ClearCredentials stops sending an Authorization header.
func (c *Client) ClearCredentials() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.authorization = ""
}

// Get issues a GET for rawURL with a volatile cache-busting parameter and
// returns without waiting for the response. The existing query is sent
// as written, with the parameter appended.
func (c *Client) Get(ctx context.Context, rawURL string) (*Result, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing url: %w", err)
	}

	u.RawQuery = appendParam(u.RawQuery, c.cacheParam, c.cacheValue())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("instantiating request: %w", err)
	}

	return c.send(req)
}

// Post sends data to rawURL and returns without waiting for the response.
func (c *Client) Post(ctx context.Context, rawURL string, data string) (*Result, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), strings.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("instantiating request: %w", err)
	}
	req.Header.Set("Content-Type", c.contentType)

	return c.send(req)
}

// send claims the in-flight slot and runs req in the background.
func (c *Client) send(req *http.Request) (*Result, error) {
	c.mu.Lock()
	if c.inFlight != nil {
		c.mu.Unlock()
		return nil, ErrRequestInFlight
	}

	ctx, cancel := context.WithCancel(req.Context())
	r := &Result{
		done:   make(chan struct{}),
		cancel: cancel,
	}
	c.inFlight = r
	authorization := c.authorization
	c.mu.Unlock()

	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	ctx, span := c.tracer.Start(ctx, "client.request",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("url.path", req.URL.Path),
		),
	)

	go c.exec(req.WithContext(ctx), r, span)

	return r, nil
}

// exec performs the round trip, frees the in-flight slot, then hands
// the outcome to the current callback before completing r.
func (c *Client) exec(req *http.Request, r *Result, span trace.Span) {
	defer span.End()
	defer r.cancel()

	status, body, err := c.do(req)
	if err != nil {
		span.RecordError(err)
		c.logger.Error("request failed", "method", req.Method, "url", req.URL.Redacted(), "error", err)
	} else {
		span.SetAttributes(attribute.Int("http.status_code", status))
	}

	r.status, r.body, r.err = status, body, err

	c.mu.Lock()
	c.inFlight = nil
	cb := c.callback
	c.mu.Unlock()

	c.invoke(cb, status, body)
	close(r.done)
}

func (c *Client) do(req *http.Request) (int, string, error) {
	resp, err := c.c.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("exec http do: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	var rd io.Reader = resp.Body
	if c.maxBodySize > 0 {
		rd = io.LimitReader(resp.Body, c.maxBodySize)
	}

	b, err := io.ReadAll(rd)
	if err != nil {
		return 0, "", fmt.Errorf("reading body: %w", err)
	}

	return resp.StatusCode, string(b), nil
}

func (c *Client) invoke(cb Callback, status int, body string) {
	if cb == nil {
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			c.logger.Error("callback panicked", "panic", rec, "trace", string(debug.Stack()))
		}
	}()

	cb(status, body)
}

// appendParam adds key=value to rawQuery without re-encoding the pairs
// already there.
func appendParam(rawQuery, key, value string) string {
	param := url.QueryEscape(key) + "=" + url.QueryEscape(value)

	switch {
	case rawQuery == "":
		return param
	case strings.HasSuffix(rawQuery, "&"):
		return rawQuery + param
	default:
		return rawQuery + "&" + param
	}
}

// timestamper yields strictly increasing unix-nano values, so two GETs in
// the same clock tick still differ.
type timestamper struct {
	last atomic.Int64
}

func newTimestamper() *timestamper {
	return &timestamper{}
}

func (ts *timestamper) next() string {
	for {
		last := ts.last.Load()

		now := time.Now().UnixNano()
		if now <= last {
			now = last + 1
		}

		if ts.last.CompareAndSwap(last, now) {
			return strconv.FormatInt(now, 10)
		}
	}
}
