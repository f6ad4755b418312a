// Package mux routes requests to handlers that return errors, wrapping
// them in staged middleware and a per-request span.
package mux

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Handler is a http.Handler that returns an error.
type Handler func(ctx context.Context, w http.ResponseWriter, r *http.Request) error

// Middleware wraps a Handler.
type Middleware func(handler Handler) Handler

// App is a router with a global middleware stack, run for every request,
// and a route stack, run inside each matched route.
type App struct {
	mux    *http.ServeMux
	global Handler
	mw     []Middleware
	prefix string
	logger *slog.Logger
	tracer trace.Tracer
}

// New creates an App. A no-op tracer and the default slog logger are
// used unless overridden via options.
func New(optFns ...Option) *App {
	var opts options
	for _, opt := range optFns {
		opt(&opts)
	}
	if opts.logger == nil {
		opts.logger = slog.Default()
	}
	if opts.tracer == nil {
		opts.tracer = noop.NewTracerProvider().Tracer("no-op tracer")
	}

	globalMW, routeMW := chains(opts.layers)

	app := &App{
		mux:    http.NewServeMux(),
		mw:     routeMW,
		logger: opts.logger,
		tracer: opts.tracer,
	}
	app.global = wrap(globalMW, func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		app.mux.ServeHTTP(w, r)
		return nil
	})

	if opts.static != nil {
		app.mux.Handle(http.MethodGet+" "+opts.staticPath, opts.static)
	}

	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := a.global(r.Context(), w, r); err != nil {
		a.logger.Error("serve http", "method", r.Method, "path", r.URL.Path, "error", err)
	}
}

// Group returns an App on the same routes whose middleware stack can be
// extended without affecting a.
func (a *App) Group() *App {
	return a.sub(a.prefix)
}

// Mount is Group with every route registered below subRoute.
func (a *App) Mount(subRoute string) *App {
	sub := strings.Trim(subRoute, "/")
	if sub == "" {
		return a.Group()
	}

	return a.sub(a.prefix + "/" + sub)
}

func (a *App) sub(prefix string) *App {
	return &App{
		mux:    a.mux,
		global: a.global,
		mw:     slices.Clone(a.mw),
		prefix: prefix,
		logger: a.logger,
		tracer: a.tracer,
	}
}

// Use appends middleware to the route stack. It runs inside the stack
// given to New, in the order given.
func (a *App) Use(mw ...Middleware) {
	a.mw = append(a.mw, mw...)
}

// Get registers a handler for GET requests at the given path.
func (a *App) Get(path string, fn Handler, mw ...Middleware) {
	a.Handle(http.MethodGet, path, fn, mw...)
}

// Post registers a handler for POST requests at the given path.
func (a *App) Post(path string, fn Handler, mw ...Middleware) {
	a.Handle(http.MethodPost, path, fn, mw...)
}

// HandleRaw registers a standard http.Handler with the same middleware
// and tracing as Handle.
func (a *App) HandleRaw(method, path string, handler http.Handler, mw ...Middleware) {
	a.Handle(method, path, Adapt(handler), mw...)
}

// Handle registers handler for method and path below the App's prefix.
// The handler runs inside the route stack, then mw, with a span and
// BaseValues in its context.
func (a *App) Handle(method, path string, handler Handler, mw ...Middleware) {
	route := a.prefix + path
	handler = wrap(a.mw, wrap(mw, handler))

	a.mux.HandleFunc(method+" "+route, func(w http.ResponseWriter, r *http.Request) {
		ctx, span := a.startSpan(w, r, route)
		defer span.End()

		v := BaseValues{
			TraceID: span.SpanContext().TraceID().String(),
			Route:   route,
			Now:     time.Now().UTC(),
			Tracer:  a.tracer,
		}
		if !span.SpanContext().TraceID().IsValid() {
			v.TraceID = uuid.NewString()
		}

		r = r.WithContext(setValues(ctx, &v))

		if err := handler(r.Context(), w, r); err != nil {
			a.logger.Error("unhandled error", "trace_id", v.TraceID, "route", route, "path", r.URL.Path, "error", err)
		}

		if v.StatusCode != 0 {
			span.SetAttributes(attribute.Int("http.status_code", v.StatusCode))
		}
		if v.User != "" {
			span.SetAttributes(attribute.String("enduser.id", v.User))
		}
	})
}

// startSpan starts the request span and propagates its context in the
// response headers.
func (a *App) startSpan(w http.ResponseWriter, r *http.Request, route string) (context.Context, trace.Span) {
	ctx, span := a.tracer.Start(r.Context(), r.Method+" "+route)
	span.SetAttributes(
		attribute.String("http.method", r.Method),
		attribute.String("http.route", route),
		attribute.String("path", r.URL.Path),
	)

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(w.Header()))

	return ctx, span
}

// wrap applies mw so the first element is outermost.
func wrap(mw []Middleware, handler Handler) Handler {
	for _, fn := range slices.Backward(mw) {
		if fn != nil {
			handler = fn(handler)
		}
	}

	return handler
}
