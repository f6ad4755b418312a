package mux

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type ctxKey int

const base ctxKey = 1

// BaseValues is the per-request state shared between the router, the
// middleware and the handlers. Middleware that runs inside a route
// writes to it so outer middleware can report the outcome.
type BaseValues struct {
	TraceID    string
	Route      string
	Now        time.Time
	Tracer     trace.Tracer
	StatusCode int
	User       string
}

func values(ctx context.Context) (*BaseValues, bool) {
	v, ok := ctx.Value(base).(*BaseValues)
	return v, ok
}

func setValues(ctx context.Context, v *BaseValues) context.Context {
	return context.WithValue(ctx, base, v)
}

// SetStatusCode records the response status. It is a no-op outside a route.
func SetStatusCode(ctx context.Context, statusCode int) {
	if v, ok := values(ctx); ok {
		v.StatusCode = statusCode
	}
}

// SetUser records the authenticated user, "" for anonymous. It is a no-op
// outside a route.
func SetUser(ctx context.Context, user string) {
	if v, ok := values(ctx); ok {
		v.User = user
	}
}

// GetValues returns the request's BaseValues. Outside a route it returns
// a detached value with a nil trace id and a no-op tracer, so callers
// need no nil checks.
func GetValues(ctx context.Context) *BaseValues {
	if v, ok := values(ctx); ok {
		return v
	}

	return &BaseValues{
		TraceID: uuid.Nil.String(),
		Tracer:  noop.NewTracerProvider().Tracer(""),
		Now:     time.Now(),
	}
}

// GetTraceID returns the request's trace id, or the nil uuid outside a
// route.
func GetTraceID(ctx context.Context) string {
	return GetValues(ctx).TraceID
}

// AddSpan starts a child span of the request span on the request's
// tracer. Outside a route it returns ctx with its current span.
func AddSpan(ctx context.Context, spanName string, keyValues ...attribute.KeyValue) (context.Context, trace.Span) {
	v, ok := values(ctx)
	if !ok || v.Tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}

	ctx, span := v.Tracer.Start(ctx, spanName)
	span.SetAttributes(keyValues...)

	return ctx, span
}
