package middleware

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/scorpion/web/errs"
	"github.com/adamwoolhether/scorpion/web/mux"
)

// Panics turns a panicking handler into an internal error carrying the
// panic value and stack, and marks the request span as failed.
// http.ErrAbortHandler is re-raised so net/http can abort the response.
func Panics() mux.Middleware {
	m := func(handler mux.Handler) mux.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) (err error) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				perr := fmt.Errorf("panic serving %s %s: %v", r.Method, r.URL.Path, rec)

				span := trace.SpanFromContext(ctx)
				span.RecordError(perr)
				span.SetStatus(codes.Error, "panic")

				err = errs.NewInternal(fmt.Errorf("%w\n%s", perr, debug.Stack()))
			}()

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}
