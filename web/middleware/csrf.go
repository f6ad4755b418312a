package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/adamwoolhether/scorpion/web"
	"github.com/adamwoolhether/scorpion/web/errs"
	"github.com/adamwoolhether/scorpion/web/mux"
)

var errCrossOrigin = errors.New("cross origin protection check failed")

// CSRF rejects cross-site browser writes using net/http's
// CrossOriginProtection. Requests without Origin or Sec-Fetch-Site
// headers, such as the scorpion client and CLI, pass through. Rejections
// are answered with a 403 JSON error.
func CSRF(logger *slog.Logger, allowedOrigins ...string) mux.Middleware {
	cop := http.NewCrossOriginProtection()
	cop.SetDenyHandler(denyCrossOrigin(logger))
	for _, origin := range allowedOrigins {
		if err := cop.AddTrustedOrigin(origin); err != nil {
			panic(err)
		}
	}

	m := func(handler mux.Handler) mux.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			var err error

			std := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctx = r.Context()

				err = handler(ctx, w, r)
			})

			cop.Handler(std).ServeHTTP(w, r.WithContext(ctx))

			return err
		}

		return h
	}

	return m
}

func denyCrossOrigin(logger *slog.Logger) http.HandlerFunc {
	f := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		logger.Warn("csrf middleware", "trace_id", mux.GetTraceID(ctx),
			"method", r.Method, "path", r.URL.Path, "origin", r.Header.Get("Origin"),
			"error", errCrossOrigin)

		if err := web.RespondError(ctx, w, errs.New(http.StatusForbidden, errCrossOrigin)); err != nil {
			logger.Error("csrf middleware", "trace_id", mux.GetTraceID(ctx), "error", err)
		}
	}

	return f
}
