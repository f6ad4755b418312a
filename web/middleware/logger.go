package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/adamwoolhether/scorpion/web/mux"
)

// Logger writes a line when a request starts and another when it completes.
// Completed requests are logged at Warn for 4xx and Error for 5xx.
func Logger(log *slog.Logger) mux.Middleware {
	m := func(handler mux.Handler) mux.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			v := mux.GetValues(ctx)

			path := r.URL.Path
			if r.URL.RawQuery != "" {
				path = fmt.Sprintf("%s?%s", path, r.URL.RawQuery)
			}

			log.Info("request started", "trace_id", v.TraceID, "method", r.Method, "path", path, "remoteaddr", r.RemoteAddr)

			err := handler(ctx, w, r)

			level := slog.LevelInfo
			switch {
			case v.StatusCode >= http.StatusInternalServerError:
				level = slog.LevelError
			case v.StatusCode >= http.StatusBadRequest:
				level = slog.LevelWarn
			}

			log.Log(ctx, level, "request completed", "trace_id", v.TraceID, "method", r.Method, "route", v.Route, "path", path, "remoteaddr", r.RemoteAddr,
				"user", v.User, "statusCode", v.StatusCode, "since", time.Since(v.Now).String())

			return err
		}

		return h
	}

	return m
}
