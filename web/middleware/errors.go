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

// Errors handles errors coming out of the call chain.
func Errors(log *slog.Logger) mux.Middleware {
	m := func(handler mux.Handler) mux.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			err := handler(ctx, w, r)
			if err == nil {
				return nil
			}

			reqLog := log.With("trace_id", mux.GetTraceID(ctx))

			if fieldErr := errs.GetFieldErrors(err); fieldErr != nil {
				reqLog.Info("request rejected", "error", fieldErr.Error())
				return web.RespondJSON(ctx, w, http.StatusUnprocessableEntity, fieldErr)
			}

			appErr, ok := errors.AsType[*errs.Error](err)
			if !ok { // to catch errs that may have escaped, obscure them from public view.
				appErr = errs.NewInternal(err)
			}

			level := slog.LevelError
			if appErr.Code < http.StatusInternalServerError {
				level = slog.LevelWarn
			}
			reqLog.Log(ctx, level, err.Error(), "source", appErr.Source, "func", appErr.Func)

			if appErr.IsInternal() { // after logging, obscure the internal error from public view.
				appErr.Message = http.StatusText(appErr.Code)
			}

			return web.RespondError(ctx, w, appErr)
		}

		return h
	}

	return m
}
