package middleware

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/adamwoolhether/scorpion/web"
	"github.com/adamwoolhether/scorpion/web/errs"
	"github.com/adamwoolhether/scorpion/web/mux"
)

// DefaultAllowHeaders is the default set of headers permitted in
// cross-origin requests when no custom list is provided to CORS.
var DefaultAllowHeaders = []string{
	"Authorization",
	"Content-Type",
	"Accept",
	"X-Requested-With",
	"Cache-Control",
}

const allowMethods = "GET, POST, OPTIONS"

// CORS lets browser pages on allowedOrigins call the resource routes.
// DefaultAllowHeaders is used unless allowedHeaders are given. The Basic
// challenge header is exposed so a page can prompt for credentials after
// a 401. Requests from other origins get a 403; preflights end with 204.
func CORS(allowedOrigins []string, allowedHeaders ...string) mux.Middleware {
	if len(allowedHeaders) == 0 {
		allowedHeaders = DefaultAllowHeaders
	}

	originAllowed := CheckOriginFunc(allowedOrigins)
	headers := strings.Join(allowedHeaders, ", ")

	m := func(handler mux.Handler) mux.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			origin := r.Header.Get("origin")
			if origin == "" { // Ignore the mw if no Origin header.
				return handler(ctx, w, r)
			}

			if originAllowed(origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Methods", allowMethods)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Max-Age", "86400")
				w.Header().Set("Access-Control-Allow-Headers", headers)
				w.Header().Set("Access-Control-Expose-Headers", "WWW-Authenticate")
			} else {
				return web.RespondError(ctx, w, errs.New(http.StatusForbidden, fmt.Errorf("CORS origin[%s] not allowed", origin)))
			}

			if r.Method == http.MethodOptions {
				return web.RespondJSON(ctx, w, http.StatusNoContent, nil)
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

// CheckOriginFunc returns a predicate reporting whether origin is allowed.
// Entries may themselves be comma-separated, as they are when read from a
// single SCORPION_CORS_ORIGINS variable, and may use path.Match wildcards.
// A lone "*" allows every origin.
func CheckOriginFunc(allowedOrigins []string) func(string) bool {
	allowed := make(map[string]bool)
	var patterns []string

	for _, entry := range allowedOrigins {
		for o := range strings.SplitSeq(entry, ",") {
			o = strings.TrimRight(strings.TrimSpace(o), "/")
			switch {
			case o == "":
			case o == "*":
				allowed["*"] = true
			case strings.Contains(o, "*"):
				patterns = append(patterns, o)
			default:
				allowed[o] = true
			}
		}
	}
	allowAll := allowed["*"]

	return func(origin string) bool {
		if allowAll || allowed[origin] {
			return true
		}
		for _, p := range patterns {
			if ok, err := path.Match(p, origin); ok && err == nil {
				return true
			}
		}
		return false
	}
}
