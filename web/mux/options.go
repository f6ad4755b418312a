package mux

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/trace"
)

// Option configures an App.
type Option func(*options)

type options struct {
	static     http.Handler
	staticPath string
	tracer     trace.Tracer
	logger     *slog.Logger
	layers     []Layer
}

// WithMiddleware adds middleware to the App. Each layer runs at its
// stage regardless of argument order; see [Stage]. The option may be
// given more than once.
//
//	mux.WithMiddleware(
//		mux.At(mux.StageErrors, middleware.Errors(log)),
//		mux.At(mux.StagePanics, middleware.Panics()),
//	)
func WithMiddleware(layers ...Layer) Option {
	return func(opts *options) {
		opts.layers = append(opts.layers, layers...)
	}
}

// WithTracer sets the tracer request spans are started on. The default
// is a no-op tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(opts *options) {
		opts.tracer = tracer
	}
}

// WithLogger sets the logger used for errors no middleware handled.
func WithLogger(log *slog.Logger) Option {
	return func(opts *options) {
		opts.logger = log
	}
}

// WithStaticFS serves fsys under pathPrefix, for browser assets such as
// a page that talks to the resource routes. Static files bypass the
// route middleware, so they need no credentials.
func WithStaticFS(fsys fs.FS, pathPrefix string) Option {
	return func(opts *options) {
		opts.static = http.StripPrefix(pathPrefix, http.FileServer(http.FS(fsys)))
		opts.staticPath = pathPrefix
	}
}

// Adapt converts a standard http.Handler into a Handler.
func Adapt(h http.Handler) Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		h.ServeHTTP(w, r)
		return nil
	}
}
