package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
)

// Server wraps an [http.Server] with signal-driven graceful shutdown.
type Server struct {
	srv  *http.Server
	opts options

	mu       sync.Mutex
	listener net.Listener
	ready    chan struct{}
}

// New creates a Server for handler. Unset options take the Default
// constants and slog.Default().
func New(handler http.Handler, optFns ...Option) *Server {
	opts := defaults()
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Server{
		srv: &http.Server{
			Addr:         opts.host,
			Handler:      handler,
			ReadTimeout:  opts.read,
			WriteTimeout: opts.write,
			IdleTimeout:  opts.idle,
			ErrorLog:     slog.NewLogLogger(opts.logger.Handler(), slog.LevelWarn),
		},
		opts:     opts,
		listener: opts.listener,
		ready:    make(chan struct{}),
	}
}

// Run starts the HTTP server and blocks until ctx is done or a SIGINT or
// SIGTERM signal is received, then performs a graceful shutdown. It returns
// nil on clean shutdown or an error if the server fails to start or shut
// down.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ln, err := s.listen()
	if err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	serverErrs := make(chan error, 1)
	go func() {
		s.opts.logger.Info("server started", "addr", ln.Addr().String(), "tls", s.opts.certFile != "")

		if s.opts.certFile != "" {
			serverErrs <- s.srv.ServeTLS(ln, s.opts.certFile, s.opts.keyFile)
		} else {
			serverErrs <- s.srv.Serve(ln)
		}
	}()

	select {
	case err := <-serverErrs:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

		return nil

	case <-ctx.Done():
		stop()
		s.opts.logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.shutdown)
		defer cancel()

		if err := s.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}

		s.opts.logger.Info("shutdown complete")

		return nil
	}
}

// Addr blocks until the server is listening and returns its address.
// It is useful when the host was given with port 0.
func (s *Server) Addr(ctx context.Context) (net.Addr, error) {
	select {
	case <-s.ready:
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.listener.Addr(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Shutdown gracefully shuts down the server. It first drains in-flight
// requests, then runs any registered shutdown functions in order, so the
// resources they release are not in use. Callers should set a deadline on
// ctx to bound how long shutdown may take.
func (s *Server) Shutdown(ctx context.Context) error {
	var drainErr error
	if err := s.srv.Shutdown(ctx); err != nil {
		s.srv.Close()
		drainErr = fmt.Errorf("server didn't stop gracefully: %w", err)
	}

	for _, fn := range s.opts.onShutdown {
		if err := fn(ctx); err != nil {
			s.opts.logger.Error("shutdown func", "error", err)
		}
	}

	return drainErr
}

func (s *Server) listen() (net.Listener, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		ln, err := net.Listen("tcp", s.srv.Addr)
		if err != nil {
			return nil, err
		}
		s.listener = ln
	}

	select {
	case <-s.ready:
	default:
		close(s.ready)
	}

	return s.listener, nil
}
