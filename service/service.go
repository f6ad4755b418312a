// Package service assembles the resource server from its configuration.
package service

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/adamwoolhether/scorpion/auth"
	"github.com/adamwoolhether/scorpion/config"
	"github.com/adamwoolhether/scorpion/resource"
	"github.com/adamwoolhether/scorpion/store"
	"github.com/adamwoolhether/scorpion/web/middleware"
	"github.com/adamwoolhether/scorpion/web/mux"
)

// TracerName names the tracer spans are recorded under.
const TracerName = "github.com/adamwoolhether/scorpion"

// Service is a configured resource server.
type Service struct {
	Handler   http.Handler
	Directory *auth.Directory
	Store     store.Store
	Registry  *prometheus.Registry
}

// New loads users and permissions, opens the store and builds the HTTP
// handler. The caller must Close the Service.
func New(cfg *config.Config, log *slog.Logger) (*Service, error) {
	if err := cfg.CheckPaths(); err != nil {
		return nil, fmt.Errorf("check config: %w", err)
	}

	dir := auth.New()
	if err := dir.LoadFiles(cfg.UsersFile, cfg.PermissionsFile); err != nil {
		return nil, fmt.Errorf("load directory: %w", err)
	}
	if cfg.AuthFile != "" {
		if err := dir.LoadYAMLFile(cfg.AuthFile); err != nil {
			return nil, fmt.Errorf("load directory: %w", err)
		}
	}

	st, err := store.New(cfg.StorageType, cfg.StoragePath, cfg.DefaultResource)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	layers := []mux.Layer{
		mux.At(mux.StageCSRF, middleware.CSRF(log, cfg.CSRFOrigins...)),
		mux.At(mux.StageMetrics, middleware.Metrics(reg)),
		mux.At(mux.StageLogger, middleware.Logger(log)),
		mux.At(mux.StageErrors, middleware.Errors(log)),
		mux.At(mux.StagePanics, middleware.Panics()),
	}
	if len(cfg.CORSOrigins) > 0 {
		layers = append(layers, mux.At(mux.StageCORS, middleware.CORS(cfg.CORSOrigins)))
	}

	opts := []mux.Option{
		mux.WithLogger(log),
		mux.WithTracer(otel.Tracer(TracerName)),
		mux.WithMiddleware(layers...),
	}
	if cfg.StaticDir != "" {
		opts = append(opts, mux.WithStaticFS(os.DirFS(cfg.StaticDir), cfg.StaticPath))
	}

	app := mux.New(opts...)

	if cfg.MetricsPath != "" {
		app.HandleRaw(http.MethodGet, cfg.MetricsPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	}

	resource.Routes(app, resource.Config{
		Log:          log,
		Directory:    dir,
		Store:        st,
		Realm:        cfg.Realm,
		MaxBodyBytes: cfg.MaxBodyBytes,
		BasePath:     cfg.BasePath,
	})

	log.Info("service ready",
		"storage_type", cfg.StorageType, "storage_path", cfg.StoragePath,
		"base_path", cfg.BasePath, "metrics_path", cfg.MetricsPath, "static_dir", cfg.StaticDir)

	return &Service{
		Handler:   app,
		Directory: dir,
		Store:     st,
		Registry:  reg,
	}, nil
}

// Close releases the store.
func (s *Service) Close() error {
	if err := s.Store.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}

	return nil
}
