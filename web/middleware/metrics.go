package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/adamwoolhether/scorpion/web/mux"
)

// Metrics counts requests and observes their latency, labelled by method
// and status code. Collectors already registered with reg are reused so
// several apps may share one registry.
func Metrics(reg prometheus.Registerer) mux.Middleware {
	requests := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scorpion",
		Name:      "http_requests_total",
		Help:      "Number of HTTP requests served, by method and status code.",
	}, []string{"method", "code"}))

	duration := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "scorpion",
		Name:      "http_request_duration_seconds",
		Help:      "Latency of HTTP requests, by method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"}))

	m := func(handler mux.Handler) mux.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			start := time.Now()

			err := handler(ctx, w, r)

			code := mux.GetValues(ctx).StatusCode
			if code == 0 {
				code = http.StatusOK
			}

			requests.WithLabelValues(r.Method, strconv.Itoa(code)).Inc()
			duration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())

			return err
		}

		return h
	}

	return m
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		if are, ok := errors.AsType[prometheus.AlreadyRegisteredError](err); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}

	return c
}
