// Copyright 2025 The Strada Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metrics provides Prometheus request metrics middleware.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"strada.dev/router"
)

// Option defines functional options for metrics middleware configuration.
type Option func(*config)

type config struct {
	registerer prometheus.Registerer
	namespace  string
	buckets    []float64
}

func defaultConfig() *config {
	return &config{
		registerer: prometheus.DefaultRegisterer,
		buckets:    prometheus.DefBuckets,
	}
}

// WithRegisterer sets the Prometheus registerer. Defaults to the global one.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(cfg *config) {
		cfg.registerer = reg
	}
}

// WithNamespace prefixes all metric names with the given namespace.
func WithNamespace(namespace string) Option {
	return func(cfg *config) {
		cfg.namespace = namespace
	}
}

// WithBuckets sets the duration histogram buckets (in seconds).
func WithBuckets(buckets []float64) Option {
	return func(cfg *config) {
		cfg.buckets = buckets
	}
}

// New creates middleware recording request count and duration, labeled by
// method, route pattern, and status code. The route pattern label keeps
// cardinality bounded regardless of raw path variety.
//
// Example:
//
//	r.Use(metrics.New(metrics.WithNamespace("api")))
//	r.GET("/metrics", func(c *router.Context) error {
//	    promhttp.Handler().ServeHTTP(c.Response, c.Request)
//	    return nil
//	})
func New(opts ...Option) router.MiddlewareFunc {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	labels := []string{"method", "route", "status"}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: cfg.namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests handled.",
	}, labels)

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: cfg.namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds.",
		Buckets:   cfg.buckets,
	}, labels)

	cfg.registerer.MustRegister(requests, duration)

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c *router.Context) error {
			start := time.Now()
			err := next(c)
			elapsed := time.Since(start).Seconds()

			status := 0
			if info, ok := c.Response.(router.ResponseInfo); ok {
				status = info.StatusCode()
			}
			// An error unwinding past this point is written by the router
			// after the chain returns; resolve the status it will produce.
			if err != nil && !c.Written() {
				status = http.StatusInternalServerError
				var e *router.Error
				if errors.As(err, &e) {
					status = e.Status
				}
			}

			labelValues := []string{c.Request.Method, c.RoutePattern(), strconv.Itoa(status)}
			requests.WithLabelValues(labelValues...).Inc()
			duration.WithLabelValues(labelValues...).Observe(elapsed)

			return err
		}
	}
}
