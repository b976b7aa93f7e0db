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

// Package accesslog provides structured access logging middleware built on
// log/slog.
package accesslog

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"strada.dev/router"
)

// Option defines functional options for access log configuration.
type Option func(*config)

type config struct {
	logger        *slog.Logger
	excludePaths  map[string]bool
	slowThreshold time.Duration
	errorsOnly    bool
}

func defaultConfig() *config {
	return &config{
		excludePaths: make(map[string]bool),
	}
}

// WithLogger sets the structured logger. Without a logger the middleware is
// a passthrough.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithExcludePaths skips logging for exact request paths (e.g. /health).
func WithExcludePaths(paths ...string) Option {
	return func(cfg *config) {
		for _, p := range paths {
			cfg.excludePaths[p] = true
		}
	}
}

// WithSlowThreshold logs requests at or above the threshold at warn level.
func WithSlowThreshold(threshold time.Duration) Option {
	return func(cfg *config) {
		cfg.slowThreshold = threshold
	}
}

// WithErrorsOnly logs only requests that end with status >= 400 or exceed
// the slow threshold.
func WithErrorsOnly() Option {
	return func(cfg *config) {
		cfg.errorsOnly = true
	}
}

// New creates access log middleware emitting one canonical line per request
// after the handler chain completes.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
//	r.Use(accesslog.New(
//	    accesslog.WithLogger(logger),
//	    accesslog.WithExcludePaths("/health", "/metrics"),
//	))
func New(opts ...Option) router.MiddlewareFunc {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c *router.Context) error {
			if cfg.logger == nil || cfg.excludePaths[c.Request.URL.Path] {
				return next(c)
			}

			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			status := 0
			var size int64
			if info, ok := c.Response.(router.ResponseInfo); ok {
				status = info.StatusCode()
				size = info.Size()
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

			isError := err != nil || status >= 400
			isSlow := cfg.slowThreshold > 0 && duration >= cfg.slowThreshold
			if cfg.errorsOnly && !isError && !isSlow {
				return err
			}

			attrs := []any{
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"route", c.RoutePattern(),
				"status", status,
				"size", size,
				"duration", duration,
			}
			if err != nil {
				attrs = append(attrs, "err", err)
			}

			switch {
			case isError:
				cfg.logger.Error("request", attrs...)
			case isSlow:
				cfg.logger.Warn("slow request", attrs...)
			default:
				cfg.logger.Info("request", attrs...)
			}

			return err
		}
	}
}
