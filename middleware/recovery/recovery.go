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

// Package recovery provides middleware that recovers from panics in the
// handler chain and converts them to structured 500 responses.
package recovery

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"strada.dev/router"
)

// Option defines functional options for recovery middleware configuration.
type Option func(*config)

// config holds the configuration for the recovery middleware.
type config struct {
	stackTrace bool
	stackSize  int
	logger     func(c *router.Context, err any, stack []byte)
}

// defaultConfig returns the default configuration for recovery middleware.
func defaultConfig() *config {
	return &config{
		stackTrace: true,
		stackSize:  4 << 10, // 4KB
		logger:     defaultLogger,
	}
}

// defaultLogger logs panic information through the context logger.
func defaultLogger(c *router.Context, err any, stack []byte) {
	c.Logger().Error("panic recovered", "err", fmt.Sprint(err), "stack", string(stack))
}

// WithStackTrace enables or disables stack trace capture.
func WithStackTrace(enabled bool) Option {
	return func(cfg *config) {
		cfg.stackTrace = enabled
	}
}

// WithStackSize limits the captured stack trace to size bytes.
func WithStackSize(size int) Option {
	return func(cfg *config) {
		cfg.stackSize = size
	}
}

// WithLogger sets a custom panic logger.
func WithLogger(logger func(c *router.Context, err any, stack []byte)) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// New returns middleware that recovers from panics in downstream handlers,
// annotates the active trace span, and returns a structured internal error
// that flows through the router's on-error hooks.
//
// Register it first so it wraps the whole chain:
//
//	r := router.MustNew()
//	r.Use(recovery.New())
func New(opts ...Option) router.MiddlewareFunc {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c *router.Context) (err error) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if router.IsChainViolation(rec) {
					panic(rec)
				}

				if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().IsValid() {
					span.SetStatus(codes.Error, "panic recovered")
					span.SetAttributes(
						attribute.Bool("exception.escaped", true),
						attribute.String("exception.type", fmt.Sprintf("%T", rec)),
						attribute.String("exception.message", fmt.Sprint(rec)),
					)
					if actualErr, ok := rec.(error); ok {
						span.RecordError(actualErr)
					}
				}

				var stack []byte
				if cfg.stackTrace {
					stack = debug.Stack()
					if len(stack) > cfg.stackSize {
						stack = stack[:cfg.stackSize]
					}
				}
				if cfg.logger != nil {
					cfg.logger(c, rec, stack)
				}

				e := router.NewError(http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
				e.Err = fmt.Errorf("panic: %v", rec)
				err = e
			}()

			return next(c)
		}
	}
}
