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

// Package requestid provides middleware that assigns each request a unique
// identifier, propagated via header and the request-scoped value store.
package requestid

import (
	"github.com/google/uuid"

	"strada.dev/router"
)

// DefaultHeader is the header used to read and echo the request ID.
const DefaultHeader = "X-Request-ID"

// ContextKey is the key under which the request ID is stored on the Context.
const ContextKey = "request_id"

// Option defines functional options for request ID middleware configuration.
type Option func(*config)

type config struct {
	header    string
	generator func() string
}

func defaultConfig() *config {
	return &config{
		header:    DefaultHeader,
		generator: uuid.NewString,
	}
}

// WithHeader sets the header used to read and echo the request ID.
func WithHeader(header string) Option {
	return func(cfg *config) {
		cfg.header = header
	}
}

// WithGenerator sets a custom ID generator. The default is a UUIDv4.
func WithGenerator(generator func() string) Option {
	return func(cfg *config) {
		cfg.generator = generator
	}
}

// New returns middleware that reuses an inbound request ID or generates a
// fresh one, stores it on the Context under ContextKey, and echoes it on the
// response.
//
//	r.Use(requestid.New())
func New(opts ...Option) router.MiddlewareFunc {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c *router.Context) error {
			id := c.Request.Header.Get(cfg.header)
			if id == "" {
				id = cfg.generator()
			}
			c.Set(ContextKey, id)
			c.Response.Header().Set(cfg.header, id)
			return next(c)
		}
	}
}

// FromContext returns the request ID stored by the middleware, or "".
func FromContext(c *router.Context) string {
	if v, ok := c.Get(ContextKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
