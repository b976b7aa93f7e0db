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

// Package router provides a concurrent HTTP router for Go.
//
// The router maps method + path patterns to handlers through a segment trie
// that supports named parameters (:id) and trailing wildcards (*). Route
// registration and request dispatch are safe to run concurrently against a
// single Router instance: mutation uses copy-on-write node publication, so
// lookups never take a lock and never observe a partially built tree.
//
// # Key Features
//
//   - Static, parameterized, and wildcard route matching
//   - Deterministic precedence: static > parameter > wildcard
//   - 404 vs 405 distinction with an Allow header on 405 responses
//   - Middleware as continuation wrappers with global and per-route scope
//   - Lifecycle hooks (before-route, after-handler, on-error)
//   - Context pooling for request handling
//   - Route grouping and a declarative registration builder
//   - Pluggable observability with an OpenTelemetry recorder
//
// # Constructor Pattern
//
// Routers are created with New (returns an error for invalid configuration)
// or MustNew (panics, for static configuration known to be valid):
//
//	r := router.MustNew()
//	r.Use(recovery.New())
//	r.GET("/users/:id", func(c *router.Context) error {
//	    return c.JSON(http.StatusOK, map[string]string{"id": c.Param("id")})
//	})
//	http.ListenAndServe(":8080", r)
//
// # Concurrency
//
// All Router registration methods (Handle, Use, hook registration) may be
// called concurrently with in-flight dispatches. A route becomes visible to
// every lookup that starts after its registration call returns.
package router
