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

package router

import (
	"net/http"
	"strings"
)

// Group registers routes under a common path prefix with shared middleware.
// Group middleware runs after the router's global middleware and before any
// route-scoped middleware, preserving outermost-first ordering.
//
// Example:
//
//	api := r.Group("/api/v1", authMiddleware)
//	api.GET("/users", listUsers)          // GET /api/v1/users
//	api.POST("/users", createUser)        // POST /api/v1/users
type Group struct {
	router     *Router
	prefix     string
	middleware []MiddlewareFunc
}

// Group creates a route group with the given prefix and optional middleware.
func (r *Router) Group(prefix string, middleware ...MiddlewareFunc) *Group {
	return &Group{
		router:     r,
		prefix:     strings.TrimSuffix(prefix, "/"),
		middleware: middleware,
	}
}

// Group creates a nested group. Prefixes concatenate and middleware
// accumulates parent-first.
func (g *Group) Group(prefix string, middleware ...MiddlewareFunc) *Group {
	merged := make([]MiddlewareFunc, 0, len(g.middleware)+len(middleware))
	merged = append(merged, g.middleware...)
	merged = append(merged, middleware...)
	return &Group{
		router:     g.router,
		prefix:     g.prefix + strings.TrimSuffix(prefix, "/"),
		middleware: merged,
	}
}

// Handle registers a route within the group.
func (g *Group) Handle(method, pattern string, handler HandlerFunc, opts ...RouteOption) error {
	// Group middleware must wrap route-scoped middleware from opts, so it is
	// prepended as the first route option.
	if len(g.middleware) > 0 {
		opts = append([]RouteOption{WithMiddleware(g.middleware...)}, opts...)
	}
	return g.router.Handle(method, g.prefix+"/"+strings.TrimPrefix(pattern, "/"), handler, opts...)
}

// GET registers a GET route within the group.
func (g *Group) GET(pattern string, handler HandlerFunc, opts ...RouteOption) error {
	return g.Handle(http.MethodGet, pattern, handler, opts...)
}

// POST registers a POST route within the group.
func (g *Group) POST(pattern string, handler HandlerFunc, opts ...RouteOption) error {
	return g.Handle(http.MethodPost, pattern, handler, opts...)
}

// PUT registers a PUT route within the group.
func (g *Group) PUT(pattern string, handler HandlerFunc, opts ...RouteOption) error {
	return g.Handle(http.MethodPut, pattern, handler, opts...)
}

// PATCH registers a PATCH route within the group.
func (g *Group) PATCH(pattern string, handler HandlerFunc, opts ...RouteOption) error {
	return g.Handle(http.MethodPatch, pattern, handler, opts...)
}

// DELETE registers a DELETE route within the group.
func (g *Group) DELETE(pattern string, handler HandlerFunc, opts ...RouteOption) error {
	return g.Handle(http.MethodDelete, pattern, handler, opts...)
}
