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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
)

// noopLogger is a singleton no-op logger used when no logger is configured.
var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// NoopLogger returns the singleton no-op logger.
func NoopLogger() *slog.Logger {
	return noopLogger
}

// Route pattern sentinels reported to observability when no route matched.
// Raw paths are never used as patterns to avoid metric cardinality explosion.
const (
	patternNotFound         = "_not_found"
	patternMethodNotAllowed = "_method_not_allowed"
)

// Router composes the match trie, the middleware chain, and the hook
// registry into a single dispatch operation. It implements http.Handler.
//
// A Router instance owns all routing state; there are no package-level
// registries. One instance is typically constructed per process and shared
// by all serving goroutines: registration and dispatch are both safe to run
// concurrently against it.
//
// Example:
//
//	r := router.MustNew()
//	r.Use(recovery.New())
//	r.GET("/users/:id", getUser)
//	http.ListenAndServe(":8080", r)
type Router struct {
	trie       *MatchTrie
	middleware middlewareChain
	hooks      *HookRegistry

	logger        *slog.Logger
	observability ObservabilityRecorder

	// noRouteHandler customizes 404 responses (rarely written, read per miss).
	noRouteHandler HandlerFunc
	noRouteMu      sync.RWMutex

	// Configuration, fixed after New.
	strictChain     bool
	caseInsensitive bool
}

// New creates a Router with optional configuration. The returned router is
// ready to use and safe for concurrent access.
//
// Returns an error if the configuration is invalid, so misconfiguration is
// caught at startup rather than at dispatch time. For static configuration,
// use MustNew.
func New(opts ...Option) (*Router, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("router configuration validation failed: %w", err)
	}

	r := &Router{
		logger:          cfg.logger,
		observability:   cfg.observability,
		strictChain:     cfg.strictChain,
		caseInsensitive: cfg.caseInsensitive,
	}
	r.trie = NewMatchTrie(cfg.caseInsensitive)
	r.hooks = NewHookRegistry(cfg.logger)
	return r, nil
}

// MustNew creates a Router and panics if the configuration is invalid.
func MustNew(opts ...Option) *Router {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("router.MustNew: %v", err))
	}
	return r
}

// Handle registers a handler for the given method and pattern string.
//
// The pattern is parsed (ErrInvalidPattern on malformed patterns), the
// handler is bundled with any per-route middleware and hooks from opts into
// a single entry, and the entry is inserted into the trie (ErrRouteConflict
// on duplicate method+pattern or ambiguous parameter naming). Errors are
// returned synchronously; a failed registration leaves existing routes
// untouched.
//
// Handle may be called concurrently with in-flight dispatches. The route is
// visible to every lookup that starts after Handle returns.
func (r *Router) Handle(method, pattern string, handler HandlerFunc, opts ...RouteOption) error {
	if handler == nil {
		return fmt.Errorf("%w: %s %q", ErrNilHandler, method, pattern)
	}

	parsed, err := ParsePattern(pattern)
	if err != nil {
		return err
	}

	entry := &RouteEntry{handler: handler, pattern: pattern}
	for _, opt := range opts {
		opt(entry)
	}

	return r.trie.Insert(method, parsed, entry)
}

// GET registers a handler for GET requests to the given pattern.
func (r *Router) GET(pattern string, handler HandlerFunc, opts ...RouteOption) error {
	return r.Handle(http.MethodGet, pattern, handler, opts...)
}

// POST registers a handler for POST requests to the given pattern.
func (r *Router) POST(pattern string, handler HandlerFunc, opts ...RouteOption) error {
	return r.Handle(http.MethodPost, pattern, handler, opts...)
}

// PUT registers a handler for PUT requests to the given pattern.
func (r *Router) PUT(pattern string, handler HandlerFunc, opts ...RouteOption) error {
	return r.Handle(http.MethodPut, pattern, handler, opts...)
}

// PATCH registers a handler for PATCH requests to the given pattern.
func (r *Router) PATCH(pattern string, handler HandlerFunc, opts ...RouteOption) error {
	return r.Handle(http.MethodPatch, pattern, handler, opts...)
}

// DELETE registers a handler for DELETE requests to the given pattern.
func (r *Router) DELETE(pattern string, handler HandlerFunc, opts ...RouteOption) error {
	return r.Handle(http.MethodDelete, pattern, handler, opts...)
}

// HEAD registers a handler for HEAD requests to the given pattern.
func (r *Router) HEAD(pattern string, handler HandlerFunc, opts ...RouteOption) error {
	return r.Handle(http.MethodHead, pattern, handler, opts...)
}

// OPTIONS registers a handler for OPTIONS requests to the given pattern.
func (r *Router) OPTIONS(pattern string, handler HandlerFunc, opts ...RouteOption) error {
	return r.Handle(http.MethodOptions, pattern, handler, opts...)
}

// Use appends global middleware executed for every matched route, in
// registration order (first added is outermost).
func (r *Router) Use(mw ...MiddlewareFunc) {
	r.middleware.use(mw...)
}

// BeforeRoute registers hooks that run before route matching.
func (r *Router) BeforeRoute(hooks ...HookFunc) {
	r.hooks.BeforeRoute(hooks...)
}

// AfterHandler registers hooks that observe the response after the handler
// chain completes. A hook failure is logged and does not prevent the
// response from reaching the client.
func (r *Router) AfterHandler(hooks ...HookFunc) {
	r.hooks.AfterHandler(hooks...)
}

// OnError registers recovery hooks for dispatch errors. Hooks run in
// registration order; the first hook that reports recovery stops the chain,
// otherwise the router writes the default structured error response.
func (r *Router) OnError(hooks ...ErrorHookFunc) {
	r.hooks.OnError(hooks...)
}

// NoRoute sets a custom handler for requests whose path matches no route at
// all. Method mismatches on an existing path still produce the 405 response.
// Passing nil restores the default 404 behavior.
func (r *Router) NoRoute(handler HandlerFunc) {
	r.noRouteMu.Lock()
	r.noRouteHandler = handler
	r.noRouteMu.Unlock()
}

// Lookup resolves a method and path against the current route table without
// dispatching. Intended for transport layers and diagnostics.
func (r *Router) Lookup(method, path string) (*RouteEntry, map[string]string, error) {
	var params Params
	entry, err := r.trie.Lookup(method, path, &params)
	if err != nil {
		return nil, nil, err
	}
	return entry, params.Map(), nil
}

// ServeHTTP implements http.Handler. It drives the full dispatch lifecycle:
//
//  1. before-route hooks (may mutate the inbound request)
//  2. trie lookup (404 / 405 with Allow header on miss)
//  3. per-route pre-handler hooks
//  4. middleware chain (global scope, then route scope) around the handler
//  5. after-handler hooks on the produced response
//
// Any error from steps 2-4 flows through the on-error hooks; unrecovered
// errors map to a structured response via the error taxonomy. Panics are
// converted to internal errors and take the same path, except deliberate
// chain-violation panics, which are re-raised.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	c := acquireContext()
	defer releaseContext(c)

	var obsState any
	if r.observability != nil {
		ctx, state := r.observability.OnRequestStart(req.Context(), req)
		if ctx != req.Context() {
			req = req.WithContext(ctx)
		}
		if state != nil {
			w = r.observability.WrapResponseWriter(w, state)
		}
		obsState = state
	}

	rw := &responseWriter{ResponseWriter: w}
	c.Request = req
	c.Response = rw
	c.router = r

	r.dispatch(c)

	if r.observability != nil && obsState != nil {
		r.observability.OnRequestEnd(req.Context(), obsState, rw, c.pattern)
	}
}

// dispatch runs the request lifecycle against a prepared context.
func (r *Router) dispatch(c *Context) {
	var entry *RouteEntry

	defer func() {
		if rec := recover(); rec != nil {
			// Chain misuse must fail loudly, not hide behind a 500.
			if violation, ok := rec.(chainViolation); ok {
				panic(violation.String())
			}
			err := fmt.Errorf("panic in handler chain: %v", rec)
			r.handleError(c, entry, err)
		}
	}()

	r.hooks.runBeforeRoute(c)

	var err error
	entry, err = r.trie.Lookup(c.Request.Method, c.Request.URL.Path, &c.params)
	if err != nil {
		r.handleLookupError(c, err)
		return
	}
	c.pattern = entry.pattern

	runPhase(r.logger, "pre-handler", entry.preHandler, c)

	h := compose(r.middleware.snapshot(), entry.middleware, entry.handler, entry.pattern, r.strictChain)
	if err := h(c); err != nil {
		r.handleError(c, entry, err)
		return
	}

	r.hooks.runAfterHandler(c, entry.after)
}

// handleLookupError maps a failed lookup through the on-error hooks and then
// to a 404 or 405 response.
func (r *Router) handleLookupError(c *Context, err error) {
	var mna *MethodNotAllowedError
	if errors.As(err, &mna) {
		c.pattern = patternMethodNotAllowed
	} else {
		c.pattern = patternNotFound
	}

	if r.hooks.runOnError(c, nil, err) {
		return
	}

	if mna != nil {
		c.Response.Header().Set("Allow", strings.Join(mna.Allow, ", "))
		r.writeError(c, errorResponse(err).WithDetails(map[string]any{"allow": mna.Allow}))
		return
	}

	r.noRouteMu.RLock()
	custom := r.noRouteHandler
	r.noRouteMu.RUnlock()
	if custom != nil {
		if err := custom(c); err != nil {
			r.writeError(c, errorResponse(err))
		}
		return
	}

	r.writeError(c, errorResponse(err))
}

// handleError routes a dispatch error through the on-error hooks and writes
// the default structured response when no hook recovers.
func (r *Router) handleError(c *Context, entry *RouteEntry, err error) {
	var routeHooks []ErrorHookFunc
	if entry != nil {
		routeHooks = entry.onError
	}
	if r.hooks.runOnError(c, routeHooks, err) {
		return
	}

	resp := errorResponse(err)
	if resp.Status >= http.StatusInternalServerError {
		r.logger.Error("unhandled dispatch error",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"route", c.pattern,
			"err", err,
		)
	}
	r.writeError(c, resp)
}

// writeError writes the structured error body unless a response has already
// been committed (e.g. a middleware wrote before failing).
func (r *Router) writeError(c *Context, e *Error) {
	if c.Written() {
		return
	}
	body := map[string]any{
		"code":  e.Code,
		"error": e.Message,
	}
	if e.Details != nil {
		body["details"] = e.Details
	}
	if err := c.JSON(e.Status, body); err != nil {
		r.logger.Error("failed to write error response", "err", err)
	}
}
