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

// HandlerFunc is the signature for route handlers and middleware terminals.
// Handlers write the response through the Context and return an error only
// for conditions the on-error hook chain should see; an error return maps to
// a 500-class response when no hook recovers it.
//
// Example:
//
//	func getUser(c *router.Context) error {
//	    return c.JSON(http.StatusOK, map[string]string{"id": c.Param("id")})
//	}
type HandlerFunc func(*Context) error

// RouteEntry bundles a handler with its per-route middleware and hooks.
// Entries are registered atomically as a unit at the terminal trie node:
// once a lookup returns an entry, every field is fully populated.
//
// A RouteEntry must not be modified after registration.
type RouteEntry struct {
	handler    HandlerFunc
	middleware []MiddlewareFunc
	preHandler []HookFunc
	after      []HookFunc
	onError    []ErrorHookFunc
	pattern    string
}

// Handler returns the terminal handler for this route.
func (e *RouteEntry) Handler() HandlerFunc { return e.handler }

// Pattern returns the pattern string the route was registered with.
func (e *RouteEntry) Pattern() string { return e.pattern }

// RouteOption configures a route at registration time.
type RouteOption func(*RouteEntry)

// WithMiddleware attaches route-scoped middleware. Route middleware runs
// inside the global chain, in registration order (first attached outermost
// within the route scope).
func WithMiddleware(mw ...MiddlewareFunc) RouteOption {
	return func(e *RouteEntry) {
		e.middleware = append(e.middleware, mw...)
	}
}

// WithPreHandlerHook attaches hooks that run after the route matches and
// before the middleware chain executes. Failures are logged and do not abort
// the request.
func WithPreHandlerHook(hooks ...HookFunc) RouteOption {
	return func(e *RouteEntry) {
		e.preHandler = append(e.preHandler, hooks...)
	}
}

// WithAfterHandlerHook attaches hooks that observe the response after the
// handler chain completes. They run after the router's global after-handler
// hooks, in registration order.
func WithAfterHandlerHook(hooks ...HookFunc) RouteOption {
	return func(e *RouteEntry) {
		e.after = append(e.after, hooks...)
	}
}

// WithErrorHook attaches route-scoped recovery hooks. They run before the
// router's global on-error hooks, in registration order; the first hook that
// reports recovery stops the chain.
func WithErrorHook(hooks ...ErrorHookFunc) RouteOption {
	return func(e *RouteEntry) {
		e.onError = append(e.onError, hooks...)
	}
}
