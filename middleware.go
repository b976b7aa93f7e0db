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

import "sync"

// MiddlewareFunc wraps the next step of the handler chain.
//
// A middleware may short-circuit by writing a response and returning without
// invoking next, or invoke next exactly once and post-process its result.
// Invoking next more than once is a programming error; with strict chain
// checking enabled (the default) the second invocation panics rather than
// silently double-executing downstream handlers.
//
// Example:
//
//	func Timing() router.MiddlewareFunc {
//	    return func(next router.HandlerFunc) router.HandlerFunc {
//	        return func(c *router.Context) error {
//	            start := time.Now()
//	            err := next(c)
//	            c.Logger().Debug("handled", "duration", time.Since(start))
//	            return err
//	        }
//	    }
//	}
type MiddlewareFunc func(next HandlerFunc) HandlerFunc

// chainViolation is the panic value raised when a middleware invokes its
// continuation twice. The router's dispatch recover re-raises it instead of
// mapping it to a 500, so the bug fails loudly.
type chainViolation struct {
	pattern string
}

func (v chainViolation) String() string {
	return "router: middleware invoked next twice for route " + v.pattern
}

// IsChainViolation reports whether a recovered panic value originated from
// the strict-chain guard. Recovery middleware must re-raise such values
// instead of converting them to an error response, so the misuse stays loud.
func IsChainViolation(rec any) bool {
	_, ok := rec.(chainViolation)
	return ok
}

// middlewareChain holds the global middleware list.
// Appends are rare relative to dispatch, so execution takes a snapshot under
// a read lock and composes from that; an append racing a dispatch affects
// only requests that start afterwards.
type middlewareChain struct {
	mu     sync.RWMutex
	global []MiddlewareFunc
}

// use appends middleware to the global list in registration order.
func (ch *middlewareChain) use(mw ...MiddlewareFunc) {
	ch.mu.Lock()
	ch.global = append(ch.global, mw...)
	ch.mu.Unlock()
}

// snapshot returns the current global list. The returned slice is never
// mutated after publication (append copies on growth, and use holds the
// write lock), so callers may iterate it without holding the lock.
func (ch *middlewareChain) snapshot() []MiddlewareFunc {
	ch.mu.RLock()
	defer ch.mu.RUnlock()
	return ch.global[:len(ch.global):len(ch.global)]
}

// compose nests the effective middleware list around terminal: global scope
// first, then route scope, first registered outermost. When strict is true
// each link's continuation is guarded against double invocation.
//
// Composition happens per dispatch, so the guard state is request-local.
func compose(global, route []MiddlewareFunc, terminal HandlerFunc, pattern string, strict bool) HandlerFunc {
	h := terminal
	for i := len(route) - 1; i >= 0; i-- {
		h = route[i](guardOnce(h, pattern, strict))
	}
	for i := len(global) - 1; i >= 0; i-- {
		h = global[i](guardOnce(h, pattern, strict))
	}
	return h
}

// guardOnce wraps next so a second invocation panics with a chainViolation.
// The chain executes on the request goroutine, so a plain bool suffices.
func guardOnce(next HandlerFunc, pattern string, strict bool) HandlerFunc {
	if !strict {
		return next
	}
	called := false
	return func(c *Context) error {
		if called {
			panic(chainViolation{pattern: pattern})
		}
		called = true
		return next(c)
	}
}
