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
	"log/slog"
	"sync"
)

// HookFunc is a side-effecting callback invoked at a fixed point in the
// request lifecycle. Hooks observe and may mutate the Context but are not
// part of producing the response body. A returned error is logged and does
// not abort the remaining hooks in the phase.
type HookFunc func(*Context) error

// ErrorHookFunc attempts to recover from a dispatch error. It returns true
// if it handled the error (typically by writing a response), which stops the
// remaining on-error hooks; returning false passes the original error on
// unchanged.
type ErrorHookFunc func(*Context, error) bool

// HookRegistry holds phase-keyed hook collections.
//
// Hooks within a phase run in registration order. Registration may happen
// concurrently with dispatch: runners take a slice snapshot under a read
// lock, so an in-flight request sees either the list before or after a
// concurrent registration, never a torn one.
type HookRegistry struct {
	mu           sync.RWMutex
	beforeRoute  []HookFunc
	afterHandler []HookFunc
	onError      []ErrorHookFunc
	logger       *slog.Logger
}

// NewHookRegistry creates a registry that logs hook failures to logger.
func NewHookRegistry(logger *slog.Logger) *HookRegistry {
	if logger == nil {
		logger = noopLogger
	}
	return &HookRegistry{logger: logger}
}

// BeforeRoute registers hooks that run before route matching. They may
// mutate the inbound request (c.Request) before the trie lookup sees it.
func (h *HookRegistry) BeforeRoute(hooks ...HookFunc) {
	h.mu.Lock()
	h.beforeRoute = append(h.beforeRoute, hooks...)
	h.mu.Unlock()
}

// AfterHandler registers hooks that observe the outbound response after the
// handler chain completes. Header mutations only take effect if the handler
// has not written the response yet.
func (h *HookRegistry) AfterHandler(hooks ...HookFunc) {
	h.mu.Lock()
	h.afterHandler = append(h.afterHandler, hooks...)
	h.mu.Unlock()
}

// OnError registers recovery hooks for dispatch errors.
func (h *HookRegistry) OnError(hooks ...ErrorHookFunc) {
	h.mu.Lock()
	h.onError = append(h.onError, hooks...)
	h.mu.Unlock()
}

func (h *HookRegistry) snapshotBefore() []HookFunc {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.beforeRoute[:len(h.beforeRoute):len(h.beforeRoute)]
}

func (h *HookRegistry) snapshotAfter() []HookFunc {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.afterHandler[:len(h.afterHandler):len(h.afterHandler)]
}

func (h *HookRegistry) snapshotOnError() []ErrorHookFunc {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.onError[:len(h.onError):len(h.onError)]
}

// runBeforeRoute executes the before-route phase. Failures are non-fatal.
func (h *HookRegistry) runBeforeRoute(c *Context) {
	runPhase(h.logger, "before-route", h.snapshotBefore(), c)
}

// runAfterHandler executes the global after-handler phase followed by the
// route-scoped hooks. Failures are non-fatal.
func (h *HookRegistry) runAfterHandler(c *Context, route []HookFunc) {
	runPhase(h.logger, "after-handler", h.snapshotAfter(), c)
	runPhase(h.logger, "after-handler", route, c)
}

// runOnError executes recovery hooks: route-scoped first, then global, in
// registration order. Returns true as soon as one hook reports recovery;
// otherwise false, and the caller propagates the original error unchanged.
// A hook that fails internally simply declines recovery.
func (h *HookRegistry) runOnError(c *Context, route []ErrorHookFunc, err error) bool {
	for _, hook := range route {
		if hook(c, err) {
			return true
		}
	}
	for _, hook := range h.snapshotOnError() {
		if hook(c, err) {
			return true
		}
	}
	return false
}

// runPhase invokes hooks in order, logging failures without aborting.
func runPhase(logger *slog.Logger, phase string, hooks []HookFunc, c *Context) {
	for _, hook := range hooks {
		if err := hook(c); err != nil {
			logger.Error("hook failed",
				"phase", phase,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"err", err,
			)
		}
	}
}
