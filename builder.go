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

import "errors"

// Builder collects route definitions from any discovery mechanism (explicit
// calls, declarative configuration, code generation) and applies them to a
// Router in one pass. The router core stays agnostic of how routes are
// discovered; everything funnels through Handle.
//
// Example:
//
//	b := router.NewBuilder()
//	b.Route(http.MethodGet, "/users/:id", getUser).Middleware(auth)
//	b.Route(http.MethodPost, "/users", createUser)
//	if err := b.Apply(r); err != nil {
//	    log.Fatal(err)
//	}
type Builder struct {
	defs []*RouteDef
}

// RouteDef is one collected (method, pattern, handler, options) tuple.
type RouteDef struct {
	method  string
	pattern string
	handler HandlerFunc
	opts    []RouteOption
}

// NewBuilder creates an empty route builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Route adds a definition and returns it for fluent configuration.
func (b *Builder) Route(method, pattern string, handler HandlerFunc) *RouteDef {
	def := &RouteDef{method: method, pattern: pattern, handler: handler}
	b.defs = append(b.defs, def)
	return def
}

// Middleware attaches route-scoped middleware to the definition.
func (d *RouteDef) Middleware(mw ...MiddlewareFunc) *RouteDef {
	d.opts = append(d.opts, WithMiddleware(mw...))
	return d
}

// PreHandler attaches pre-handler hooks to the definition.
func (d *RouteDef) PreHandler(hooks ...HookFunc) *RouteDef {
	d.opts = append(d.opts, WithPreHandlerHook(hooks...))
	return d
}

// AfterHandler attaches after-handler hooks to the definition.
func (d *RouteDef) AfterHandler(hooks ...HookFunc) *RouteDef {
	d.opts = append(d.opts, WithAfterHandlerHook(hooks...))
	return d
}

// OnError attaches route-scoped recovery hooks to the definition.
func (d *RouteDef) OnError(hooks ...ErrorHookFunc) *RouteDef {
	d.opts = append(d.opts, WithErrorHook(hooks...))
	return d
}

// Apply registers every collected definition against the router, in the
// order they were added. All registrations are attempted; the joined errors
// of failed ones are returned, so one bad definition does not mask the rest.
func (b *Builder) Apply(r *Router) error {
	var errs []error
	for _, def := range b.defs {
		if err := r.Handle(def.method, def.pattern, def.handler, def.opts...); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
