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
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// Context carries the state of one HTTP request through hooks, middleware,
// and the handler: request/response objects, extracted path parameters,
// decoded query parameters, and a request-scoped value store.
//
// ⚠️ Context is NOT safe for concurrent use and is returned to a pool after
// dispatch. Do not retain a Context beyond the handler's lifetime; copy any
// data you need before starting goroutines.
type Context struct {
	Request  *http.Request       // The HTTP request object
	Response http.ResponseWriter // The HTTP response writer

	router  *Router
	params  Params
	pattern string // Matched route pattern, or a sentinel like "_not_found"

	// query is parsed lazily on first Query call.
	query       map[string]string
	queryParsed bool

	// values holds request-scoped data set by hooks and middleware.
	// Lazily allocated.
	values map[string]any
}

// Param returns the value of the named path parameter bound during route
// matching, or "" if not present. The wildcard remainder is available under
// the "*" key (router.WildcardParam).
//
// Example:
//
//	r.GET("/users/:id", func(c *router.Context) error {
//	    return c.String(http.StatusOK, c.Param("id"))
//	})
func (c *Context) Param(key string) string {
	v, _ := c.params.Get(key)
	return v
}

// Params returns all bound path parameters as a freshly allocated map.
func (c *Context) Params() map[string]string {
	return c.params.Map()
}

// Query returns the decoded value of a query-string parameter, or "" if
// absent. Duplicate keys resolve last-value-wins. Parsing happens once per
// request on first use.
func (c *Context) Query(key string) string {
	if !c.queryParsed {
		c.query = parseQuery(c.Request.URL.RawQuery)
		c.queryParsed = true
	}
	return c.query[key]
}

// parseQuery decodes a raw query string with last-value-wins semantics for
// duplicate keys. Components that fail percent-decoding are skipped.
func parseQuery(raw string) map[string]string {
	if raw == "" {
		return nil
	}
	out := make(map[string]string, 4)
	for pair := range strings.SplitSeq(raw, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		decodedKey, err := url.QueryUnescape(key)
		if err != nil {
			continue
		}
		decodedValue, err := url.QueryUnescape(value)
		if err != nil {
			continue
		}
		out[decodedKey] = decodedValue
	}
	return out
}

// Set stores a request-scoped value. Typically used by before-route hooks
// and middleware to pass data to the handler.
func (c *Context) Set(key string, value any) {
	if c.values == nil {
		c.values = make(map[string]any, 4)
	}
	c.values[key] = value
}

// Get returns a request-scoped value and whether it was set.
func (c *Context) Get(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// RoutePattern returns the pattern of the matched route (e.g. "/users/:id"),
// or a sentinel such as "_not_found" when no route matched. Use this instead
// of the raw path for metrics to keep label cardinality bounded.
func (c *Context) RoutePattern() string {
	return c.pattern
}

// Logger returns the router's logger, or a no-op logger when the Context is
// used outside a router.
func (c *Context) Logger() *slog.Logger {
	if c.router == nil {
		return noopLogger
	}
	return c.router.logger
}

// JSON writes a JSON response with the given status code.
func (c *Context) JSON(status int, body any) error {
	c.Response.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.Response.WriteHeader(status)
	return json.NewEncoder(c.Response).Encode(body)
}

// String writes a plain-text response with the given status code.
func (c *Context) String(status int, body string) error {
	c.Response.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.Response.WriteHeader(status)
	_, err := c.Response.Write([]byte(body))
	return err
}

// NoContent writes a response with the given status code and no body.
func (c *Context) NoContent(status int) error {
	c.Response.WriteHeader(status)
	return nil
}

// Written reports whether the response headers have been written.
func (c *Context) Written() bool {
	if rw, ok := c.Response.(*responseWriter); ok {
		return rw.Written()
	}
	return false
}

// NewContext creates a standalone context for the given request and
// response. In normal operation contexts come from the pool; use this only
// for testing hooks and middleware outside a dispatch.
func NewContext(w http.ResponseWriter, r *http.Request) *Context {
	return &Context{Request: r, Response: w}
}

// reset clears the context for reuse by the pool.
func (c *Context) reset() {
	c.Request = nil
	c.Response = nil
	c.router = nil
	c.pattern = ""
	c.query = nil
	c.queryParsed = false
	c.values = nil
	c.params.reset()
}
