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
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tracingMiddleware records before/after markers around the continuation.
func tracingMiddleware(name string, trace *[]string) MiddlewareFunc {
	return func(next HandlerFunc) HandlerFunc {
		return func(c *Context) error {
			*trace = append(*trace, name+"-before")
			err := next(c)
			*trace = append(*trace, name+"-after")
			return err
		}
	}
}

func TestMiddleware_Ordering(t *testing.T) {
	t.Parallel()
	r := MustNew()

	var trace []string
	r.Use(tracingMiddleware("A", &trace), tracingMiddleware("B", &trace))

	require.NoError(t, r.GET("/x", func(c *Context) error {
		trace = append(trace, "handler")
		return c.NoContent(http.StatusOK)
	}, WithMiddleware(tracingMiddleware("C", &trace))))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, []string{
		"A-before", "B-before", "C-before",
		"handler",
		"C-after", "B-after", "A-after",
	}, trace)
}

func TestMiddleware_ShortCircuit(t *testing.T) {
	t.Parallel()
	r := MustNew()

	handlerRan := false
	r.Use(func(next HandlerFunc) HandlerFunc {
		return func(c *Context) error {
			if c.Request.Header.Get("Authorization") == "" {
				// Short-circuit: produce a response without invoking next.
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			}
			return next(c)
		}
	})

	require.NoError(t, r.GET("/secure", func(c *Context) error {
		handlerRan = true
		return c.NoContent(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/secure", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, handlerRan)

	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, handlerRan)
}

func TestMiddleware_ResultTransform(t *testing.T) {
	t.Parallel()
	r := MustNew()

	r.Use(func(next HandlerFunc) HandlerFunc {
		return func(c *Context) error {
			c.Response.Header().Set("X-Frame-Options", "DENY")
			return next(c)
		}
	})

	require.NoError(t, r.GET("/x", func(c *Context) error {
		return c.String(http.StatusOK, "ok")
	}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func TestMiddleware_DoubleNextPanics(t *testing.T) {
	t.Parallel()
	r := MustNew()

	r.Use(func(next HandlerFunc) HandlerFunc {
		return func(c *Context) error {
			if err := next(c); err != nil {
				return err
			}
			return next(c) // Bug: second invocation.
		}
	})

	require.NoError(t, r.GET("/x", func(c *Context) error {
		return c.NoContent(http.StatusOK)
	}))

	assert.Panics(t, func() {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
	})
}

func TestMiddleware_DoubleNextToleratedWithoutStrictChain(t *testing.T) {
	t.Parallel()
	r := MustNew(WithoutStrictChain())

	calls := 0
	r.Use(func(next HandlerFunc) HandlerFunc {
		return func(c *Context) error {
			if err := next(c); err != nil {
				return err
			}
			return next(c)
		}
	})

	require.NoError(t, r.GET("/x", func(c *Context) error {
		calls++
		return c.NoContent(http.StatusOK)
	}))

	assert.NotPanics(t, func() {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
	})
	assert.Equal(t, 2, calls)
}

func TestMiddleware_ErrorPropagation(t *testing.T) {
	t.Parallel()
	r := MustNew()

	var seen error
	r.Use(func(next HandlerFunc) HandlerFunc {
		return func(c *Context) error {
			seen = next(c)
			return seen
		}
	})

	handlerErr := NewError(http.StatusBadGateway, "UPSTREAM_DOWN", "upstream unavailable")
	require.NoError(t, r.GET("/x", func(c *Context) error {
		return handlerErr
	}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, handlerErr, seen)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "UPSTREAM_DOWN")
}

func TestMiddleware_GroupOrdering(t *testing.T) {
	t.Parallel()
	r := MustNew()

	var trace []string
	r.Use(tracingMiddleware("global", &trace))

	api := r.Group("/api", tracingMiddleware("group", &trace))
	require.NoError(t, api.GET("/x", func(c *Context) error {
		trace = append(trace, "handler")
		return c.NoContent(http.StatusOK)
	}, WithMiddleware(tracingMiddleware("route", &trace))))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/x", nil))

	assert.Equal(t, []string{
		"global-before", "group-before", "route-before",
		"handler",
		"route-after", "group-after", "global-after",
	}, trace)
}
