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
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTelRecorder_Lifecycle(t *testing.T) {
	t.Parallel()

	rec, err := NewOTelRecorder()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/users/42", nil)
	ctx, state := rec.OnRequestStart(req.Context(), req)
	require.NotNil(t, state)
	assert.NotNil(t, ctx)

	w := httptest.NewRecorder()
	assert.Equal(t, http.ResponseWriter(w), rec.WrapResponseWriter(w, state))

	rw := &responseWriter{ResponseWriter: w}
	rw.WriteHeader(http.StatusOK)
	rec.OnRequestEnd(ctx, state, rw, "/users/:id")
}

func TestOTelRecorder_ExcludedPath(t *testing.T) {
	t.Parallel()

	rec, err := NewOTelRecorder(WithExcludePaths("/health"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	_, state := rec.OnRequestStart(req.Context(), req)
	assert.Nil(t, state)
}

func TestOTelRecorder_EndToEndDispatch(t *testing.T) {
	t.Parallel()

	rec, err := NewOTelRecorder()
	require.NoError(t, err)

	r := MustNew(WithObservability(rec))
	require.NoError(t, r.GET("/x", func(c *Context) error {
		return c.NoContent(http.StatusOK)
	}))

	// Without a configured SDK everything is a no-op; the dispatch must still
	// complete normally.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

type stubRecorder struct {
	started  int
	ended    int
	patterns []string
}

func (s *stubRecorder) OnRequestStart(ctx context.Context, req *http.Request) (context.Context, any) {
	s.started++
	return ctx, s
}

func (s *stubRecorder) WrapResponseWriter(w http.ResponseWriter, _ any) http.ResponseWriter {
	return w
}

func (s *stubRecorder) OnRequestEnd(_ context.Context, _ any, _ http.ResponseWriter, routePattern string) {
	s.ended++
	s.patterns = append(s.patterns, routePattern)
}

func TestObservability_ReceivesRoutePatternSentinels(t *testing.T) {
	t.Parallel()

	rec := &stubRecorder{}
	r := MustNew(WithObservability(rec))
	require.NoError(t, r.GET("/users/:id", func(c *Context) error {
		return c.NoContent(http.StatusOK)
	}))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users/1", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/users/1", nil))

	assert.Equal(t, 3, rec.started)
	assert.Equal(t, 3, rec.ended)
	assert.Equal(t, []string{"/users/:id", patternNotFound, patternMethodNotAllowed}, rec.patterns)
}
