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

func TestParseQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want map[string]string
	}{
		{name: "empty", raw: "", want: nil},
		{name: "single", raw: "a=1", want: map[string]string{"a": "1"}},
		{name: "multiple", raw: "a=1&b=2", want: map[string]string{"a": "1", "b": "2"}},
		{name: "last value wins", raw: "a=1&a=2&a=3", want: map[string]string{"a": "3"}},
		{name: "percent decoding", raw: "msg=hello%20world", want: map[string]string{"msg": "hello world"}},
		{name: "plus as space", raw: "msg=hello+world", want: map[string]string{"msg": "hello world"}},
		{name: "missing value", raw: "flag", want: map[string]string{"flag": ""}},
		{name: "empty pairs skipped", raw: "a=1&&b=2", want: map[string]string{"a": "1", "b": "2"}},
		{name: "undecodable skipped", raw: "bad=%zz&good=1", want: map[string]string{"good": "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, parseQuery(tt.raw))
		})
	}
}

func TestContext_SetGet(t *testing.T) {
	t.Parallel()

	c := NewContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("user", "alice")
	v, ok := c.Get("user")
	require.True(t, ok)
	assert.Equal(t, "alice", v)

	c.Set("user", "bob")
	v, _ = c.Get("user")
	assert.Equal(t, "bob", v)
}

func TestContext_QueryCachedPerRequest(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/?a=1", nil)
	c := NewContext(httptest.NewRecorder(), req)

	assert.Equal(t, "1", c.Query("a"))

	// The raw query is parsed once; later mutations are not observed.
	req.URL.RawQuery = "a=2"
	assert.Equal(t, "1", c.Query("a"))
}

func TestContext_WritersAndStatus(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: w}
	c := NewContext(rw, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.False(t, c.Written())
	require.NoError(t, c.JSON(http.StatusCreated, map[string]string{"id": "1"}))
	assert.True(t, c.Written())
	assert.Equal(t, http.StatusCreated, rw.StatusCode())
	assert.Positive(t, rw.Size())

	// Duplicate status writes are suppressed.
	rw.WriteHeader(http.StatusTeapot)
	assert.Equal(t, http.StatusCreated, rw.StatusCode())
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestContext_LoggerFallback(t *testing.T) {
	t.Parallel()

	c := NewContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, NoopLogger(), c.Logger())
}
