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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePattern_Segments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
		want    []Segment
	}{
		{
			name:    "static only",
			pattern: "/api/users",
			want: []Segment{
				{Kind: SegmentStatic, Value: "api"},
				{Kind: SegmentStatic, Value: "users"},
			},
		},
		{
			name:    "named parameters",
			pattern: "/users/:id/posts/:post_id",
			want: []Segment{
				{Kind: SegmentStatic, Value: "users"},
				{Kind: SegmentParam, Value: "id"},
				{Kind: SegmentStatic, Value: "posts"},
				{Kind: SegmentParam, Value: "post_id"},
			},
		},
		{
			name:    "trailing wildcard",
			pattern: "/files/*",
			want: []Segment{
				{Kind: SegmentStatic, Value: "files"},
				{Kind: SegmentWildcard},
			},
		},
		{
			name:    "root",
			pattern: "/",
			want:    nil,
		},
		{
			name:    "empty components discarded",
			pattern: "//users//",
			want: []Segment{
				{Kind: SegmentStatic, Value: "users"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p, err := ParsePattern(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Segments())
			assert.Equal(t, tt.pattern, p.Raw())
		})
	}
}

func TestParsePattern_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
	}{
		{name: "wildcard not last", pattern: "/a/*/b"},
		{name: "wildcard followed by wildcard", pattern: "/a/*/*"},
		{name: "empty parameter name", pattern: "/users/:"},
		{name: "duplicate parameter name", pattern: "/a/:id/:id"},
		{name: "duplicate parameter name deep", pattern: "/a/:id/b/c/:id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParsePattern(tt.pattern)
			require.ErrorIs(t, err, ErrInvalidPattern)
		})
	}
}

func TestMustParsePattern_PanicsOnInvalid(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		MustParsePattern("/a/*/b")
	})
	assert.NotPanics(t, func() {
		MustParsePattern("/a/:id")
	})
}
