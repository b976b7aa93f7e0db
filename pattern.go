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
	"fmt"
	"strings"
)

// SegmentKind identifies how one pattern segment matches a path component.
type SegmentKind uint8

const (
	// SegmentStatic matches its literal text exactly.
	SegmentStatic SegmentKind = iota

	// SegmentParam matches exactly one non-empty path component and binds
	// the component text to the parameter name.
	SegmentParam

	// SegmentWildcard matches one or more trailing components and binds the
	// remainder (joined by '/') to the "*" parameter. Only valid as the
	// final segment of a pattern.
	SegmentWildcard
)

// WildcardParam is the parameter key bound to the remainder of the path when
// a wildcard segment matches.
const WildcardParam = "*"

// Segment is one '/'-delimited component of a parsed route pattern.
// Value holds the literal text for static segments and the parameter name
// (without the ':' prefix) for parameter segments; it is empty for wildcards.
type Segment struct {
	Kind  SegmentKind
	Value string
}

// PathPattern is a parsed route pattern: an ordered sequence of segments.
// A pattern with zero segments matches the root path only.
type PathPattern struct {
	raw      string
	segments []Segment
}

// ParsePattern parses a route pattern string into a PathPattern.
//
// Components are split on '/', discarding empty leading and trailing
// components. A component starting with ':' becomes a parameter segment, a
// bare "*" becomes a wildcard segment, and everything else is static text.
//
// Returns an error wrapping ErrInvalidPattern when a wildcard appears
// anywhere but last, a parameter name is empty, or a parameter name is
// duplicated within the pattern.
//
// Example:
//
//	p, err := router.ParsePattern("/users/:id/files/*")
func ParsePattern(pattern string) (*PathPattern, error) {
	var segments []Segment
	var paramNames []string

	for component := range strings.SplitSeq(strings.Trim(pattern, "/"), "/") {
		if component == "" {
			continue
		}

		// A wildcard seen on a previous iteration must have been the final
		// component; any segment parsed after it is invalid.
		if len(segments) > 0 && segments[len(segments)-1].Kind == SegmentWildcard {
			return nil, fmt.Errorf("%w: wildcard must be the final segment in %q", ErrInvalidPattern, pattern)
		}

		switch {
		case component == WildcardParam:
			segments = append(segments, Segment{Kind: SegmentWildcard})

		case strings.HasPrefix(component, ":"):
			name := component[1:]
			if name == "" {
				return nil, fmt.Errorf("%w: empty parameter name in %q", ErrInvalidPattern, pattern)
			}
			for _, existing := range paramNames {
				if existing == name {
					return nil, fmt.Errorf("%w: duplicate parameter %q in %q", ErrInvalidPattern, name, pattern)
				}
			}
			paramNames = append(paramNames, name)
			segments = append(segments, Segment{Kind: SegmentParam, Value: name})

		default:
			segments = append(segments, Segment{Kind: SegmentStatic, Value: component})
		}
	}

	return &PathPattern{raw: pattern, segments: segments}, nil
}

// MustParsePattern parses a pattern and panics on error.
// Intended for statically known patterns in tests and examples.
func MustParsePattern(pattern string) *PathPattern {
	p, err := ParsePattern(pattern)
	if err != nil {
		panic(fmt.Sprintf("router.MustParsePattern: %v", err))
	}
	return p
}

// Raw returns the original pattern string.
func (p *PathPattern) Raw() string { return p.raw }

// Segments returns the parsed segments. The returned slice must not be
// modified.
func (p *PathPattern) Segments() []Segment { return p.segments }

// String returns the original pattern string.
func (p *PathPattern) String() string { return p.raw }
