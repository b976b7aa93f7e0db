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
	"maps"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// trieNode represents one path component level in the routing trie.
//
// Nodes are immutable once published: Insert clones every node along the
// mutated path and swaps the root pointer, so a reader holding a reference
// to any node can keep traversing it safely while writers make progress.
//
// The tree structure supports three edge types per node:
//  1. static: exact string match (e.g. "users", "api"), keys unique
//  2. param: at most one parameter edge; a second distinct parameter name
//     at the same depth is a registration conflict
//  3. wildcard: terminal catch-all entries keyed by method
type trieNode struct {
	static   map[string]*trieNode   // Literal segment → child
	param    *paramEdge             // Parameter child, nil if none
	wildcard map[string]*RouteEntry // Method → entry for trailing wildcard routes
	handlers map[string]*RouteEntry // Method → entry for routes ending at this node
}

// paramEdge is the single parameter child of a node.
// name is the parameter name without the ':' prefix.
type paramEdge struct {
	name string
	node *trieNode
}

// clone returns a shallow copy of the node: edge maps are copied, child
// pointers are shared. Shared children remain valid because published nodes
// are never mutated in place.
func (n *trieNode) clone() *trieNode {
	c := &trieNode{param: n.param}
	if n.static != nil {
		c.static = maps.Clone(n.static)
	}
	if n.wildcard != nil {
		c.wildcard = maps.Clone(n.wildcard)
	}
	if n.handlers != nil {
		c.handlers = maps.Clone(n.handlers)
	}
	return c
}

// allowedMethods returns the methods registered in m, sorted.
func allowedMethods(m map[string]*RouteEntry) []string {
	allow := make([]string, 0, len(m))
	for method := range m {
		allow = append(allow, method)
	}
	sort.Strings(allow)
	return allow
}

// MatchTrie is the concurrent routing trie mapping (method, pattern) to
// route entries.
//
// Writers serialize on an internal mutex and publish changes with
// copy-on-write path copying: only the nodes along the inserted pattern are
// cloned, the rest of the tree is shared with the previous version, and the
// new root is installed with a single atomic pointer swap. Readers load the
// root once per lookup and traverse without locks, so lookups are wait-free
// with respect to each other and never observe a partially constructed node.
//
// A route inserted before Insert returns is visible to every lookup that
// starts afterwards. Lookups racing an insert see either the old or the new
// tree, never an intermediate shape. Entries are never removed.
type MatchTrie struct {
	root       atomic.Pointer[trieNode]
	mu         sync.Mutex // Serializes writers
	foldedCase bool       // Case-insensitive static matching
}

// NewMatchTrie creates an empty trie. When foldedCase is true, static
// segments match case-insensitively (parameter and wildcard captures keep
// the original path casing).
func NewMatchTrie(foldedCase bool) *MatchTrie {
	t := &MatchTrie{foldedCase: foldedCase}
	t.root.Store(&trieNode{})
	return t
}

// fold normalizes a static segment according to the trie's case mode.
func (t *MatchTrie) fold(segment string) string {
	if t.foldedCase {
		return strings.ToLower(segment)
	}
	return segment
}

// Insert registers an entry for the given method and parsed pattern.
//
// Returns an error wrapping ErrRouteConflict when the (method, pattern) pair
// is already registered, or when the pattern introduces a parameter name
// that differs from an existing parameter at the same depth. On error the
// trie is left exactly as it was; readers never see a partial insertion
// because the new root is only published after the whole path is built.
func (t *MatchTrie) Insert(method string, pattern *PathPattern, entry *RouteEntry) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	newRoot, err := t.insert(t.root.Load(), pattern.Segments(), method, pattern.Raw(), entry)
	if err != nil {
		return err
	}
	t.root.Store(newRoot)
	return nil
}

// insert builds the copy-on-write replacement subtree for one registration.
// It returns the replacement for n; n itself is never modified.
func (t *MatchTrie) insert(n *trieNode, segments []Segment, method, pattern string, entry *RouteEntry) (*trieNode, error) {
	c := n.clone()

	if len(segments) == 0 {
		if c.handlers == nil {
			c.handlers = make(map[string]*RouteEntry, 2)
		}
		if _, exists := c.handlers[method]; exists {
			return nil, fmt.Errorf("%w: %s %q already registered", ErrRouteConflict, method, pattern)
		}
		c.handlers[method] = entry
		return c, nil
	}

	seg := segments[0]
	switch seg.Kind {
	case SegmentStatic:
		key := t.fold(seg.Value)
		child := n.static[key]
		if child == nil {
			child = &trieNode{}
		}
		newChild, err := t.insert(child, segments[1:], method, pattern, entry)
		if err != nil {
			return nil, err
		}
		if c.static == nil {
			c.static = make(map[string]*trieNode, 4)
		}
		c.static[key] = newChild

	case SegmentParam:
		child := &trieNode{}
		if n.param != nil {
			if n.param.name != seg.Value {
				return nil, fmt.Errorf("%w: parameter :%s conflicts with existing :%s in %q",
					ErrRouteConflict, seg.Value, n.param.name, pattern)
			}
			child = n.param.node
		}
		newChild, err := t.insert(child, segments[1:], method, pattern, entry)
		if err != nil {
			return nil, err
		}
		c.param = &paramEdge{name: seg.Value, node: newChild}

	case SegmentWildcard:
		// ParsePattern guarantees the wildcard is the final segment.
		if c.wildcard == nil {
			c.wildcard = make(map[string]*RouteEntry, 2)
		}
		if _, exists := c.wildcard[method]; exists {
			return nil, fmt.Errorf("%w: %s %q already registered", ErrRouteConflict, method, pattern)
		}
		c.wildcard[method] = entry
	}

	return c, nil
}

// Lookup finds the entry for the given method and request path, binding
// extracted parameters into params.
//
// Matching precedence at every level is fixed: exact static child first,
// then the parameter edge, then a trailing wildcard which consumes the rest
// of the path (bound to the "*" parameter). The descent is deterministic and
// bounded by the path depth.
//
// Returns ErrRouteNotFound when no trie path matches, or a
// *MethodNotAllowedError listing the registered methods when the path
// matches for other methods only. Lookup never mutates the trie.
func (t *MatchTrie) Lookup(method, path string, params *Params) (*RouteEntry, error) {
	n := t.root.Load()

	// Parse segments on the fly with string slicing; strings.Split would
	// allocate a slice per request.
	start := 0
	if start < len(path) && path[start] == '/' {
		start = 1
	}

	for start < len(path) {
		end := start
		for end < len(path) && path[end] != '/' {
			end++
		}
		segment := path[start:end]

		// Empty components (doubled or trailing slashes) are skipped, the
		// same way ParsePattern discards them.
		if segment == "" {
			start = end + 1
			continue
		}

		if next := n.static[t.fold(segment)]; next != nil {
			n = next
		} else if n.param != nil {
			params.add(n.param.name, segment)
			n = n.param.node
		} else if len(n.wildcard) > 0 {
			entry := n.wildcard[method]
			if entry == nil {
				return nil, &MethodNotAllowedError{Allow: allowedMethods(n.wildcard)}
			}
			params.add(WildcardParam, strings.Trim(path[start:], "/"))
			return entry, nil
		} else {
			return nil, ErrRouteNotFound
		}

		start = end + 1
	}

	// All components consumed: the route must terminate exactly here.
	entry := n.handlers[method]
	if entry == nil {
		if len(n.handlers) > 0 {
			return nil, &MethodNotAllowedError{Allow: allowedMethods(n.handlers)}
		}
		return nil, ErrRouteNotFound
	}
	return entry, nil
}

// Len returns the number of registered entries. Intended for diagnostics;
// it walks the current tree snapshot.
func (t *MatchTrie) Len() int {
	return t.root.Load().countEntries()
}

func (n *trieNode) countEntries() int {
	count := len(n.handlers) + len(n.wildcard)
	for _, child := range n.static {
		count += child.countEntries()
	}
	if n.param != nil {
		count += n.param.node.countEntries()
	}
	return count
}
