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

// maxInlineParams is the number of parameters stored in the fixed arrays
// before falling back to the overflow map. Routes rarely exceed this.
const maxInlineParams = 8

// Params collects path parameters extracted during trie lookup.
//
// Storage is hybrid: the first eight parameters live in fixed-size arrays to
// avoid map allocation on the hot path, and any remainder overflows into a
// map. Params is not safe for concurrent use; each request owns its own
// instance via the pooled Context.
type Params struct {
	keys     [maxInlineParams]string
	values   [maxInlineParams]string
	count    int
	overflow map[string]string
}

// add records a parameter binding.
func (p *Params) add(key, value string) {
	if p.count < maxInlineParams {
		p.keys[p.count] = key
		p.values[p.count] = value
		p.count++
		return
	}
	if p.overflow == nil {
		p.overflow = make(map[string]string, 2)
	}
	p.overflow[key] = value
}

// Get returns the value bound to key and whether it was set.
func (p *Params) Get(key string) (string, bool) {
	for i := range p.count {
		if p.keys[i] == key {
			return p.values[i], true
		}
	}
	if p.overflow != nil {
		v, ok := p.overflow[key]
		return v, ok
	}
	return "", false
}

// Len returns the number of bound parameters.
func (p *Params) Len() int {
	return p.count + len(p.overflow)
}

// Map returns all parameters as a freshly allocated map.
// Intended for tests and callers outside the hot path.
func (p *Params) Map() map[string]string {
	m := make(map[string]string, p.Len())
	for i := range p.count {
		m[p.keys[i]] = p.values[i]
	}
	for k, v := range p.overflow {
		m[k] = v
	}
	return m
}

// reset clears the collected parameters for reuse.
func (p *Params) reset() {
	for i := range p.count {
		p.keys[i] = ""
		p.values[i] = ""
	}
	p.count = 0
	p.overflow = nil
}
