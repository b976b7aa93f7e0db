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
)

// ObservabilityRecorder provides lifecycle hooks around request dispatch for
// metrics, tracing, and access logging.
//
// Lifecycle:
//  1. Router calls OnRequestStart(ctx, req) → (enrichedCtx, state).
//     The enriched context is attached to the request regardless of state,
//     so trace propagation works even for excluded paths.
//  2. If state != nil, the router wraps the ResponseWriter via
//     WrapResponseWriter; a nil state excludes the request from recording.
//  3. After dispatch, OnRequestEnd(ctx, state, writer, routePattern) is
//     called when state != nil. Implementations type-assert the writer to
//     ResponseInfo for status and size, and use routePattern (never the raw
//     path) as the metric/trace identity to keep cardinality bounded.
//
// Thread safety: all methods must be safe for concurrent use.
type ObservabilityRecorder interface {
	// OnRequestStart is called before routing begins. Return a nil state to
	// exclude the request from recording.
	OnRequestStart(ctx context.Context, req *http.Request) (context.Context, any)

	// WrapResponseWriter wraps the writer to capture response metadata.
	// The wrapped writer should implement ResponseInfo.
	WrapResponseWriter(w http.ResponseWriter, state any) http.ResponseWriter

	// OnRequestEnd is called after dispatch completes, only when the state
	// returned by OnRequestStart was non-nil. routePattern is the matched
	// pattern (e.g. "/users/:id") or a sentinel like "_not_found".
	OnRequestEnd(ctx context.Context, state any, writer http.ResponseWriter, routePattern string)
}
