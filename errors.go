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
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidPattern indicates a malformed route pattern at registration time.
	// The registration call fails; existing routes are unaffected.
	ErrInvalidPattern = errors.New("invalid route pattern")

	// ErrRouteConflict indicates a duplicate (method, pattern) registration or
	// an ambiguous parameter name at the same trie depth.
	ErrRouteConflict = errors.New("route conflict")

	// ErrRouteNotFound indicates that no route matches the requested path.
	ErrRouteNotFound = errors.New("route not found")

	// ErrMethodNotAllowed indicates that the path matches registered routes
	// but none for the requested method.
	ErrMethodNotAllowed = errors.New("method not allowed")

	// ErrNilHandler indicates that a route was registered without a handler.
	ErrNilHandler = errors.New("handler must not be nil")
)

// Error is a structured error carried across the dispatch boundary.
// Unrecovered errors are mapped to a response with the error's status and a
// stable machine-readable code; Message and Details are client-safe and never
// include internal stack information.
type Error struct {
	Status  int    // HTTP status code
	Code    string // Stable machine-readable code (e.g. "ROUTE_NOT_FOUND")
	Message string // Client-safe message
	Details any    // Optional structured details (omitted when nil)
	Err     error  // Wrapped cause, not exposed to clients
}

// NewError creates a structured error with the given status, code, and message.
func NewError(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error { return e.Err }

// WithDetails returns a copy of the error with structured details attached.
func (e *Error) WithDetails(details any) *Error {
	clone := *e
	clone.Details = details
	return &clone
}

// MethodNotAllowedError is returned by lookups when the path exists but the
// requested method has no registered handler. Allow lists the methods that do,
// sorted for a deterministic Allow header.
type MethodNotAllowedError struct {
	Allow []string
}

// Error implements the error interface.
func (e *MethodNotAllowedError) Error() string {
	return fmt.Sprintf("method not allowed (allow: %v)", e.Allow)
}

// Is reports whether the target matches ErrMethodNotAllowed, so callers can
// use errors.Is without knowing the concrete type.
func (e *MethodNotAllowedError) Is(target error) bool {
	return target == ErrMethodNotAllowed
}

// errorResponse converts an arbitrary dispatch error into the structured
// Error written to the client. Unknown errors collapse to a generic 500 so
// internal details never leak into response bodies.
func errorResponse(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	var mna *MethodNotAllowedError
	if errors.As(err, &mna) {
		return NewError(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	}

	if errors.Is(err, ErrRouteNotFound) {
		return NewError(http.StatusNotFound, "ROUTE_NOT_FOUND", "route not found")
	}

	return NewError(http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}
