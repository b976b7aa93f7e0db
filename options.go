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
	"log/slog"
)

// ErrNilLogger indicates that WithLogger was passed a nil logger.
var ErrNilLogger = errors.New("logger must not be nil")

// Option defines functional options for router configuration.
type Option func(*config)

// config collects router configuration before construction.
type config struct {
	logger          *slog.Logger
	observability   ObservabilityRecorder
	strictChain     bool
	caseInsensitive bool

	nilLogger bool
}

// defaultConfig returns the default router configuration.
func defaultConfig() *config {
	return &config{
		logger:      noopLogger,
		strictChain: true,
	}
}

// validate checks the configuration for errors surfaced by New.
func (cfg *config) validate() error {
	if cfg.nilLogger {
		return ErrNilLogger
	}
	return nil
}

// WithLogger sets the structured logger used for hook failures and
// unrecovered dispatch errors. The default discards all output.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
//	r := router.MustNew(router.WithLogger(logger))
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger == nil {
			cfg.nilLogger = true
			return
		}
		cfg.logger = logger
	}
}

// WithObservability sets the observability recorder invoked around every
// dispatch. Pass an implementation such as NewOTelRecorder, or a custom one.
func WithObservability(recorder ObservabilityRecorder) Option {
	return func(cfg *config) {
		cfg.observability = recorder
	}
}

// WithCaseInsensitivePaths makes static segments match case-insensitively.
// Parameter and wildcard captures keep the original request casing.
//
// Default: case-sensitive.
func WithCaseInsensitivePaths() Option {
	return func(cfg *config) {
		cfg.caseInsensitive = true
	}
}

// WithoutStrictChain disables the guard that panics when a middleware
// invokes its continuation twice. With the guard off, a double invocation
// silently re-executes downstream handlers. Only disable this if the guard
// closure shows up in profiles and the middleware stack is trusted.
//
// Default: strict checking enabled.
func WithoutStrictChain() Option {
	return func(cfg *config) {
		cfg.strictChain = false
	}
}
