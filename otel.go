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
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// instrumentationName identifies this library to OpenTelemetry providers.
const instrumentationName = "strada.dev/router"

// OTelRecorder is an ObservabilityRecorder backed by the OpenTelemetry API.
// It creates a server span per request and records request count and
// duration metrics keyed by method, route pattern, and status code.
//
// The recorder uses the global tracer and meter providers, so exporter
// configuration stays with the application. Without a configured SDK all
// operations are no-ops.
type OTelRecorder struct {
	tracer   trace.Tracer
	requests metric.Int64Counter
	duration metric.Float64Histogram
	exclude  map[string]struct{}
}

// OTelOption configures an OTelRecorder.
type OTelOption func(*OTelRecorder)

// WithExcludePaths excludes exact request paths from recording. Typical for
// /health and /metrics endpoints. Trace context propagation still applies.
func WithExcludePaths(paths ...string) OTelOption {
	return func(r *OTelRecorder) {
		for _, p := range paths {
			r.exclude[p] = struct{}{}
		}
	}
}

// NewOTelRecorder creates an OpenTelemetry-backed observability recorder.
//
// Example:
//
//	rec, err := router.NewOTelRecorder(router.WithExcludePaths("/health"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	r := router.MustNew(router.WithObservability(rec))
func NewOTelRecorder(opts ...OTelOption) (*OTelRecorder, error) {
	meter := otel.Meter(instrumentationName)

	requests, err := meter.Int64Counter("http.server.request.count",
		metric.WithDescription("Number of HTTP requests handled"),
	)
	if err != nil {
		return nil, fmt.Errorf("create request counter: %w", err)
	}

	duration, err := meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("HTTP request duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create duration histogram: %w", err)
	}

	r := &OTelRecorder{
		tracer:   otel.Tracer(instrumentationName),
		requests: requests,
		duration: duration,
		exclude:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// otelState is the per-request state threaded between lifecycle calls.
type otelState struct {
	span   trace.Span
	method string
	start  time.Time
}

// OnRequestStart starts a server span and returns the enriched context.
func (r *OTelRecorder) OnRequestStart(ctx context.Context, req *http.Request) (context.Context, any) {
	ctx, span := r.tracer.Start(ctx, req.Method,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", req.URL.Path),
		),
	)

	if _, excluded := r.exclude[req.URL.Path]; excluded {
		// Excluded paths keep the enriched context for downstream
		// propagation but skip recording.
		span.End()
		return ctx, nil
	}

	return ctx, &otelState{span: span, method: req.Method, start: time.Now()}
}

// WrapResponseWriter returns the writer unchanged; the router's own wrapper
// already implements ResponseInfo.
func (r *OTelRecorder) WrapResponseWriter(w http.ResponseWriter, _ any) http.ResponseWriter {
	return w
}

// OnRequestEnd finishes the span and records metrics for the request.
func (r *OTelRecorder) OnRequestEnd(ctx context.Context, state any, writer http.ResponseWriter, routePattern string) {
	s, ok := state.(*otelState)
	if !ok {
		return
	}

	status := http.StatusOK
	if info, ok := writer.(ResponseInfo); ok {
		status = info.StatusCode()
	}

	attrs := []attribute.KeyValue{
		attribute.String("http.request.method", s.method),
		attribute.String("http.route", routePattern),
		attribute.Int("http.response.status_code", status),
	}

	s.span.SetName(s.method + " " + routePattern)
	s.span.SetAttributes(attrs...)
	if status >= http.StatusInternalServerError {
		s.span.SetStatus(codes.Error, http.StatusText(status))
	}
	s.span.End()

	opt := metric.WithAttributes(attrs...)
	r.requests.Add(ctx, 1, opt)
	r.duration.Record(ctx, time.Since(s.start).Seconds(), opt)
}

var _ ObservabilityRecorder = (*OTelRecorder)(nil)
