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

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strada.dev/router"
)

func findMetric(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func labelMap(m *dto.Metric) map[string]string {
	out := make(map[string]string, len(m.GetLabel()))
	for _, lp := range m.GetLabel() {
		out[lp.GetName()] = lp.GetValue()
	}
	return out
}

func TestMetrics_RecordsRequestCountAndDuration(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	r := router.MustNew()
	r.Use(New(WithRegisterer(reg)))
	require.NoError(t, r.GET("/users/:id", func(c *router.Context) error {
		return c.NoContent(http.StatusOK)
	}))

	for range 3 {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users/42", nil))
	}

	counter := findMetric(t, reg, "http_requests_total")
	require.NotNil(t, counter)
	require.Len(t, counter.GetMetric(), 1)

	m := counter.GetMetric()[0]
	assert.Equal(t, float64(3), m.GetCounter().GetValue())

	// The route pattern, not the raw path, is the label value.
	labels := labelMap(m)
	assert.Equal(t, "GET", labels["method"])
	assert.Equal(t, "/users/:id", labels["route"])
	assert.Equal(t, "200", labels["status"])

	histogram := findMetric(t, reg, "http_request_duration_seconds")
	require.NotNil(t, histogram)
	assert.Equal(t, uint64(3), histogram.GetMetric()[0].GetHistogram().GetSampleCount())
}

func TestMetrics_Namespace(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	r := router.MustNew()
	r.Use(New(WithRegisterer(reg), WithNamespace("api")))
	require.NoError(t, r.GET("/x", func(c *router.Context) error {
		return c.NoContent(http.StatusOK)
	}))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.NotNil(t, findMetric(t, reg, "api_http_requests_total"))
	assert.Nil(t, findMetric(t, reg, "http_requests_total"))
}

func TestMetrics_ErrorStatusLabeled(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	r := router.MustNew()
	r.Use(New(WithRegisterer(reg)))
	require.NoError(t, r.GET("/fail", func(c *router.Context) error {
		return router.NewError(http.StatusBadGateway, "UPSTREAM_DOWN", "backend offline")
	}))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))

	counter := findMetric(t, reg, "http_requests_total")
	require.NotNil(t, counter)
	require.Len(t, counter.GetMetric(), 1)
	assert.Equal(t, "502", labelMap(counter.GetMetric()[0])["status"])
}
