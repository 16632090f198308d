// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"gotest.tools/v3/assert"
)

func TestStartCall(t *testing.T) {
	m := New()
	m.StartCall("read_file")("ok")
	m.StartCall("read_file")("denied")
	m.StartCall("read_file")("ok")

	assert.Equal(t, testutil.ToFloat64(m.calls.WithLabelValues("read_file", "ok")), float64(2))
	assert.Equal(t, testutil.ToFloat64(m.calls.WithLabelValues("read_file", "denied")), float64(1))
	assert.Equal(t, testutil.ToFloat64(m.inFlight), float64(0))
	assert.Equal(t, testutil.CollectAndCount(m.duration), 1)
}

func TestSetResources(t *testing.T) {
	m := New()
	m.SetResources("memory", 42)
	assert.Equal(t, testutil.ToFloat64(m.resources.WithLabelValues("memory")), float64(42))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.StartCall("read_file")("ok")
	m.SetResources("disk", 1)
	assert.Assert(t, m.Registry() == nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, rec.Code, http.StatusNotFound)
}

func TestHandler(t *testing.T) {
	m := New()
	m.StartCall("list_files")("empty")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Assert(t, strings.Contains(rec.Body.String(), `corpus_mcp_tool_calls_total{outcome="empty",tool="list_files"} 1`))
}

func TestSanitizeLabel(t *testing.T) {
	assert.Equal(t, sanitizeLabel(""), "unknown")
	assert.Equal(t, sanitizeLabel("a b"), "a_b")
	assert.Equal(t, len(sanitizeLabel(strings.Repeat("x", 100))), maxLabelLen)
}
