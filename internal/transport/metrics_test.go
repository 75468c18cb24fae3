// Copyright 2025 Joseph Cumines
//
// Metrics unit tests

package transport

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRecordRequest(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("click_element", "success", 5*time.Millisecond)
	m.RecordRequest("click_element", "success", 3*time.Millisecond)
	m.RecordRequest("click_element", "error", time.Millisecond)
	m.RecordRequest("get_text", "success", time.Millisecond)

	if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("click_element", "success")); got != 2 {
		t.Errorf("click_element success count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("click_element", "error")); got != 1 {
		t.Errorf("click_element error count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("get_text", "success")); got != 1 {
		t.Errorf("get_text success count = %v, want 1", got)
	}
}

func TestMetricsSSE(t *testing.T) {
	m := NewMetrics()

	m.RecordSSEEvent()
	m.RecordSSEEvent()
	if got := testutil.ToFloat64(m.sseEventsTotal); got != 2 {
		t.Errorf("sse events = %v, want 2", got)
	}

	m.SetSSEConnections(3)
	if got := testutil.ToFloat64(m.sseConnections); got != 3 {
		t.Errorf("sse connections = %v, want 3", got)
	}
	m.SetSSEConnections(0)
	if got := testutil.ToFloat64(m.sseConnections); got != 0 {
		t.Errorf("sse connections = %v, want 0", got)
	}
}

func TestMetricsHandlerExposition(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("connect_app", "success", 10*time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"winuse_requests_total",
		"winuse_request_duration_seconds",
		`tool="connect_app"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}

func TestMetricsInstancesAreIsolated(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.RecordRequest("click_element", "success", time.Millisecond)

	if got := testutil.ToFloat64(b.requestsTotal.WithLabelValues("click_element", "success")); got != 0 {
		t.Errorf("instance b saw %v requests, want 0", got)
	}
}
