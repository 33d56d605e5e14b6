package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Observations(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveCall("get index", "success", 20*time.Millisecond)
	m.ObserveCall("get index", "success", 10*time.Millisecond)
	m.ObserveCall("login", "upstream_error", time.Millisecond)
	m.PreferenceFallback("user")
	m.ClientIDCreated()

	if got := testutil.ToFloat64(m.UpstreamRequestsTotal.WithLabelValues("get index", "success")); got != 2 {
		t.Fatalf("expected 2 successful index calls, got %v", got)
	}
	if got := testutil.ToFloat64(m.UpstreamRequestsTotal.WithLabelValues("login", "upstream_error")); got != 1 {
		t.Fatalf("expected 1 failed login, got %v", got)
	}
	if got := testutil.ToFloat64(m.PreferenceFallbacksTotal.WithLabelValues("user")); got != 1 {
		t.Fatalf("expected 1 fallback, got %v", got)
	}
	if got := testutil.ToFloat64(m.ClientIDsCreatedTotal); got != 1 {
		t.Fatalf("expected 1 created client id, got %v", got)
	}
}

func TestNew_SeparateRegistries(t *testing.T) {
	New(prometheus.NewRegistry())
	New(prometheus.NewRegistry())
}
