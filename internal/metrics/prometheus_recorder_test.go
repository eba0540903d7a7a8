package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheusRecorderCounts(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.IncCall("registerPublisher", ResultOK)
	pr.IncCall("registerPublisher", ResultOK)
	pr.IncHook("setParam", ResultError)
	pr.ObserveForwardDuration("getPid", 10*time.Millisecond)

	if got := testutil.ToFloat64(pr.calls.WithLabelValues("registerPublisher", "ok")); got != 2 {
		t.Errorf("expected 2 calls, got %v", got)
	}
	if got := testutil.ToFloat64(pr.hooks.WithLabelValues("setParam", "error")); got != 1 {
		t.Errorf("expected 1 hook error, got %v", got)
	}
}

func TestNoopRecorderIsSafe(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.IncCall("x", ResultOK)
	r.IncHook("x", ResultPanic)
	r.ObserveForwardDuration("x", time.Second)
}
