package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	calls           *prom.CounterVec
	hooks           *prom.CounterVec
	forwardDuration *prom.HistogramVec
}

// NewPrometheusRecorder constructs and registers the relay metrics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		calls: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "rosautodoc",
			Name:      "relay_calls_total",
			Help:      "Inbound master API calls by method and outcome",
		}, []string{"method", "result"}),
		hooks: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "rosautodoc",
			Name:      "relay_hook_results_total",
			Help:      "Pre-forward hook executions by method and outcome",
		}, []string{"method", "result"}),
		forwardDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "rosautodoc",
			Name:      "relay_forward_duration_seconds",
			Help:      "Duration of upstream master round trips",
			Buckets:   prom.DefBuckets,
		}, []string{"method"}),
	}
	reg.MustRegister(pr.calls, pr.hooks, pr.forwardDuration)
	return pr
}

func (p *PrometheusRecorder) IncCall(method string, result ResultLabel) {
	if p == nil || p.calls == nil {
		return
	}
	p.calls.WithLabelValues(method, string(result)).Inc()
}

func (p *PrometheusRecorder) IncHook(method string, result ResultLabel) {
	if p == nil || p.hooks == nil {
		return
	}
	p.hooks.WithLabelValues(method, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveForwardDuration(method string, d time.Duration) {
	if p == nil || p.forwardDuration == nil {
		return
	}
	p.forwardDuration.WithLabelValues(method).Observe(d.Seconds())
}

// HTTPHandler serves the registry's metrics over HTTP.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
