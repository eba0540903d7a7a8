// Package metrics records relay observability counters.
//
// Components receive a Recorder by injection; the default NoopRecorder keeps
// the hot path free of nil checks and costs nothing when metrics are off.
package metrics

import "time"

// ResultLabel classifies a call or hook outcome.
type ResultLabel string

const (
	ResultOK    ResultLabel = "ok"
	ResultError ResultLabel = "error"
	ResultPanic ResultLabel = "panic"
	ResultFault ResultLabel = "fault"
)

// Recorder receives relay metric events.
type Recorder interface {
	// IncCall counts one inbound call by method and forwarding outcome.
	IncCall(method string, result ResultLabel)
	// IncHook counts one hook execution by method and outcome.
	IncHook(method string, result ResultLabel)
	// ObserveForwardDuration records the upstream round-trip time.
	ObserveForwardDuration(method string, d time.Duration)
}

// NoopRecorder is the default Recorder; all methods do nothing.
type NoopRecorder struct{}

func (NoopRecorder) IncCall(string, ResultLabel) {}

func (NoopRecorder) IncHook(string, ResultLabel) {}

func (NoopRecorder) ObserveForwardDuration(string, time.Duration) {}
