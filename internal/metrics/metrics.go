// Package metrics provides recording hooks for build, script, and scan
// activity. Components receive a Recorder by injection; the default
// NoopRecorder keeps the hot paths free of nil checks and of Prometheus
// when nothing scrapes them.
package metrics

import "time"

// Outcome labels shared by build and script counters.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Recorder defines the observability hooks.
type Recorder interface {
	ObserveBuildDuration(builder string, d time.Duration)
	IncBuildOutcome(builder, outcome string)
	IncScriptRun(outcome string)
	AddScanFiles(result string, n int)
}

// NoopRecorder is the default Recorder; it does nothing.
type NoopRecorder struct{}

func (NoopRecorder) ObserveBuildDuration(string, time.Duration) {}
func (NoopRecorder) IncBuildOutcome(string, string)             {}
func (NoopRecorder) IncScriptRun(string)                        {}
func (NoopRecorder) AddScanFiles(string, int)                   {}
