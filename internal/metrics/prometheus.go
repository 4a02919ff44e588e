package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "docweave"

// PrometheusRecorder implements Recorder on a Prometheus registry.
type PrometheusRecorder struct {
	buildDuration *prom.HistogramVec
	builds        *prom.CounterVec
	scriptRuns    *prom.CounterVec
	scanFiles     *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the docweave metrics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		buildDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Duration of builder runs",
			Buckets:   prom.DefBuckets,
		}, []string{"builder"}),
		builds: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "builds_total",
			Help:      "Builder runs by outcome",
		}, []string{"builder", "outcome"}),
		scriptRuns: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "script_runs_total",
			Help:      "Script runs by outcome",
		}, []string{"outcome"}),
		scanFiles: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "scan_files_total",
			Help:      "Scanned files by result",
		}, []string{"result"}),
	}
	reg.MustRegister(pr.buildDuration, pr.builds, pr.scriptRuns, pr.scanFiles)
	return pr
}

func (p *PrometheusRecorder) ObserveBuildDuration(builder string, d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.WithLabelValues(builder).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(builder, outcome string) {
	if p == nil || p.builds == nil {
		return
	}
	p.builds.WithLabelValues(builder, outcome).Inc()
}

func (p *PrometheusRecorder) IncScriptRun(outcome string) {
	if p == nil || p.scriptRuns == nil {
		return
	}
	p.scriptRuns.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) AddScanFiles(result string, n int) {
	if p == nil || p.scanFiles == nil || n <= 0 {
		return
	}
	p.scanFiles.WithLabelValues(result).Add(float64(n))
}

// Handler serves the registry in Prometheus exposition format.
func Handler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
