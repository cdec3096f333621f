// Package metrics exports the outcome of a grading run as Prometheus metrics.
//
// The metrics are collected in a private registry and written once, in the text format read by the
// node exporter's textfile collector.
package metrics

import (
	"memgrade/checking"
	"memgrade/state"

	"github.com/prometheus/client_golang/prometheus"
)

type Recorder struct {
	registry *prometheus.Registry

	checkPassed *prometheus.GaugeVec
	checkTick   *prometheus.GaugeVec
	score       prometheus.Gauge
	traceTicks  prometheus.Gauge
	tracePanic  prometheus.Gauge
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		checkPassed: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "memgrade_check_passed",
			Help: "1 if the staged check passed, 0 otherwise",
		}, []string{"check"}),
		checkTick: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "memgrade_check_tick",
			Help: "Failing tick of the staged check, or the last visited tick if it passed",
		}, []string{"check"}),
		score: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "memgrade_score",
			Help: "Number of passed staged checks",
		}),
		traceTicks: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "memgrade_trace_ticks",
			Help: "Number of ticks recorded in the trace",
		}),
		tracePanic: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "memgrade_trace_panic",
			Help: "1 if the kernel recorded an unexpected exception",
		}),
	}
	r.registry.MustRegister(r.checkPassed, r.checkTick, r.score, r.traceTicks, r.tracePanic)
	return r
}

func (r *Recorder) ObserveTrace(trace *state.Trace) {
	r.traceTicks.Set(float64(trace.Len()))
	if trace.Panicked {
		r.tracePanic.Set(1)
	} else {
		r.tracePanic.Set(0)
	}
}

func (r *Recorder) ObserveResponse(resp checking.StageResponse) {
	for _, res := range resp.Results {
		r.checkPassed.WithLabelValues(res.Name).Set(float64(res.Points()))
		r.checkTick.WithLabelValues(res.Name).Set(float64(res.Tick))
	}
	r.score.Set(float64(resp.Score()))
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Write the collected metrics to path, replacing any existing file
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
