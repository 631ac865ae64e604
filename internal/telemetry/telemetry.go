// Package telemetry exposes run statistics as Prometheus gauges written to
// a node-exporter textfile.
package telemetry

import (
	"fmt"
	"time"

	"github.com/dotcommander/qmreport/internal/scoring"
	"github.com/dotcommander/qmreport/internal/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "qmreport"

// Snapshot is the state of one run.
type Snapshot struct {
	Entities int
	Notable  int
	Sections int
	Tiers    map[types.Metric]scoring.TierCounts
}

// Recorder holds the gauges of one run in a private registry.
type Recorder struct {
	registry *prometheus.Registry

	entities  prometheus.Gauge
	notable   prometheus.Gauge
	sections  prometheus.Gauge
	tierGauge *prometheus.GaugeVec
	stageTime *prometheus.GaugeVec
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		entities: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "entities",
			Help:      "Number of entities in the analysed export",
		}),
		notable: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "notable_entities",
			Help:      "Number of entities selected for the multi-metric comparison",
		}),
		sections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sections",
			Help:      "Number of sections in the generated report",
		}),
		tierGauge: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tier_entities",
			Help:      "Entities per metric and risk tier",
		}, []string{"metric", "tier"}),
		stageTime: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Wall time of each pipeline stage",
		}, []string{"stage"}),
	}
}

// Observe records a run snapshot.
func (r *Recorder) Observe(s Snapshot) {
	r.entities.Set(float64(s.Entities))
	r.notable.Set(float64(s.Notable))
	r.sections.Set(float64(s.Sections))
	for m, counts := range s.Tiers {
		for _, tier := range types.Tiers() {
			r.tierGauge.WithLabelValues(string(m), string(tier)).Set(float64(counts.Get(tier)))
		}
	}
}

// ObserveStage records how long a stage took.
func (r *Recorder) ObserveStage(stage string, d time.Duration) {
	r.stageTime.WithLabelValues(stage).Set(d.Seconds())
}

// Registry returns the registry holding the run gauges.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes every gauge to path in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("error writing metrics file: %w", err)
	}
	return nil
}
