package emitter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/yairfalse/idlescan/pkg/resource"
)

// PrometheusEmitter writes report counts in the node_exporter textfile format.
type PrometheusEmitter struct {
	path     string
	registry *prometheus.Registry

	resources *prometheus.GaugeVec
	total     prometheus.Gauge
	errors    prometheus.Gauge
}

// NewPrometheusEmitter creates a textfile emitter writing to path.
func NewPrometheusEmitter(path string) (*PrometheusEmitter, error) {
	e := &PrometheusEmitter{
		path:     path,
		registry: prometheus.NewRegistry(),
		resources: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "idlescan_resources",
			Help: "Report records by resource type and status.",
		}, []string{"resource_type", "status"}),
		total: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "idlescan_report_records",
			Help: "Total records in the last report.",
		}),
		errors: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "idlescan_report_errors",
			Help: "Error records in the last report.",
		}),
	}

	for _, c := range []prometheus.Collector{e.resources, e.total, e.errors} {
		if err := e.registry.Register(c); err != nil {
			return nil, fmt.Errorf("register metric: %w", err)
		}
	}

	return e, nil
}

// Emit sets the gauges from the report and writes the textfile.
func (e *PrometheusEmitter) Emit(_ context.Context, report *resource.Report) error {
	e.resources.Reset()

	errs := 0
	for _, c := range report.Counts() {
		e.resources.WithLabelValues(c.ResourceType, c.Status).Set(float64(c.Records))
		if c.Status == resource.StatusError {
			errs += c.Records
		}
	}
	e.total.Set(float64(report.Len()))
	e.errors.Set(float64(errs))

	if err := os.MkdirAll(filepath.Dir(e.path), 0o755); err != nil {
		return fmt.Errorf("create metrics dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(e.path, e.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}

	log.Debug().Str("path", e.path).Int("records", report.Len()).Msg("metrics textfile written")
	return nil
}

// Close is a no-op.
func (e *PrometheusEmitter) Close() error {
	return nil
}
