// Package collector defines the collector interface and the sequential audit runner.
package collector

import (
	"context"
	"errors"
	"time"

	"github.com/aws/smithy-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yairfalse/idlescan/pkg/resource"
)

// Collector enumerates one resource category.
// Keep it small: identity + Collect.
type Collector interface {
	// Name returns the collector identifier (e.g., "ebs", "s3")
	Name() string

	// ResourceType returns the report label for this category.
	ResourceType() string

	// Region returns the region the underlying client is bound to.
	Region() string

	// Collect returns the records for this category, or an error when the
	// category as a whole could not be collected. Partial records returned
	// alongside an error are discarded.
	Collect(ctx context.Context) ([]resource.Record, error)
}

// Registry holds collectors in run order.
type Registry struct {
	collectors []Collector
}

// NewRegistry creates a registry with the given collectors, in order.
func NewRegistry(collectors ...Collector) *Registry {
	return &Registry{collectors: collectors}
}

// Register appends a collector.
func (r *Registry) Register(c Collector) {
	r.collectors = append(r.collectors, c)
}

// All returns the collectors in run order.
func (r *Registry) All() []Collector {
	out := make([]Collector, len(r.collectors))
	copy(out, r.collectors)
	return out
}

// Names returns the collector names in run order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.collectors))
	for _, c := range r.collectors {
		names = append(names, c.Name())
	}
	return names
}

// Metrics receives one result per collector run.
type Metrics interface {
	RecordCollect(ctx context.Context, result resource.ScanResult)
}

// Runner drives the collectors against one report.
type Runner struct {
	logger  zerolog.Logger
	tracer  trace.Tracer
	metrics Metrics
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the runner logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithTracer sets the tracer used for per-collector spans.
func WithTracer(t trace.Tracer) Option {
	return func(r *Runner) { r.tracer = t }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// NewRunner creates a runner. Without options it logs through the global
// zerolog logger and traces through the global OTEL provider.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		logger: log.Logger,
		tracer: otel.Tracer("idlescan/collector"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes every collector in order and returns the frozen report
// together with one ScanResult per collector. A failing collector
// contributes a single Error record; Run itself never fails.
func (r *Runner) Run(ctx context.Context, reg *Registry) (*resource.Report, []resource.ScanResult) {
	report := resource.NewReport()
	collectors := reg.All()
	results := make([]resource.ScanResult, 0, len(collectors))

	r.logger.Info().Int("collectors", len(collectors)).Msg("starting audit")

	for _, c := range collectors {
		results = append(results, r.runOne(ctx, c, report))
	}

	report.Freeze()
	r.logger.Info().Int("records", report.Len()).Msg("audit complete")
	return report, results
}

func (r *Runner) runOne(ctx context.Context, c Collector, report *resource.Report) resource.ScanResult {
	ctx, span := r.tracer.Start(ctx, "collector."+c.Name(), trace.WithAttributes(
		attribute.String("collector", c.Name()),
		attribute.String("region", c.Region()),
	))
	defer span.End()

	start := time.Now()
	records, err := c.Collect(ctx)
	duration := time.Since(start)

	if err != nil {
		records = []resource.Record{resource.ErrorRecord(c.ResourceType(), resource.NotApplicable, c.Region(), err)}

		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		event := r.logger.Warn().Ctx(ctx).Err(err).Str("collector", c.Name())
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			event = event.Str("error_code", apiErr.ErrorCode())
		}
		event.Msg("collector failed")
	} else {
		r.logger.Debug().Ctx(ctx).
			Str("collector", c.Name()).
			Int("count", len(records)).
			Dur("duration", duration).
			Msg("collector complete")
	}

	report.Append(records...)
	span.SetAttributes(attribute.Int("records", len(records)))

	result := resource.ScanResult{
		Collector: c.Name(),
		Region:    c.Region(),
		Records:   len(records),
		Duration:  duration,
		Error:     err,
	}
	if r.metrics != nil {
		r.metrics.RecordCollect(ctx, result)
	}
	return result
}
