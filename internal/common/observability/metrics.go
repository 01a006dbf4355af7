package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability exports OpenTelemetry job instruments through the Prometheus registry,
// so they appear on the same /metrics endpoint as the promauto counters.
// The zero value records nothing.
type Observability struct {
	meterProvider *metric.MeterProvider
	jobCounter    otelmetric.Int64Counter
	jobDuration   otelmetric.Float64Histogram
}

// New registers the exporter and installs the meter provider globally. On error
// the returned Observability is still usable and records nothing.
func New(serviceName string) (*Observability, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return &Observability{}, fmt.Errorf("prometheus exporter: %w", err)
	}
	o, err := newWithReader(serviceName, exporter)
	if err != nil {
		return &Observability{}, err
	}
	otel.SetMeterProvider(o.meterProvider)
	return o, nil
}

func newWithReader(serviceName string, reader metric.Reader) (*Observability, error) {
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	meter := provider.Meter(serviceName)

	jobCounter, err := meter.Int64Counter(
		"sponsorship.jobs.processed",
		otelmetric.WithDescription("Sponsorship workflow jobs handled, by task type and worker group"),
	)
	if err != nil {
		return nil, err
	}
	jobDuration, err := meter.Float64Histogram(
		"sponsorship.jobs.duration",
		otelmetric.WithDescription("Time spent answering one sponsorship workflow job"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &Observability{
		meterProvider: provider,
		jobCounter:    jobCounter,
		jobDuration:   jobDuration,
	}, nil
}

// workerGroup mirrors the internal/workers layout: filing lookups under
// data-access, everything answering a user under sponsorship.
func workerGroup(taskType string) string {
	switch taskType {
	case "query-filings":
		return "data-access"
	case "":
		return "unknown"
	}
	return "sponsorship"
}

func jobAttributes(taskType, status string) otelmetric.MeasurementOption {
	return otelmetric.WithAttributes(
		attribute.String("task_type", taskType),
		attribute.String("worker_group", workerGroup(taskType)),
		attribute.String("status", status),
	)
}

func (o *Observability) RecordJobProcessed(ctx context.Context, taskType, status string) {
	if o.jobCounter != nil {
		o.jobCounter.Add(ctx, 1, jobAttributes(taskType, status))
	}
}

func (o *Observability) RecordJobDuration(ctx context.Context, taskType string, duration time.Duration, status string) {
	if o.jobDuration != nil {
		o.jobDuration.Record(ctx, float64(duration.Milliseconds()), jobAttributes(taskType, status))
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = o.meterProvider.Shutdown(ctx)
	}
}
