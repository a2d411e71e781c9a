package observability

import (
	"context"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/trace"

	"candidate-intake/internal/common/logger"
)

type Observability struct {
	meterProvider      *metric.MeterProvider
	meter              otelmetric.Meter
	tracer             trace.Tracer
	validationDuration otelmetric.Float64Histogram
	submissionDuration otelmetric.Float64Histogram
	submissionRetries  otelmetric.Int64Counter
}

// New wires an OpenTelemetry meter whose readings are exposed through reg
// (the Prometheus default registerer when nil). An exporter failure leaves
// a usable instance that records nothing.
func New(serviceName string, reg promclient.Registerer, log logger.Logger) *Observability {
	o := &Observability{tracer: otel.Tracer(serviceName)}

	opts := []prometheus.Option{}
	if reg != nil {
		opts = append(opts, prometheus.WithRegisterer(reg))
	}
	exporter, err := prometheus.New(opts...)
	if err != nil {
		if log != nil {
			log.Warn("Failed to create Prometheus exporter", map[string]interface{}{"error": err.Error()})
		}
		return o
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	meter := provider.Meter(serviceName)

	o.meterProvider = provider
	o.meter = meter

	o.validationDuration, _ = meter.Float64Histogram(
		"intake.validation.duration",
		otelmetric.WithDescription("Step validation duration"),
		otelmetric.WithUnit("ms"),
	)

	o.submissionDuration, _ = meter.Float64Histogram(
		"intake.submission.duration",
		otelmetric.WithDescription("Submission duration including retries"),
		otelmetric.WithUnit("ms"),
	)

	o.submissionRetries, _ = meter.Int64Counter(
		"intake.submission.retries",
		otelmetric.WithDescription("Retries performed by submissions"),
	)

	return o
}

// NewNoop returns an instance that records nothing; spans go to the global
// tracer provider.
func NewNoop() *Observability {
	return &Observability{tracer: otel.Tracer("candidate-intake")}
}

// StartSpan starts a span on the global tracer provider.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if o == nil || o.tracer == nil {
		return otel.Tracer("candidate-intake").Start(ctx, name, trace.WithAttributes(attrs...))
	}
	return o.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (o *Observability) RecordValidation(ctx context.Context, step int, valid bool, duration time.Duration) {
	if o == nil || o.validationDuration == nil {
		return
	}
	o.validationDuration.Record(ctx, float64(duration.Microseconds())/1000, otelmetric.WithAttributes(
		attribute.Int("step", step),
		attribute.Bool("valid", valid),
	))
}

func (o *Observability) RecordSubmission(ctx context.Context, success bool, retries int, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(attribute.Bool("success", success))
	if o.submissionDuration != nil {
		o.submissionDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
	if o.submissionRetries != nil {
		o.submissionRetries.Add(ctx, int64(retries), attrs)
	}
}

func (o *Observability) Shutdown() {
	if o == nil || o.meterProvider == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = o.meterProvider.Shutdown(ctx)
}
