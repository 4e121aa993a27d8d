package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// InitMeter installs a periodic OTLP/HTTP meter provider as the global one.
func InitMeter(ctx context.Context, cfg Config, res Resource) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create metric exporter: %w", err)
	}

	r, err := newResource(res)
	if err != nil {
		return nil, err
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.MetricInterval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.MetricInterval))
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(r),
	)
	otel.SetMeterProvider(mp)
	return mp, nil
}

// Ingest outcomes recorded by Metrics.RecordIngest.
const (
	OutcomeTranscribed = "transcribed"
	OutcomeNoSpeech    = "no_speech"
	OutcomeFailed      = "failed"
)

// Metrics holds the recorder's OpenTelemetry instruments.
type Metrics struct {
	ingestTotal      metric.Int64Counter
	ingestDuration   metric.Float64Histogram
	audioBytes       metric.Int64Histogram
	blobFailures     metric.Int64Counter
	providerCalls    metric.Int64Counter
	providerDuration metric.Float64Histogram
}

// NewMetrics creates the instruments on meter. Pass otel.Meter(...) from the
// global provider, or a provider from tests.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var (
		m   Metrics
		err error
	)
	if m.ingestTotal, err = meter.Int64Counter("recorder.ingest.total",
		metric.WithDescription("Audio ingestions by outcome")); err != nil {
		return nil, fmt.Errorf("create recorder.ingest.total: %w", err)
	}
	if m.ingestDuration, err = meter.Float64Histogram("recorder.ingest.duration",
		metric.WithDescription("Wall time of one ingestion"), metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("create recorder.ingest.duration: %w", err)
	}
	if m.audioBytes, err = meter.Int64Histogram("recorder.ingest.audio_bytes",
		metric.WithDescription("Size of uploaded audio"), metric.WithUnit("By")); err != nil {
		return nil, fmt.Errorf("create recorder.ingest.audio_bytes: %w", err)
	}
	if m.blobFailures, err = meter.Int64Counter("recorder.blob.upload_failures",
		metric.WithDescription("Blob uploads that failed and were skipped")); err != nil {
		return nil, fmt.Errorf("create recorder.blob.upload_failures: %w", err)
	}
	if m.providerCalls, err = meter.Int64Counter("recorder.provider.calls",
		metric.WithDescription("Backend provider calls by status")); err != nil {
		return nil, fmt.Errorf("create recorder.provider.calls: %w", err)
	}
	if m.providerDuration, err = meter.Float64Histogram("recorder.provider.duration",
		metric.WithDescription("Backend provider call latency"), metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("create recorder.provider.duration: %w", err)
	}
	return &m, nil
}

// DefaultMetrics builds Metrics on the global meter provider.
func DefaultMetrics() (*Metrics, error) {
	return NewMetrics(otel.Meter(tracerName))
}

// RecordIngest records one finished ingestion.
func (m *Metrics) RecordIngest(ctx context.Context, outcome string, audioBytes int64, d time.Duration) {
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.ingestTotal.Add(ctx, 1, attrs)
	m.ingestDuration.Record(ctx, d.Seconds(), attrs)
	m.audioBytes.Record(ctx, audioBytes)
}

// RecordBlobFailure counts an upload the pipeline skipped past.
func (m *Metrics) RecordBlobFailure(ctx context.Context, backend string) {
	m.blobFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("backend", backend)))
}

// RecordProviderCall records one backend call.
func (m *Metrics) RecordProviderCall(ctx context.Context, name string, err error, d time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.providerCalls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", name),
		attribute.String("status", status),
	))
	m.providerDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("provider", name)))
}
