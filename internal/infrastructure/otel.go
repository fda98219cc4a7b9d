package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"punchcli/internal/config"
	apperrors "punchcli/internal/errors"
)

const (
	ServiceName = config.AppName
	MeterName   = "punchcli"
)

// OTelConfig holds OpenTelemetry configuration
type OTelConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	TraceExporter  string // "stdout", "none"
	TraceFile      string // stdout exporter target; stderr when empty
	EnableMetrics  bool
	MetricsFile    string // Prometheus text file written on flush
	SampleRatio    float64
}

// OTelProviders holds the OpenTelemetry providers
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	Registry       *promclient.Registry
	Logger         *slog.Logger

	metricsFile string
	traceOut    io.Closer
}

// DefaultOTelConfig returns a configuration with tracing and metrics off
func DefaultOTelConfig() *OTelConfig {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	return &OTelConfig{
		ServiceName:    ServiceName,
		ServiceVersion: config.AppVersion,
		Environment:    env,
		TraceExporter:  "none",
		EnableMetrics:  false,
		SampleRatio:    1.0,
	}
}

// OTelConfigFrom maps the telemetry section of the application config.
func OTelConfigFrom(cfg config.TelemetryConfig) *OTelConfig {
	out := DefaultOTelConfig()
	if cfg.ServiceName != "" {
		out.ServiceName = cfg.ServiceName
	}
	if cfg.Environment != "" {
		out.Environment = cfg.Environment
	}
	if cfg.TraceExporter != "" {
		out.TraceExporter = cfg.TraceExporter
	}
	out.TraceFile = cfg.TraceFile
	out.EnableMetrics = cfg.EnableMetrics
	out.MetricsFile = cfg.MetricsFile
	return out
}

// InitializeOTel initializes tracing and metrics. Disabled signals fall
// back to no-op providers so callers never need nil checks.
func InitializeOTel(cfg *OTelConfig, logger *slog.Logger) (*OTelProviders, error) {
	if cfg == nil {
		cfg = DefaultOTelConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx := context.Background()

	logger.DebugContext(ctx, "Initializing OpenTelemetry",
		slog.String("service", cfg.ServiceName),
		slog.String("version", cfg.ServiceVersion),
		slog.String("environment", cfg.Environment),
		slog.String("trace_exporter", cfg.TraceExporter),
		slog.Bool("metrics_enabled", cfg.EnableMetrics))

	res, err := createResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	providers := &OTelProviders{
		Tracer: tracenoop.NewTracerProvider().Tracer(MeterName),
		Meter:  metricnoop.NewMeterProvider().Meter(MeterName),
		Logger: logger,
	}

	if err := initializeTracing(ctx, cfg, res, providers); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if cfg.EnableMetrics {
		if err := initializeMetrics(ctx, cfg, res, providers); err != nil {
			providers.Shutdown(ctx)
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return providers, nil
}

// createResource creates the OpenTelemetry resource
func createResource(cfg *OTelConfig) (*resource.Resource, error) {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		semconv.DeploymentEnvironmentName(cfg.Environment),
		attribute.String("service.instance.id", generateInstanceID()),
	), nil
}

// initializeTracing sets up OpenTelemetry tracing
func initializeTracing(ctx context.Context, cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	var out io.Writer = os.Stderr

	switch cfg.TraceExporter {
	case "", "none":
		return nil
	case "stdout":
		if cfg.TraceFile != "" {
			if err := os.MkdirAll(filepath.Dir(cfg.TraceFile), 0755); err != nil {
				return fmt.Errorf("failed to create trace directory: %w", err)
			}
			f, err := os.OpenFile(cfg.TraceFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
			if err != nil {
				return fmt.Errorf("failed to open trace file: %w", err)
			}
			providers.traceOut = f
			out = f
		}
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}

	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(out),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRatio)),
	)

	providers.TracerProvider = tp
	providers.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(cfg.ServiceVersion))

	otel.SetTracerProvider(tp)

	providers.Logger.DebugContext(ctx, "Tracing initialized",
		slog.String("exporter", cfg.TraceExporter),
		slog.String("file", cfg.TraceFile),
		slog.Float64("sample_ratio", cfg.SampleRatio))

	return nil
}

// initializeMetrics sets up a Prometheus-backed meter on a private registry
func initializeMetrics(ctx context.Context, cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	registry := promclient.NewRegistry()

	exporter, err := prometheus.New(
		prometheus.WithRegisterer(registry),
		prometheus.WithoutScopeInfo(),
	)
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	providers.MeterProvider = mp
	providers.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(cfg.ServiceVersion))
	providers.Registry = registry
	providers.metricsFile = cfg.MetricsFile

	otel.SetMeterProvider(mp)

	providers.Logger.DebugContext(ctx, "Metrics initialized",
		slog.String("exporter", "prometheus"),
		slog.String("file", cfg.MetricsFile))

	return nil
}

// FlushMetrics writes the current metric values to the configured
// Prometheus text file. It is a no-op when metrics or the file are off.
func (p *OTelProviders) FlushMetrics() error {
	if p.Registry == nil || p.metricsFile == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(p.metricsFile), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := promclient.WriteToTextfile(p.metricsFile, p.Registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}

// BusinessMetrics holds the pipeline instruments
type BusinessMetrics struct {
	RecordsScanned    metric.Int64Counter
	RecordsNormalized metric.Int64Counter
	RecordsDropped    metric.Int64Counter
	ExportsWritten    metric.Int64Counter
	ExportBytes       metric.Int64Counter
	StageDuration     metric.Float64Histogram
	Errors            metric.Int64Counter
}

// CreateBusinessMetrics creates application-specific metrics
func CreateBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	recordsScanned, err := meter.Int64Counter(
		"punch_records_scanned_total",
		metric.WithDescription("Raw punch records read from workbooks"),
	)
	if err != nil {
		return nil, err
	}

	recordsNormalized, err := meter.Int64Counter(
		"punch_records_normalized_total",
		metric.WithDescription("Attendance records produced by normalization"),
	)
	if err != nil {
		return nil, err
	}

	recordsDropped, err := meter.Int64Counter(
		"punch_records_dropped_total",
		metric.WithDescription("Raw records discarded during normalization"),
	)
	if err != nil {
		return nil, err
	}

	exportsWritten, err := meter.Int64Counter(
		"punch_exports_written_total",
		metric.WithDescription("Report files written"),
	)
	if err != nil {
		return nil, err
	}

	exportBytes, err := meter.Int64Counter(
		"punch_export_bytes_total",
		metric.WithDescription("Bytes of report files written"),
	)
	if err != nil {
		return nil, err
	}

	stageDuration, err := meter.Float64Histogram(
		"punch_stage_duration_seconds",
		metric.WithDescription("Pipeline stage duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	errorsTotal, err := meter.Int64Counter(
		"punch_errors_total",
		metric.WithDescription("Pipeline failures by error type"),
	)
	if err != nil {
		return nil, err
	}

	return &BusinessMetrics{
		RecordsScanned:    recordsScanned,
		RecordsNormalized: recordsNormalized,
		RecordsDropped:    recordsDropped,
		ExportsWritten:    exportsWritten,
		ExportBytes:       exportBytes,
		StageDuration:     stageDuration,
		Errors:            errorsTotal,
	}, nil
}

// Shutdown gracefully shuts down OpenTelemetry providers, flushing the
// metrics file first.
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	var errs []error

	if err := p.FlushMetrics(); err != nil {
		errs = append(errs, err)
	}

	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if p.traceOut != nil {
		if err := p.traceOut.Close(); err != nil {
			errs = append(errs, fmt.Errorf("trace file close: %w", err))
		}
		p.traceOut = nil
	}

	if len(errs) > 0 {
		return fmt.Errorf("opentelemetry shutdown errors: %v", errs)
	}

	p.Logger.DebugContext(ctx, "OpenTelemetry shutdown complete")
	return nil
}

// generateInstanceID generates a unique instance identifier
func generateInstanceID() string {
	hostname, _ := os.Hostname()
	return fmt.Sprintf("%s-%d", hostname, time.Now().Unix())
}

// AddSpanEvent adds an event to the current span with structured attributes
func AddSpanEvent(ctx context.Context, name string, attributes map[string]interface{}) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(toAttributes(attributes)...))
}

// RecordError records an error on the current span
func RecordError(ctx context.Context, err error, options ...trace.EventOption) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() || err == nil {
		return
	}

	span.RecordError(err, options...)
	span.SetStatus(codes.Error, err.Error())
}

// SetSpanAttributes sets attributes on the current span
func SetSpanAttributes(ctx context.Context, attributes map[string]interface{}) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.SetAttributes(toAttributes(attributes)...)
}

func toAttributes(attributes map[string]interface{}) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(attributes))
	for k, v := range attributes {
		switch val := v.(type) {
		case string:
			attrs = append(attrs, attribute.String(k, val))
		case int:
			attrs = append(attrs, attribute.Int(k, val))
		case int64:
			attrs = append(attrs, attribute.Int64(k, val))
		case float64:
			attrs = append(attrs, attribute.Float64(k, val))
		case bool:
			attrs = append(attrs, attribute.Bool(k, val))
		default:
			attrs = append(attrs, attribute.String(k, fmt.Sprintf("%v", val)))
		}
	}
	return attrs
}

// RecordStageMetrics records one pipeline stage's duration and, on
// failure, its error type.
func RecordStageMetrics(ctx context.Context, metrics *BusinessMetrics, stage string, duration time.Duration, err error) {
	if metrics == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.StageDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("status", status),
	))

	if err != nil {
		metrics.Errors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("stage", stage),
			attribute.String("error.type", errorType(err)),
		))
	}
}

// RecordNormalizeMetrics records scan and normalization volumes.
func RecordNormalizeMetrics(ctx context.Context, metrics *BusinessMetrics, scanned, normalized int) {
	if metrics == nil {
		return
	}
	metrics.RecordsScanned.Add(ctx, int64(scanned))
	metrics.RecordsNormalized.Add(ctx, int64(normalized))
	if dropped := scanned - normalized; dropped > 0 {
		metrics.RecordsDropped.Add(ctx, int64(dropped))
	}
}

// RecordExportMetrics records one written report file.
func RecordExportMetrics(ctx context.Context, metrics *BusinessMetrics, format string, bytes int64) {
	if metrics == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("format", format))
	metrics.ExportsWritten.Add(ctx, 1, attrs)
	metrics.ExportBytes.Add(ctx, bytes, attrs)
}

func errorType(err error) string {
	if t := apperrors.GetErrorType(err); t != "" {
		return string(t)
	}
	return fmt.Sprintf("%T", err)
}
