package tracing

import (
	"context"
	"testing"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type captureExporter struct {
	endpoint string
}

func (e *captureExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	return nil
}

func (e *captureExporter) Shutdown(ctx context.Context) error { return nil }

func TestInitTracerDisabledSkipsExporter(t *testing.T) {
	t.Setenv("TRACING_ENABLED", "false")

	called := false
	orig := newTraceExporter
	defer func() { newTraceExporter = orig }()
	newTraceExporter = func(ctx context.Context, endpoint string) (sdktrace.SpanExporter, error) {
		called = true
		return &captureExporter{}, nil
	}

	tp, tracer, err := InitTracer(context.Background(), "stockduel-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tp == nil || tracer == nil {
		t.Fatal("expected provider and tracer")
	}
	if called {
		t.Fatal("exporter should not be built when tracing is disabled")
	}
}

func TestInitTracerUsesConfiguredEndpoint(t *testing.T) {
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "otel-collector:4317")

	exp := &captureExporter{}
	orig := newTraceExporter
	defer func() { newTraceExporter = orig }()
	newTraceExporter = func(ctx context.Context, endpoint string) (sdktrace.SpanExporter, error) {
		exp.endpoint = endpoint
		return exp, nil
	}

	tp, tracer, err := InitTracer(context.Background(), "stockduel-api")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tracer == nil {
		t.Fatal("expected tracer")
	}
	if exp.endpoint != "otel-collector:4317" {
		t.Fatalf("endpoint = %s, want otel-collector:4317", exp.endpoint)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := tp.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestSamplerFromEnv(t *testing.T) {
	t.Setenv("OTEL_TRACES_SAMPLER_RATIO", "")
	if got := samplerFromEnv().Description(); got != sdktrace.AlwaysSample().Description() {
		t.Fatalf("default sampler = %s", got)
	}

	t.Setenv("OTEL_TRACES_SAMPLER_RATIO", "0.25")
	want := sdktrace.ParentBased(sdktrace.TraceIDRatioBased(0.25)).Description()
	if got := samplerFromEnv().Description(); got != want {
		t.Fatalf("sampler = %s, want %s", got, want)
	}

	t.Setenv("OTEL_TRACES_SAMPLER_RATIO", "not-a-ratio")
	if got := samplerFromEnv().Description(); got != sdktrace.AlwaysSample().Description() {
		t.Fatalf("sampler for bad ratio = %s", got)
	}
}
