package observability

import (
	"context"
	"testing"
)

func TestOtelSampleRatioClamps(t *testing.T) {
	cases := map[string]float64{
		"":     0.1,
		"abc":  0.1,
		"-1":   0,
		"2":    1,
		"0.25": 0.25,
	}
	for raw, want := range cases {
		t.Setenv("OTEL_SAMPLER_RATIO", raw)
		if got := otelSampleRatio(); got != want {
			t.Fatalf("ratio(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestOtelHeadersParsing(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "x-api=1, bad ,=v,k=")
	h := otelHeaders()
	if len(h) != 1 || h["x-api"] != "1" {
		t.Fatalf("unexpected headers: %v", h)
	}
}

func TestBuildTraceExporterNone(t *testing.T) {
	t.Setenv("OTEL_TRACES_EXPORTER", "none")
	exp, err := buildTraceExporter(context.Background(), nil)
	if err != nil || exp != nil {
		t.Fatalf("expected no exporter, got %v %v", exp, err)
	}
}

func TestTracerIsUsableWithoutInit(t *testing.T) {
	_, span := Tracer().Start(context.Background(), "noop")
	span.End()
}
