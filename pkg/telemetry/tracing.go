package telemetry

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/jhoicas/mfg-console/pkg/config"
)

// Exportadores soportados en OTEL_TRACES_EXPORTER.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
)

// NewTracerProvider arma el proveedor del SDK para el exportador configurado. Con "none" devuelve
// nil y los spans quedan como no-op.
func NewTracerProvider(cfg config.TracingConfig, service string, w io.Writer) (*sdktrace.TracerProvider, error) {
	var exp sdktrace.SpanExporter
	switch cfg.Exporter {
	case "", ExporterNone:
		return nil, nil
	case ExporterStdout:
		e, err := stdouttrace.New(stdouttrace.WithWriter(w))
		if err != nil {
			return nil, fmt.Errorf("exportador stdout: %w", err)
		}
		exp = e
	default:
		return nil, fmt.Errorf("OTEL_TRACES_EXPORTER desconocido %q (valores: %s, %s)", cfg.Exporter, ExporterNone, ExporterStdout)
	}

	ratio := cfg.SampleRatio
	if ratio <= 0 || ratio > 1 {
		ratio = 1
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", service))),
	), nil
}

// Setup instala el proveedor como global. El shutdown devuelto vacía los spans pendientes y es
// seguro de llamar aunque no haya proveedor.
func Setup(cfg config.TracingConfig, service string, w io.Writer) (func(context.Context) error, error) {
	tp, err := NewTracerProvider(cfg, service, w)
	if err != nil {
		return nil, err
	}
	if tp == nil {
		return func(context.Context) error { return nil }, nil
	}
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp.Shutdown, nil
}
