package telemetry_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mfg-console/pkg/config"
	"github.com/jhoicas/mfg-console/pkg/telemetry"
)

func TestNewTracerProvider_StdoutExportaSpans(t *testing.T) {
	var buf bytes.Buffer
	tp, err := telemetry.NewTracerProvider(config.TracingConfig{Exporter: telemetry.ExporterStdout}, "mfg-console", &buf)
	require.NoError(t, err)
	require.NotNil(t, tp)

	_, span := tp.Tracer("test").Start(context.Background(), "remove_from_location")
	span.End()
	require.NoError(t, tp.Shutdown(context.Background()))

	assert.Contains(t, buf.String(), "remove_from_location")
	assert.Contains(t, buf.String(), "mfg-console")
}

func TestNewTracerProvider_NoneSinProveedor(t *testing.T) {
	for _, exp := range []string{"", telemetry.ExporterNone} {
		tp, err := telemetry.NewTracerProvider(config.TracingConfig{Exporter: exp}, "mfg-console", nil)
		require.NoError(t, err)
		assert.Nil(t, tp)
	}

	shutdown, err := telemetry.Setup(config.TracingConfig{Exporter: telemetry.ExporterNone}, "mfg-console", nil)
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestNewTracerProvider_ExportadorDesconocido(t *testing.T) {
	_, err := telemetry.NewTracerProvider(config.TracingConfig{Exporter: "jaeger"}, "mfg-console", nil)
	assert.ErrorContains(t, err, "jaeger")
}
