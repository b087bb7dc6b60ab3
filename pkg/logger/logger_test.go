package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mfg-console/pkg/logger"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, logger.ParseLevel(" DEBUG "))
	assert.Equal(t, zerolog.WarnLevel, logger.ParseLevel("warn"))
	assert.Equal(t, zerolog.InfoLevel, logger.ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, logger.ParseLevel("verbose"))
}

func TestNew_JSONConServicioYComponente(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Service: "mfg-console", Out: &buf})

	stock := log.Component("stock")
	stock.Info().Str("item_id", "I1").Msg("recepción registrada")
	stock.Debug().Msg("no se escribe")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)
	var ev map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &ev))
	assert.Equal(t, "mfg-console", ev["service"])
	assert.Equal(t, "stock", ev["component"])
	assert.Equal(t, "I1", ev["item_id"])
	assert.Equal(t, "recepción registrada", ev["message"])
}
