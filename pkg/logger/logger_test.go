package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taxsetup/pkg/logger"
)

func TestNew_JSONEnProduccion(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Output: &buf})

	log.Named("patch").Info().Int("rows", 3).Msg("importado")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "la salida en producción debe ser JSON")
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "patch", entry["component"])
	assert.EqualValues(t, 3, entry["rows"])
	assert.Equal(t, "importado", entry["message"])
}

func TestNew_RespetaNivel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "warn", Output: &buf})

	log.Info().Msg("no debe aparecer")
	assert.Empty(t, buf.String())

	log.Warn().Msg("sí debe aparecer")
	assert.Contains(t, buf.String(), "sí debe aparecer")
}

func TestNew_DebugSoloConNivelDebug(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Output: &buf})
	log.Debug().Msg("oculto")
	assert.Empty(t, buf.String())

	log = logger.New(logger.Config{Env: "production", Level: "debug", Output: &buf})
	log.Debug().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestNop_NoEscribe(t *testing.T) {
	log := logger.Nop()
	assert.NotPanics(t, func() { log.Error().Msg("descartado") })
}
