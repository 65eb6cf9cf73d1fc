package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/registrar/internal/domain/config"
)

func TestNewLogger(t *testing.T) {
	t.Run("warn by default", func(t *testing.T) {
		t.Setenv("REGISTRAR_LOG_LEVEL", "")
		var buf bytes.Buffer
		log := newLogger(&buf, &config.RuntimeConfig{})

		log.Info("hidden")
		log.Warn("shown")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
		assert.NotContains(t, buf.String(), "time=")
	})

	t.Run("level from environment", func(t *testing.T) {
		t.Setenv("REGISTRAR_LOG_LEVEL", "INFO")
		var buf bytes.Buffer
		log := newLogger(&buf, &config.RuntimeConfig{})

		log.Info("shown")
		log.Debug("hidden")
		assert.Contains(t, buf.String(), "shown")
		assert.NotContains(t, buf.String(), "hidden")
	})

	t.Run("debug flag", func(t *testing.T) {
		var buf bytes.Buffer
		log := newLogger(&buf, &config.RuntimeConfig{Debug: true, RunID: "run-1"})

		log.Debug("details")
		assert.Contains(t, buf.String(), "details")
		assert.Contains(t, buf.String(), "run=run-1")
		assert.Contains(t, buf.String(), "source=")
	})

	t.Run("json output", func(t *testing.T) {
		t.Setenv("REGISTRAR_LOG_LEVEL", "info")
		var buf bytes.Buffer
		log := newLogger(&buf, &config.RuntimeConfig{JSON: true, RunID: "run-2"})

		log.Info("deployed", "address", "0x01")

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "deployed", line["msg"])
		assert.Equal(t, "run-2", line["run"])
		assert.Equal(t, "0x01", line["address"])
	})

	t.Run("string attribute named source", func(t *testing.T) {
		t.Setenv("REGISTRAR_LOG_LEVEL", "info")
		for _, cfg := range []*config.RuntimeConfig{{}, {Debug: true}, {JSON: true}} {
			var buf bytes.Buffer
			log := newLogger(&buf, cfg)

			require.NotPanics(t, func() {
				log.With("source", "static").Info("bound")
			})
			assert.Contains(t, buf.String(), "static")
		}
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelError, parseLevel("error", slog.LevelInfo))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning", slog.LevelInfo))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus", slog.LevelInfo))
}

func TestShortPath(t *testing.T) {
	assert.Equal(t, "internal/usecase/send_value.go", shortPath("/home/dev/registrar/internal/usecase/send_value.go"))
	assert.Equal(t, "main.go", shortPath("/elsewhere/main.go"))
}
