package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiendapos/internal/config"
	"tiendapos/internal/logger"
)

func TestNew_LevelAndFormat(t *testing.T) {
	log := logger.New(&config.LogConfig{Level: "debug", Format: "json"})
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)

	log = logger.New(&config.LogConfig{Level: "nonsense", Format: "console"})
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
}

func TestLogError_Fields(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&config.LogConfig{Level: "info", Format: "json"})
	log.SetOutput(&buf)

	logger.LogError(log, "inventoryApplier", "Apply", errors.New("boom"), logrus.Fields{"sku": "A1"})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "inventoryApplier", entry["component"])
	assert.Equal(t, "Apply", entry["op"])
	assert.Equal(t, "A1", entry["sku"])
	assert.Equal(t, "inventoryApplier.Apply: boom", entry["msg"])
	assert.Equal(t, "error", entry["level"])
}
