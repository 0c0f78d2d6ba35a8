package ai

import (
	"path/filepath"
	"testing"

	"posecam/internal/config"
	"posecam/internal/logger"

	"github.com/stretchr/testify/assert"
)

func TestNewTFLiteEngine_MissingModel(t *testing.T) {
	cfg := &config.Config{ModelPath: filepath.Join(t.TempDir(), "missing.tflite")}

	engine, err := NewTFLiteEngine(cfg, logger.Discard())

	assert.Nil(t, engine)
	assert.ErrorContains(t, err, "model file not found")
}

func TestTFLiteEngine_CloseIsIdempotent(t *testing.T) {
	engine := &TFLiteEngine{}

	assert.NoError(t, engine.Close())
	assert.NoError(t, engine.Close())
}
