package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 64, cfg.ClipLength)
	assert.Equal(t, 10, cfg.AverageOverNClips)
	assert.Equal(t, 150, cfg.ResultNClips)
	assert.Equal(t, 10, cfg.LoopRate)
	assert.Equal(t, 5, cfg.TopK)
	assert.Equal(t, 448, cfg.CropSize)
	assert.Equal(t, 224, cfg.ResizeSize)
	assert.False(t, cfg.UseGPU)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CLIP_LENGTH", "16")
	t.Setenv("RESULT_N_CLIPS", "30")
	t.Setenv("USE_GPU", "true")
	t.Setenv("MODEL_PATH", "/opt/models/net.onnx")

	cfg := Load()
	assert.Equal(t, 16, cfg.ClipLength)
	assert.Equal(t, 30, cfg.ResultNClips)
	assert.True(t, cfg.UseGPU)
	assert.Equal(t, "/opt/models/net.onnx", cfg.ModelPath)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("CLIP_LENGTH", "not-a-number")
	t.Setenv("USE_GPU", "maybe")

	cfg := Load()
	assert.Equal(t, 64, cfg.ClipLength)
	assert.False(t, cfg.UseGPU)
}
