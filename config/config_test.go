package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader(`
layout:
  maxPasses: 5
routing:
  gridCell: 0.5
`))
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Layout.MaxPasses)
	assert.Equal(t, 0.5, cfg.Routing.GridCell)
	// Untouched values keep their defaults.
	assert.Equal(t, Default().Collision.OverlapAreaThreshold, cfg.Collision.OverlapAreaThreshold)
	assert.Equal(t, []float64{6, 12, 18, 24, 36, 48, 72, 120}, cfg.Cables.StockLengths)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero grid cell", "routing:\n  gridCell: 0\n"},
		{"unsorted stock", "cables:\n  stockLengths: [12, 6]\n"},
		{"negative passes", "layout:\n  maxPasses: -1\n"},
		{"bad yaml", "layout: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pixelsPerInch: 4\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4.0, cfg.PixelsPerInch)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
