package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeusync/motion/internal/core/observability/log"
	"github.com/zeusync/motion/internal/core/transition"
)

func TestLoad(t *testing.T) {
	t.Run("Empty input yields defaults", func(t *testing.T) {
		cfg, err := Load(strings.NewReader(""))
		require.NoError(t, err)
		require.Equal(t, Default(), cfg)
	})

	t.Run("Overrides", func(t *testing.T) {
		cfg, err := Load(strings.NewReader(`
frame_rate: 120
log_level: debug
spring:
  direction: backward
  back: -200
  fore: 0
  tension: 500
  friction: 20
console:
  enabled: false
`))
		require.NoError(t, err)
		require.Equal(t, 120, cfg.FrameRate)
		require.Equal(t, log.LevelDebug, cfg.LogLevel)
		require.Equal(t, transition.Backward, cfg.Spring.Direction)
		require.Equal(t, -200.0, cfg.Spring.Back)
		require.Equal(t, 500.0, cfg.Spring.Tension)
		require.Equal(t, 20.0, cfg.Spring.Friction)
		require.Equal(t, transition.DefaultThreshold, cfg.Spring.Threshold)
		require.False(t, cfg.Console.Enabled)
	})

	t.Run("Invalid values", func(t *testing.T) {
		tests := []string{
			"frame_rate: 0",
			"spring: {threshold: -1}",
			"console: {enabled: true, addr: ''}",
		}
		for _, in := range tests {
			_, err := Load(strings.NewReader(in))
			require.ErrorIs(t, err, ErrInvalidConfig, in)
		}
	})

	t.Run("Malformed input", func(t *testing.T) {
		_, err := Load(strings.NewReader("spring: {direction: sideways}"))
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "motion.yaml")
	require.NoError(t, os.WriteFile(path, []byte("frame_rate: 30\n"), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 30, cfg.FrameRate)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
