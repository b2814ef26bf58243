package storage

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("no .lodgeconfig.yaml returns defaults", func(t *testing.T) {
		dir := t.TempDir()
		s, err := Init(dir, "")
		require.NoError(t, err)
		defer s.Close()

		cfg, err := s.LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, DefaultAllowDuplicateReservations, cfg.AllowDuplicateReservations)
		assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	})

	t.Run("full .lodgeconfig.yaml loads all values", func(t *testing.T) {
		dir := t.TempDir()

		configContent := `allow_duplicate_reservations: true
log_level: debug
`
		err := os.WriteFile(filepath.Join(dir, ".lodgeconfig.yaml"), []byte(configContent), 0644)
		require.NoError(t, err)

		cfg, err := LoadConfigAt(dir)
		require.NoError(t, err)

		assert.True(t, cfg.AllowDuplicateReservations)
		assert.Equal(t, "debug", cfg.LogLevel)

		level, err := cfg.SlogLevel()
		require.NoError(t, err)
		assert.Equal(t, slog.LevelDebug, level)
	})

	t.Run("partial .lodgeconfig.yaml merges with defaults", func(t *testing.T) {
		dir := t.TempDir()

		err := os.WriteFile(filepath.Join(dir, ".lodgeconfig.yaml"), []byte("allow_duplicate_reservations: true\n"), 0644)
		require.NoError(t, err)

		cfg, err := LoadConfigAt(dir)
		require.NoError(t, err)

		assert.True(t, cfg.AllowDuplicateReservations)
		assert.Equal(t, DefaultLogLevel, cfg.LogLevel) // default
	})

	t.Run("invalid YAML returns error with filename", func(t *testing.T) {
		dir := t.TempDir()

		configContent := `log_level: [invalid yaml
this is not valid
`
		err := os.WriteFile(filepath.Join(dir, ".lodgeconfig.yaml"), []byte(configContent), 0644)
		require.NoError(t, err)

		_, err = LoadConfigAt(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ".lodgeconfig.yaml")
	})

	t.Run("unknown log level returns error", func(t *testing.T) {
		dir := t.TempDir()

		err := os.WriteFile(filepath.Join(dir, ".lodgeconfig.yaml"), []byte("log_level: loud\n"), 0644)
		require.NoError(t, err)

		_, err = LoadConfigAt(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "loud")
	})

	t.Run("empty .lodgeconfig.yaml returns defaults", func(t *testing.T) {
		dir := t.TempDir()

		err := os.WriteFile(filepath.Join(dir, ".lodgeconfig.yaml"), []byte(""), 0644)
		require.NoError(t, err)

		cfg, err := LoadConfigAt(dir)
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		name string
		want slog.Level
	}{
		{"", slog.LevelWarn},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLogLevel(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigPath(t *testing.T) {
	dir := t.TempDir()
	s, err := Init(dir, "")
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, filepath.Join(dir, ".lodgeconfig.yaml"), s.ConfigPath())
}
