package main

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmax-ai/haze/pkg/datasource"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	cwd, err := os.Getwd()
	require.NoError(t, err)

	assert.Equal(t, datasource.Embedded, cfg.Source)
	assert.Equal(t, filepath.Join(cwd, "haze.db"), cfg.DBPath)
	assert.Equal(t, 50*time.Millisecond, cfg.FrameInterval)
	assert.Equal(t, 3*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 80, cfg.MinWidth)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
	assert.Empty(t, cfg.MetricsAddr)
	assert.False(t, cfg.Sound)
}

func TestLoadConfig_Precedence(t *testing.T) {
	t.Setenv("HAZE_FRAME_INTERVAL", "80ms")
	t.Setenv("HAZE_MIN_WIDTH", "60")
	t.Setenv("HAZE_NO_RAIN", "true")

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, 80*time.Millisecond, cfg.FrameInterval)
	assert.Equal(t, 60, cfg.MinWidth)
	assert.True(t, cfg.NoRain)

	t.Setenv("HAZE_FETCH_TIMEOUT", "1s")
	cfg, err = LoadConfig([]string{"--frame-interval", "30ms", "--no-rain=false", "--fetch-timeout", "0s"})
	require.NoError(t, err)
	assert.Equal(t, 30*time.Millisecond, cfg.FrameInterval)
	assert.Equal(t, 60, cfg.MinWidth)
	assert.False(t, cfg.NoRain)
	assert.Zero(t, cfg.FetchTimeout)
}

func TestLoadConfig_Source(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig([]string{"--source", "fs", "--content", filepath.Join(dir, "page.yaml")})
	require.NoError(t, err)
	assert.Equal(t, datasource.File, cfg.Source)
	assert.Equal(t, filepath.Join(dir, "page.yaml"), cfg.SourceOptions().ContentPath)

	t.Setenv("HAZE_SOURCE", "redis")
	t.Setenv("HAZE_REDIS_ADDR", "cache:6379")
	cfg, err = LoadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, datasource.Redis, cfg.Source)
	assert.Equal(t, "cache:6379", cfg.SourceOptions().RedisAddr)
}

func TestLoadConfig_Validation(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		envVars     map[string]string
		errorSubstr string
	}{
		{
			name:        "zero frame interval from flag",
			args:        []string{"--frame-interval", "0s"},
			errorSubstr: "frame interval must be positive",
		},
		{
			name:        "negative frame interval from env",
			envVars:     map[string]string{"HAZE_FRAME_INTERVAL": "-5ms"},
			errorSubstr: "frame interval must be positive",
		},
		{
			name:        "invalid frame interval format from env",
			envVars:     map[string]string{"HAZE_FRAME_INTERVAL": "soon"},
			errorSubstr: "parse env",
		},
		{
			name:        "invalid frame interval format from flag",
			args:        []string{"--frame-interval", "soon"},
			errorSubstr: "frame-interval",
		},
		{
			name:        "negative fetch timeout",
			envVars:     map[string]string{"HAZE_FETCH_TIMEOUT": "-1s"},
			errorSubstr: "fetch timeout cannot be negative",
		},
		{
			name:        "negative min width",
			args:        []string{"--min-width", "-1"},
			errorSubstr: "min width cannot be negative",
		},
		{
			name:        "file source without content",
			args:        []string{"--source", "file"},
			errorSubstr: "requires a content path",
		},
		{
			name:        "unknown source",
			envVars:     map[string]string{"HAZE_SOURCE": "postgres"},
			errorSubstr: "unsupported source",
		},
		{
			name:        "bad log level",
			args:        []string{"--log-level", "loud"},
			errorSubstr: "invalid log level",
		},
		{
			name:        "positional argument",
			args:        []string{"extra"},
			errorSubstr: "unexpected argument: extra",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			_, err := LoadConfig(tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorSubstr)
		})
	}
}

func TestLoadConfig_Help(t *testing.T) {
	_, err := LoadConfig([]string{"--help"})
	assert.True(t, errors.Is(err, pflag.ErrHelp))
}
