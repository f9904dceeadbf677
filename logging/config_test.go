package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw  string
		lvl  zerolog.Level
		okay bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, true},
		{" WARNING ", zerolog.WarnLevel, true},
		{"off", zerolog.Disabled, true},
		{"loud", zerolog.InfoLevel, false},
	}
	for _, tt := range tests {
		lvl, ok := parseLevel(tt.raw)
		assert.Equal(t, tt.lvl, lvl, tt.raw)
		assert.Equal(t, tt.okay, ok, tt.raw)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogTimestamp, "false")
	t.Setenv(EnvLogNoColor, "not-a-bool")

	cfg := defaultConfig(ProfileRuntime)
	applyEnvOverrides(&cfg)
	assert.Equal(t, zerolog.ErrorLevel, cfg.Level)
	assert.False(t, cfg.Timestamp)
	assert.False(t, cfg.NoColor)

	cfg = defaultConfig(ProfileTest)
	assert.Equal(t, zerolog.DebugLevel, cfg.Level)
}

func TestNew(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(Config{Level: zerolog.WarnLevel, NoColor: true, Out: buf})

	logger.Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	logger.Warn().Int("n", 3).Msg("shown")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "n=3")
}

func TestSetLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.GlobalLevel())
	assert.NoError(t, SetLevel(""))
	assert.NoError(t, SetLevel("trace"))
	assert.Equal(t, zerolog.TraceLevel, zerolog.GlobalLevel())
	assert.Error(t, SetLevel("chatty"))
}
