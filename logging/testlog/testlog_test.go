package testlog

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/phil-mansfield/gosphere/logging"
)

func TestStart(t *testing.T) {
	Start(t)
	lvl := zerolog.GlobalLevel()
	if os.Getenv(logging.EnvLogLevel) == "" {
		assert.Equal(t, zerolog.DebugLevel, lvl)
	}

	// Only the first Start configures the logger.
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	Start(t)
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
	zerolog.SetGlobalLevel(lvl)
}
