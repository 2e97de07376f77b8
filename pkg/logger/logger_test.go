package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"bogus", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.name))
		})
	}
}

func TestNew_AtomicLevelControlsLogger(t *testing.T) {
	log, level, err := New(Config{Level: "warn", Format: "console"})
	require.NoError(t, err)
	require.NotNil(t, log)

	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))

	level.SetLevel(zapcore.DebugLevel)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}
