package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	log, err := New("debug", "json")
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))

	log, err = New(" WARN ", "console")
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New("loud", "json")
	assert.Error(t, err)

	_, err = New("info", "xml")
	assert.Error(t, err)
}
