package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pbaille/dealflow/internal/config"
)

func TestNew_Level(t *testing.T) {
	logger, err := New(config.LoggingConfig{Level: "warn"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	_, err = New(config.LoggingConfig{Level: "chatty"})
	assert.Error(t, err)
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dealflow.log")
	logger, err := New(config.LoggingConfig{Level: "debug", File: path})
	require.NoError(t, err)

	logger.Debug("startup moved", zap.String("startup", "1"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"startup":"1"`)
}
