package logger

import (
	"fitacademy_backend/internal/config"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestInitLoggerLevelFollowsServerMode(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Mode = "debug"
	cfg.Log = config.LogConfig{Path: filepath.Join(t.TempDir(), "app.log")}

	InitLogger(cfg)
	assert.NotNil(t, Log)
	assert.True(t, Log.Core().Enabled(zapcore.DebugLevel))

	cfg.Server.Mode = "release"
	InitLogger(cfg)
	assert.False(t, Log.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, Log.Core().Enabled(zapcore.InfoLevel))
}
