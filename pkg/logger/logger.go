package logger

import (
	"fitacademy_backend/internal/config"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Log *zap.Logger

// InitLogger builds the shared logger: a JSON core rotating through
// lumberjack plus a console core, both at debug level when the server runs
// in debug mode. Rotation comes from the log section of the config; zero
// values fall back to the defaults below.
func InitLogger(cfg *config.Config) {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	logCfg := cfg.Log
	if logCfg.Path == "" {
		logCfg.Path = "logs/fitacademy.log"
	}
	if logCfg.MaxSizeMB <= 0 {
		logCfg.MaxSizeMB = 100
	}
	if logCfg.MaxBackups <= 0 {
		logCfg.MaxBackups = 5
	}
	if logCfg.MaxAgeDays <= 0 {
		logCfg.MaxAgeDays = 30
	}

	fileWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   logCfg.Path,
		MaxSize:    logCfg.MaxSizeMB,
		MaxBackups: logCfg.MaxBackups,
		MaxAge:     logCfg.MaxAgeDays,
		Compress:   logCfg.Compress,
	})

	consoleWriter := zapcore.AddSync(os.Stdout)

	level := zap.InfoLevel
	if cfg.Server.Mode == "debug" {
		level = zap.DebugLevel
	}

	core := zapcore.NewTee(
		zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig),
			fileWriter,
			level,
		),
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig),
			consoleWriter,
			level,
		),
	)

	Log = zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zap.ErrorLevel),
		zap.Fields(zap.String("service", "fitacademy")))
}
