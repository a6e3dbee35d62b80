// Package logging builds the application logger and observes the event bus.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"outliner/src/config"
)

// New builds a JSON logger writing to the rotating file from cfg, and to
// stderr as well when cfg.Console is set. When the log directory cannot be
// created the logger writes warnings to stderr instead of the file.
func New(cfg config.Log) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	var cores []zapcore.Core
	var fileErr error
	if cfg.File != "" {
		fileErr = os.MkdirAll(filepath.Dir(cfg.File), 0o755)
	}
	if cfg.File != "" && fileErr == nil {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}
		encoderCfg := zap.NewProductionEncoderConfig()
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(rotator), level))
	}
	switch {
	case cfg.Console:
		cores = append(cores, consoleCore(level))
	case fileErr != nil:
		cores = append(cores, consoleCore(zapcore.WarnLevel))
	}
	if len(cores) == 0 {
		return zap.NewNop(), nil
	}
	logger := zap.New(zapcore.NewTee(cores...))
	if fileErr != nil {
		logger.Warn("log file disabled", zap.String("file", cfg.File), zap.Error(fileErr))
	}
	return logger, nil
}

func consoleCore(level zapcore.LevelEnabler) zapcore.Core {
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	return zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.Lock(os.Stderr), level)
}
