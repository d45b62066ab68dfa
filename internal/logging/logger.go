package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"bookingdesk/internal/config"
)

// New builds the logger for server-style processes: development output on a
// terminal, JSON to stdout plus a rotated file in release mode.
func New(cfg *config.Config) (*zap.Logger, error) {
	if !cfg.IsRelease() {
		return zap.NewDevelopment()
	}
	writer, err := rotatingFile(cfg.LogFile)
	if err != nil {
		return nil, err
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stdout), writer),
		zap.InfoLevel,
	)
	return zap.New(core), nil
}

// NewFileOnly is used by the terminal client, which owns stdout.
func NewFileOnly(cfg *config.Config) (*zap.Logger, error) {
	writer, err := rotatingFile(cfg.LogFile)
	if err != nil {
		return nil, err
	}
	level := zap.DebugLevel
	if cfg.IsRelease() {
		level = zap.InfoLevel
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		writer,
		level,
	)
	return zap.New(core), nil
}

func rotatingFile(path string) (zapcore.WriteSyncer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    50,
		MaxBackups: 5,
		MaxAge:     14,
		Compress:   true,
	}), nil
}
