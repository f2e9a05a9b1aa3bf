package zapfile

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileLogger implements logger.Backend, writing structured JSON to a
// rotating log file. Used for run logs that need to survive the
// process, in particular the per-merge audit trail.
type FileLogger struct {
	logger *zap.SugaredLogger
}

// FileLoggerParams contains configuration for creating a FileLogger.
type FileLoggerParams struct {
	Path       string
	Debug      bool
	MaxSizeMB  int
	MaxBackups int
}

// NewFileLogger creates a file logger with lumberjack rotation.
func NewFileLogger(params FileLoggerParams) *FileLogger {
	if params.MaxSizeMB <= 0 {
		params.MaxSizeMB = 50
	}
	if params.MaxBackups <= 0 {
		params.MaxBackups = 5
	}

	writer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   params.Path,
		MaxSize:    params.MaxSizeMB,
		MaxBackups: params.MaxBackups,
	})

	level := zapcore.InfoLevel
	if params.Debug {
		level = zapcore.DebugLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), writer, level)

	return &FileLogger{
		logger: zap.New(core).Sugar(),
	}
}

// Debug writes a message at DEBUG level.
func (f *FileLogger) Debug(message string, keyvals ...any) {
	f.logger.Debugw(message, keyvals...)
}

// Info writes a message at INFO level.
func (f *FileLogger) Info(message string, keyvals ...any) {
	f.logger.Infow(message, keyvals...)
}

// Warn writes a message at WARN level.
func (f *FileLogger) Warn(message string, keyvals ...any) {
	f.logger.Warnw(message, keyvals...)
}

// Error writes a message at ERROR level.
func (f *FileLogger) Error(message string, keyvals ...any) {
	f.logger.Errorw(message, keyvals...)
}

// Fatal writes a message at FATAL level and terminates the program.
func (f *FileLogger) Fatal(message string, keyvals ...any) {
	f.logger.Errorw(message, keyvals...)
	f.logger.Sync()
	os.Exit(1)
}
