package logger

import (
	"context"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the encoder and level of the zap backend
type Options struct {
	Level       string
	Development bool
	// Service is stamped on every entry as "service"
	Service string
}

type zapLogger struct {
	logger *zap.Logger
}

// NewZapLogger builds the service logger. Production output is JSON on stdout
// with ISO8601 "timestamp"; development output is the colored console encoder.
// An empty level keeps the encoder's default (info, or debug in development).
func NewZapLogger(opts Options) (Logger, error) {
	config := zap.NewProductionConfig()
	if opts.Development {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		config.OutputPaths = []string{"stdout"}
	}

	if opts.Level != "" {
		lvl, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, err
		}
		config.Level = zap.NewAtomicLevelAt(lvl)
	}

	log, err := config.Build()
	if err != nil {
		return nil, err
	}
	if opts.Service != "" {
		log = log.With(zap.String("service", opts.Service))
	}

	return &zapLogger{logger: log}, nil
}

// NewLoggerFrom wraps an existing zap logger, e.g. one backed by an observer core
func NewLoggerFrom(log *zap.Logger) Logger {
	return &zapLogger{logger: log}
}

// NewNopLogger discards everything
func NewNopLogger() Logger {
	return &zapLogger{logger: zap.NewNop()}
}

func (l *zapLogger) Debug(msg string, fields ...Field) {
	l.logger.Debug(msg, toZap(fields)...)
}

func (l *zapLogger) Info(msg string, fields ...Field) {
	l.logger.Info(msg, toZap(fields)...)
}

func (l *zapLogger) Warn(msg string, fields ...Field) {
	l.logger.Warn(msg, toZap(fields)...)
}

func (l *zapLogger) Error(msg string, fields ...Field) {
	l.logger.Error(msg, toZap(fields)...)
}

func (l *zapLogger) Fatal(msg string, fields ...Field) {
	l.logger.Fatal(msg, toZap(fields)...)
}

func (l *zapLogger) With(fields ...Field) Logger {
	return &zapLogger{logger: l.logger.With(toZap(fields)...)}
}

// WithContext tags entries with the request id set by the HTTP middleware
func (l *zapLogger) WithContext(ctx context.Context) Logger {
	reqID, ok := RequestIDFromContext(ctx)
	if !ok {
		return l
	}
	return &zapLogger{logger: l.logger.With(zap.String("request_id", reqID))}
}

func (l *zapLogger) Sync() error {
	return l.logger.Sync()
}

// Logger exposes the underlying zap logger for fx's event logger
func (l *zapLogger) Logger() *zap.Logger {
	return l.logger
}

func toZap(fields []Field) []zap.Field {
	out := make([]zap.Field, len(fields))
	for i, f := range fields {
		switch v := f.Value.(type) {
		case string:
			out[i] = zap.String(f.Key, v)
		case int:
			out[i] = zap.Int(f.Key, v)
		case int64:
			out[i] = zap.Int64(f.Key, v)
		case bool:
			out[i] = zap.Bool(f.Key, v)
		case time.Duration:
			out[i] = zap.Duration(f.Key, v)
		default:
			out[i] = zap.Any(f.Key, v)
		}
	}
	return out
}
