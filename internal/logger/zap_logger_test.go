package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContextAddsRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewLoggerFrom(zap.New(core)).With(String("component", "toggle_gate"))

	log.WithContext(ContextWithRequestID(context.Background(), "req-1")).Info("toggled")
	log.WithContext(context.Background()).Info("listed")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "req-1", entries[0].ContextMap()["request_id"])
	assert.Equal(t, "toggle_gate", entries[0].ContextMap()["component"])
	assert.NotContains(t, entries[1].ContextMap(), "request_id")
}

func TestTypedFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewLoggerFrom(zap.New(core))

	log.Warn("toggle failed",
		String("hook", "my_hook"),
		Int64("timestamp", 1700000000),
		Int("count", 3),
		Bool("recurring", true),
		Duration("delay", time.Minute),
		Error(errors.New("boom")))

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "my_hook", fields["hook"])
	assert.Equal(t, int64(1700000000), fields["timestamp"])
	assert.Equal(t, int64(3), fields["count"])
	assert.Equal(t, true, fields["recurring"])
	assert.Equal(t, time.Minute, fields["delay"])
	assert.Equal(t, "boom", fields["error"])
}

func TestNewZapLoggerRejectsUnknownLevel(t *testing.T) {
	_, err := NewZapLogger(Options{Level: "loud"})
	assert.Error(t, err)

	log, err := NewZapLogger(Options{Level: "warn", Development: true, Service: "cron-commander"})
	require.NoError(t, err)
	assert.NotNil(t, log)
}
