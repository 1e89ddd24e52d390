package logger_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/phrazzld/recode/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for name, want := range cases {
		assert.Equal(t, want, logger.ParseLevel(name), "level %q", name)
	}
}

func TestNewWritesJSONAtConfiguredLevel(t *testing.T) {
	buf := &logger.TestLogBuffer{}
	log := logger.New(buf, logger.Config{Level: "warn"})

	log.Info("hidden")
	log.Warn("shown", slog.String("component", "test"))

	entries, err := buf.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "shown", entries[0]["msg"])
	assert.Equal(t, "WARN", entries[0]["level"])
	assert.Equal(t, "test", entries[0]["component"])
}

func TestContextHelpers(t *testing.T) {
	log, buf := logger.NewTestLogger()
	fallback := slog.New(slog.NewJSONHandler(&logger.TestLogBuffer{}, nil))

	assert.Same(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))
	assert.NotNil(t, logger.FromContext(context.Background()))

	ctx := logger.WithLogger(context.Background(), log.With(slog.String("trace_id", "abc")))
	logger.FromContextOrDefault(ctx, fallback).Info("from context")

	entries, err := buf.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "abc", entries[0]["trace_id"])
}

func TestSetupSetsDefault(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	log, err := logger.Setup(logger.Config{Level: "debug"})
	require.NoError(t, err)
	assert.Same(t, log, slog.Default())
	assert.True(t, log.Enabled(context.Background(), slog.LevelDebug))
}
