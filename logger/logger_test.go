package logger

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNewWritesToLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "judge.log")
	log := New(Options{File: path, Level: "debug"})
	log.Info("submission judged", "subm-id", "s1")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "submission judged")
	assert.Contains(t, string(content), "subm-id=s1")
}

func TestContextLogger(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, slog.Default(), FromContext(ctx))

	l := slog.New(slog.NewTextHandler(os.Stdout, nil))
	ctx = WithLogger(ctx, l)
	assert.Equal(t, l, FromContext(ctx))

	ctx = WithRequestID(ctx, "req-1")
	assert.NotEqual(t, l, FromContext(ctx))
}
