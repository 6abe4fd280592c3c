package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLevels(t *testing.T) {
	ctx := context.Background()

	dev := New("dev")
	assert.True(t, dev.Enabled(ctx, slog.LevelDebug))
	assert.IsType(t, &slog.TextHandler{}, dev.Handler())

	prod := New("prod")
	assert.False(t, prod.Enabled(ctx, slog.LevelDebug))
	assert.True(t, prod.Enabled(ctx, slog.LevelInfo))
}
