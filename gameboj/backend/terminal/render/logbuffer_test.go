package render

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messages(entries []LogEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Message
	}
	return out
}

func TestLogBufferWrapsAround(t *testing.T) {
	lb := NewLogBuffer(3)
	assert.Nil(t, lb.GetRecent(10))

	for _, m := range []string{"a", "b", "c", "d"} {
		lb.Add(LogEntry{Message: m})
	}

	assert.Equal(t, []string{"d", "c", "b"}, messages(lb.GetRecent(0)))
	assert.Equal(t, []string{"d", "c"}, messages(lb.GetRecent(2)))

	lb.Clear()
	assert.Nil(t, lb.GetRecent(10))
}

func TestLogBufferHandler(t *testing.T) {
	lb := NewLogBuffer(10)
	level := new(slog.LevelVar)
	logger := slog.New(NewLogBufferHandler(lb, level))

	logger.Debug("hidden")
	logger.Info("loaded", "bytes", 32768)
	logger.With("component", "lcd").WithGroup("dma").Warn("restart", "index", 3)

	level.Set(slog.LevelDebug)
	logger.Debug("visible")

	got := lb.GetRecent(0)
	require.Len(t, got, 3)
	assert.Equal(t, "visible", got[0].Message)
	assert.Equal(t, "restart component=lcd dma.index=3", got[1].Message)
	assert.Equal(t, "dma", got[1].Source)
	assert.Equal(t, slog.LevelWarn, got[1].Level)
	assert.Equal(t, "loaded bytes=32768", got[2].Message)
}

func TestFormatLogEntry(t *testing.T) {
	at := time.Date(2024, 1, 2, 13, 4, 5, 0, time.UTC)

	testCases := []struct {
		level slog.Level
		want  string
	}{
		{slog.LevelDebug, "13:04:05 [DBG] hello"},
		{slog.LevelInfo, "13:04:05 [INF] hello"},
		{slog.LevelWarn, "13:04:05 [WRN] hello"},
		{slog.LevelError, "13:04:05 [ERR] hello"},
		{slog.Level(12), "13:04:05 [???] hello"},
	}
	for _, tc := range testCases {
		t.Run(tc.level.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, FormatLogEntry(LogEntry{Time: at, Level: tc.level, Message: "hello"}))
		})
	}
}
