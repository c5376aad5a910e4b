package render

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
)

// LogEntry is one formatted record kept for the log panel.
type LogEntry struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Source  string // attribute group, if any
}

// LogBuffer keeps the last N entries. It is safe for concurrent use.
type LogBuffer struct {
	mu      sync.RWMutex
	entries []LogEntry
	next    int
	full    bool
}

func NewLogBuffer(capacity int) *LogBuffer {
	return &LogBuffer{entries: make([]LogEntry, capacity)}
}

// Add stores entry, overwriting the oldest one once the buffer is full.
func (lb *LogBuffer) Add(entry LogEntry) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	lb.entries[lb.next] = entry
	lb.next++
	if lb.next == len(lb.entries) {
		lb.next = 0
		lb.full = true
	}
}

func (lb *LogBuffer) len() int {
	if lb.full {
		return len(lb.entries)
	}
	return lb.next
}

// GetRecent returns up to n entries, newest first. n <= 0 returns all of them.
func (lb *LogBuffer) GetRecent(n int) []LogEntry {
	lb.mu.RLock()
	defer lb.mu.RUnlock()

	stored := lb.len()
	if stored == 0 {
		return nil
	}
	if n <= 0 || n > stored {
		n = stored
	}

	out := make([]LogEntry, 0, n)
	for i := lb.next - 1; len(out) < n; i-- {
		if i < 0 {
			i += len(lb.entries)
		}
		out = append(out, lb.entries[i])
	}
	return out
}

func (lb *LogBuffer) Clear() {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	lb.next = 0
	lb.full = false
}

// LogBufferHandler is a slog.Handler writing into a LogBuffer, so logging
// does not draw over the tcell screen.
type LogBufferHandler struct {
	buffer *LogBuffer
	level  slog.Leveler
	attrs  []slog.Attr
	group  string
}

func NewLogBufferHandler(buffer *LogBuffer, level slog.Leveler) *LogBufferHandler {
	return &LogBufferHandler{buffer: buffer, level: level}
}

func (h *LogBufferHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle flattens the record and its attributes into a single line.
func (h *LogBufferHandler) Handle(_ context.Context, record slog.Record) error {
	var msg strings.Builder
	msg.WriteString(record.Message)
	for _, a := range h.attrs {
		fmt.Fprintf(&msg, " %s=%v", a.Key, a.Value)
	}
	record.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&msg, " %s=%v", h.qualify(a.Key), a.Value)
		return true
	})

	h.buffer.Add(LogEntry{
		Time:    record.Time,
		Level:   record.Level,
		Message: msg.String(),
		Source:  h.group,
	})
	return nil
}

func (h *LogBufferHandler) qualify(key string) string {
	if h.group == "" {
		return key
	}
	return h.group + "." + key
}

// WithAttrs returns a handler that appends attrs to every message.
func (h *LogBufferHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = slices.Clone(h.attrs)
	for _, a := range attrs {
		next.attrs = append(next.attrs, slog.Attr{Key: h.qualify(a.Key), Value: a.Value})
	}
	return &next
}

// WithGroup returns a handler that prefixes later attribute keys with name.
func (h *LogBufferHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.group = h.qualify(name)
	return &next
}

var levelTags = map[slog.Level]string{
	slog.LevelDebug: "DBG",
	slog.LevelInfo:  "INF",
	slog.LevelWarn:  "WRN",
	slog.LevelError: "ERR",
}

// FormatLogEntry renders entry as "15:04:05 [LVL] message".
func FormatLogEntry(entry LogEntry) string {
	tag, ok := levelTags[entry.Level]
	if !ok {
		tag = "???"
	}
	return fmt.Sprintf("%s [%s] %s", entry.Time.Format(time.TimeOnly), tag, entry.Message)
}
