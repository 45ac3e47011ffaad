package logging

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"time"
)

const (
	// BufferName identifies the in-memory live-log buffer. The live-log
	// endpoint names it when no buffer is wired up.
	BufferName = "IN_MEMORY_BUFFER"

	// DefaultBufferCapacity is the number of recent records retained when no
	// explicit capacity is configured.
	DefaultBufferCapacity = 250

	bufferTimeFormat = "2006-01-02 15:04:05.000"
)

// Buffer is a fixed-capacity circular slog.Handler that retains the most
// recent log records in memory for the live-log endpoint. Once full, each
// new record evicts the oldest one.
//
// Unlike the context store, the buffer IS shared across goroutines (every
// request logs into it), so access is mutex-guarded.
type Buffer struct {
	ring  *logRing
	attrs []slog.Attr
}

type logRing struct {
	mu      sync.Mutex
	level   slog.Level
	service string
	entries []logEntry
	next    int
	count   int
}

type logEntry struct {
	time      time.Time
	level     slog.Level
	goroutine string
	logger    string
	message   string
}

// NewBuffer creates a Buffer retaining up to capacity records at or above
// level. A non-positive capacity falls back to DefaultBufferCapacity. The
// service name is the fallback logger name for records without a
// "component" attribute.
func NewBuffer(capacity int, service string, level slog.Level) *Buffer {
	if capacity <= 0 {
		capacity = DefaultBufferCapacity
	}
	return &Buffer{
		ring: &logRing{
			level:   level,
			service: service,
			entries: make([]logEntry, capacity),
		},
	}
}

// Enabled reports whether the buffer retains records at the given level.
func (b *Buffer) Enabled(_ context.Context, level slog.Level) bool {
	return level >= b.ring.level
}

// Handle appends the record to the ring, evicting the oldest entry when
// full.
func (b *Buffer) Handle(_ context.Context, r slog.Record) error { //nolint:gocritic // slog.Handler interface requires value
	logger := b.ring.service
	var msg strings.Builder
	msg.WriteString(r.Message)

	appendAttr := func(a slog.Attr) {
		if a.Key == "component" {
			logger = a.Value.String()
			return
		}
		msg.WriteString(" ")
		msg.WriteString(a.Key)
		msg.WriteString("=")
		msg.WriteString(a.Value.String())
	}

	for _, a := range b.attrs {
		appendAttr(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(a)
		return true
	})

	entry := logEntry{
		time:      r.Time,
		level:     r.Level,
		goroutine: goroutineID(),
		logger:    logger,
		message:   msg.String(),
	}

	b.ring.mu.Lock()
	defer b.ring.mu.Unlock()

	b.ring.entries[b.ring.next] = entry
	b.ring.next = (b.ring.next + 1) % len(b.ring.entries)
	if b.ring.count < len(b.ring.entries) {
		b.ring.count++
	}
	return nil
}

// WithAttrs returns a Buffer view sharing the same ring with the attributes
// pre-bound.
func (b *Buffer) WithAttrs(attrs []slog.Attr) slog.Handler {
	bound := make([]slog.Attr, 0, len(b.attrs)+len(attrs))
	bound = append(bound, b.attrs...)
	bound = append(bound, attrs...)
	return &Buffer{ring: b.ring, attrs: bound}
}

// WithGroup returns the handler unchanged: the rendered live-log line is
// flat text, so grouping adds nothing here.
func (b *Buffer) WithGroup(string) slog.Handler {
	return b
}

// Lines renders the retained records, oldest first, as
//
//	<timestamp> <level> [<goroutine>] --- <logger>: <message>
//
// with the level padded to 5 characters.
func (b *Buffer) Lines() []string {
	b.ring.mu.Lock()
	defer b.ring.mu.Unlock()

	lines := make([]string, 0, b.ring.count)
	start := b.ring.next - b.ring.count
	if start < 0 {
		start += len(b.ring.entries)
	}
	for i := 0; i < b.ring.count; i++ {
		e := b.ring.entries[(start+i)%len(b.ring.entries)]
		lines = append(lines, fmt.Sprintf("%s %-5s [%s] --- %s: %s",
			e.time.Format(bufferTimeFormat),
			e.level.String(),
			e.goroutine,
			e.logger,
			e.message,
		))
	}
	return lines
}

// Len returns the number of retained records.
func (b *Buffer) Len() int {
	b.ring.mu.Lock()
	defer b.ring.mu.Unlock()
	return b.ring.count
}

// goroutineID parses the current goroutine's id from its stack header. The
// closest analogue of a thread name that Go exposes; used only to fill the
// live-log format's thread slot.
func goroutineID() string {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	fields := strings.Fields(string(buf[:n]))
	if len(fields) >= 2 {
		return fields[1]
	}
	return "0"
}
