// Package logbuffer keeps a bounded in-memory window of recent log records
// so the server can expose them for operational visibility without growing
// without bound.
package logbuffer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Record is the JSON shape served to clients.
type Record struct {
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
}

// Buffer is a fixed-capacity ring of log records, safe for concurrent use.
// It implements slog.Handler so it can sit behind the standard logger.
type Buffer struct {
	mu      sync.Mutex
	records []Record
	next    int
	full    bool
}

func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = 100
	}
	return &Buffer{records: make([]Record, capacity)}
}

// Add appends a record, evicting the oldest once the buffer is full.
func (b *Buffer) Add(rec Record) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records[b.next] = rec
	b.next++
	if b.next == len(b.records) {
		b.next = 0
		b.full = true
	}
}

// Records returns a snapshot in oldest-first order.
func (b *Buffer) Records() []Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.full {
		out := make([]Record, b.next)
		copy(out, b.records[:b.next])
		return out
	}
	out := make([]Record, 0, len(b.records))
	out = append(out, b.records[b.next:]...)
	out = append(out, b.records[:b.next]...)
	return out
}

// Enabled implements slog.Handler.
func (b *Buffer) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

// Handle implements slog.Handler by folding the record into the ring.
func (b *Buffer) Handle(_ context.Context, r slog.Record) error {
	details := make([]string, 0, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		details = append(details, a.String())
		return true
	})

	b.Add(Record{
		Timestamp: r.Time,
		Type:      levelType(r.Level),
		Message:   r.Message,
		Details:   strings.Join(details, " "),
	})
	return nil
}

// WithAttrs implements slog.Handler. Derived handlers share the ring so
// every logger feeds the same window.
func (b *Buffer) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return b
	}
	return &withAttrs{parent: b, attrs: append([]slog.Attr{}, attrs...)}
}

// WithGroup implements slog.Handler. Groups are flattened into the details
// string, so the group name is folded into subsequent attribute keys.
func (b *Buffer) WithGroup(name string) slog.Handler {
	if name == "" {
		return b
	}
	return &withAttrs{parent: b, group: name}
}

// withAttrs carries derived attributes while writing into the parent ring.
type withAttrs struct {
	parent *Buffer
	attrs  []slog.Attr
	group  string
}

func (w *withAttrs) Enabled(ctx context.Context, level slog.Level) bool {
	return w.parent.Enabled(ctx, level)
}

func (w *withAttrs) Handle(ctx context.Context, r slog.Record) error {
	details := make([]string, 0, r.NumAttrs()+len(w.attrs))
	for _, a := range w.attrs {
		details = append(details, a.String())
	}
	r.Attrs(func(a slog.Attr) bool {
		if w.group != "" {
			details = append(details, fmt.Sprintf("%s.%s", w.group, a.String()))
			return true
		}
		details = append(details, a.String())
		return true
	})

	w.parent.Add(Record{
		Timestamp: r.Time,
		Type:      levelType(r.Level),
		Message:   r.Message,
		Details:   strings.Join(details, " "),
	})
	return nil
}

func (w *withAttrs) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return w
	}
	return &withAttrs{
		parent: w.parent,
		attrs:  append(append([]slog.Attr{}, w.attrs...), attrs...),
		group:  w.group,
	}
}

func (w *withAttrs) WithGroup(name string) slog.Handler {
	if name == "" {
		return w
	}
	return &withAttrs{parent: w.parent, attrs: w.attrs, group: name}
}

func levelType(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warning"
	default:
		return "info"
	}
}

// Tee fans a record out to several handlers, letting the ring buffer sit
// alongside a terminal handler on one logger.
type Tee []slog.Handler

func (t Tee) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t Tee) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range t {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (t Tee) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(Tee, len(t))
	for i, h := range t {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (t Tee) WithGroup(name string) slog.Handler {
	out := make(Tee, len(t))
	for i, h := range t {
		out[i] = h.WithGroup(name)
	}
	return out
}
