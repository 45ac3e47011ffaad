package logging

import (
	"context"
	"log/slog"

	"github.com/tekbug/log-manager/internal/platform/logctx"
)

// StoreHandler is an slog.Handler decorator that appends the context-store
// entries of the record's context to every record. This is how log
// statements "read the store implicitly": callers just use
// logger.InfoContext(ctx, ...) and the seeded/injected keys appear.
//
// Entries are appended in sorted key order. Records logged without a store
// in their context pass through untouched.
type StoreHandler struct {
	base slog.Handler
}

// NewStoreHandler wraps base with context-store enrichment.
func NewStoreHandler(base slog.Handler) *StoreHandler {
	return &StoreHandler{base: base}
}

// Enabled delegates to the wrapped handler.
func (h *StoreHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

// Handle appends the store entries, cloning the record first per the slog
// handler contract.
func (h *StoreHandler) Handle(ctx context.Context, r slog.Record) error { //nolint:gocritic // slog.Handler interface requires value
	attrs := logctx.AppendAttrs(nil, ctx)
	if len(attrs) > 0 {
		r = r.Clone()
		r.AddAttrs(attrs...)
	}
	return h.base.Handle(ctx, r)
}

// WithAttrs returns a new StoreHandler over the derived base handler.
func (h *StoreHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &StoreHandler{base: h.base.WithAttrs(attrs)}
}

// WithGroup returns a new StoreHandler over the derived base handler.
func (h *StoreHandler) WithGroup(name string) slog.Handler {
	return &StoreHandler{base: h.base.WithGroup(name)}
}
