package logger

import (
	"context"
	"log/slog"
	"slices"
)

// ContextExtractor pulls an attribute out of a context, e.g. a request id.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

type attrsKey struct{}

// ContextWith returns a context carrying attrs in addition to those already
// stored. Loggers built by New add them to every record logged with the
// context, so handlers can scope a whole request to a form session:
//
//	ctx = logger.ContextWith(ctx, logger.FormID(id), logger.Ruleset(name))
func ContextWith(ctx context.Context, attrs ...slog.Attr) context.Context {
	if len(attrs) == 0 {
		return ctx
	}
	prev := attrsFrom(ctx)
	return context.WithValue(ctx, attrsKey{}, append(slices.Clip(prev), attrs...))
}

func attrsFrom(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	attrs, _ := ctx.Value(attrsKey{}).([]slog.Attr)
	return attrs
}

// contextHandler adds context attributes to records before passing them on.
type contextHandler struct {
	next       slog.Handler
	extractors []ContextExtractor
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, rec slog.Record) error {
	rec.AddAttrs(attrsFrom(ctx)...)
	for _, ex := range h.extractors {
		if attr, ok := ex(ctx); ok {
			rec.AddAttrs(attr)
		}
	}
	return h.next.Handle(ctx, rec)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{next: h.next.WithAttrs(attrs), extractors: h.extractors}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{next: h.next.WithGroup(name), extractors: h.extractors}
}
