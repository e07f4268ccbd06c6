package trace

import "context"

type ctxKey struct{}

// FromContext extracts the Tracer from context.
// If not found, returns Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(ctxKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches a Tracer to context.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, ctxKey{}, t)
}

type spanKey struct{}

// CurrentSpan returns the ID of the span stored by WithSpan, or 0.
func CurrentSpan(ctx context.Context) uint64 {
	if ctx == nil {
		return 0
	}
	if id, ok := ctx.Value(spanKey{}).(uint64); ok {
		return id
	}
	return 0
}

// WithSpan records the active span so nested work can parent to it.
func WithSpan(ctx context.Context, s *Span) context.Context {
	if s == nil || s.ID() == 0 {
		return ctx
	}
	return context.WithValue(ctx, spanKey{}, s.ID())
}
