package trace

import "context"

type (
	tracerKey struct{}
	spanKey   struct{}
	unitKey   struct{}
)

// FromContext returns the Tracer of ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches a Tracer to context.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// WithUnit marks every span started under ctx as belonging to unit.
func WithUnit(ctx context.Context, unit string) context.Context {
	return context.WithValue(ctx, unitKey{}, unit)
}

// UnitOf returns the unit set by WithUnit, or "".
func UnitOf(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	u, _ := ctx.Value(unitKey{}).(string)
	return u
}

// CurrentSpan returns the ID of the span active in ctx, or 0.
func CurrentSpan(ctx context.Context) uint64 {
	if ctx == nil {
		return 0
	}
	id, _ := ctx.Value(spanKey{}).(uint64)
	return id
}

// Start begins a span under the current one and makes it current.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	span := begin(FromContext(ctx), scope, name, CurrentSpan(ctx), UnitOf(ctx))
	if span.ID() == 0 {
		return ctx, span
	}
	return context.WithValue(ctx, spanKey{}, span.ID()), span
}

// PointIn emits an instant event under the current span of ctx.
func PointIn(ctx context.Context, scope Scope, name, detail string) {
	Point(FromContext(ctx), scope, name, detail, CurrentSpan(ctx), UnitOf(ctx))
}
