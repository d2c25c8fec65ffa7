// Package trace records the phases of DDL processing as spans.
//
// A unit goes through parse, link, type checks and evaluation; each of them
// is a span nested under the unit span, and units run under the driver span.
// Units of a batch run in parallel, so events carry the unit path
// (WithUnit) instead of relying on their order. Spans are free when tracing
// is off: Begin returns a span bound to Nop.
//
// Tracers: Nop, StreamTracer (text or NDJSON, written at once) and
// RingTracer (the last events in memory, dumped on demand).
//
// Levels:
//
//   - LevelOff: nothing
//   - LevelError: nothing is streamed; the ring keeps unit and pass spans
//   - LevelPhase: driver and pass spans
//   - LevelDetail: unit spans as well
//   - LevelDebug: everything, including evaluation step events
//
// Usage:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx = trace.WithUnit(ctx, path)
//	ctx, span := trace.Start(ctx, trace.ScopePass, "link")
//	defer span.End("")
package trace
