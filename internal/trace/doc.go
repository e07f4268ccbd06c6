// Package trace is pyrite's logging layer.
//
// Every message the tool itself wants to say (phase boundaries, cache
// misses caused by I/O errors, external test runner failures) goes through a
// Tracer carried in the context. Nothing in pyrite writes to the standard
// logger.
//
//	pyrite check --trace=- --trace-level=detail src/
//
// Implementations:
//
//   - Nop: tracing disabled, zero cost
//   - StreamTracer: writes every event immediately (text or NDJSON)
//   - RingTracer: keeps the last N events, dumped when a run fails
//   - TeeTracer: stream plus ring, used by ModeBoth
//
// Scopes go from coarse to fine: driver, pass, file, rule. A level admits
// every scope up to its own granularity.
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "analyze", 0)
//	defer span.End("")
package trace
