// Package diag defines the diagnostic model shared by every pyrite phase.
//
// # Purpose
//
//   - Deterministic, serialisable records for findings of the lexer, parser,
//     token-level checks and AST rules.
//   - Light-weight plumbing (Reporter, Bag) so producers emit diagnostics
//     without knowing where they end up.
//   - Fix suggestions as structured text edits that internal/fix applies.
//
// # Scope
//
// No formatting or IO lives here beyond the one-line short form used by
// tests and `--format short`. Pretty and JSON rendering belong to
// internal/diagfmt.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity: Info, Warning or Error.
//   - Code: numeric identifier with a stable ID such as "E221" or "F634".
//   - Message: short and actionable.
//   - Primary: the source.Span the finding points at.
//   - Notes: optional secondary spans or context (the logical line for
//     token-level findings).
//   - Fixes: optional edits.
//
// # Ordering
//
// A Bag preserves insertion order. The checker relies on that: for one file
// the token-level findings come first, then every AST rule's findings in
// registration order, each rule's in tree pre-order. Nothing in this package
// re-sorts a Bag.
//
// # Limits
//
// NewBag(max) caps a Bag; further Add calls are counted in Dropped but not
// stored. max <= 0 means unlimited.
package diag
