// Package logical reconstructs logical lines from a token stream.
//
// A logical line is one statement-level line as pycodestyle sees it:
// physical lines joined across open brackets and backslash continuations,
// comments and indentation tokens removed, string literals muted to `""`
// so their contents cannot trip text-level checks. Each Line keeps a
// mapping from offsets in its text back to source positions, so a finding
// inside the reconstructed text can be reported against the file.
package logical
