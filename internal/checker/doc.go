// Package checker walks a parsed module once, keeps the scope stack current
// and dispatches every statement and expression to the rules interested in
// it. Rules write into their own bucket; the file's diagnostics are the
// buckets concatenated in registration order.
package checker
