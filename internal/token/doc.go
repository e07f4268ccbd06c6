// Package token defines the lexical token kinds of Python source.
// Invariants:
//   - Token.Text is the exact source slice covered by Token.Span, except for
//     Newline/Indent/Dedent/EOF tokens which may be zero width.
//   - Identifiers are NFKC-normalized; the Span still covers the original bytes.
//   - Comments are real tokens (Comment), not trivia: the logical line
//     builder needs to see and drop them.
//   - Soft keywords (match, case, type) are plain Name tokens.
package token
