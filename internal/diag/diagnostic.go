package diag

import (
	"pyrite/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// Applicability says whether a fix may be applied without review.
type Applicability uint8

const (
	FixAlwaysSafe Applicability = iota
	FixSuggested                // changes semantics in corner cases
	FixManual                   // informational only, never applied by --fix
)

func (a Applicability) String() string {
	switch a {
	case FixAlwaysSafe:
		return "safe"
	case FixSuggested:
		return "suggested"
	default:
		return "manual"
	}
}

// TextEdit replaces the bytes of Span with NewText. OldText, when set, must
// match the current content for the edit to apply.
type TextEdit struct {
	Span    source.Span
	NewText string
	OldText string
}

type Fix struct {
	Title         string
	Applicability Applicability
	Edits         []TextEdit
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

func (d Diagnostic) WithFix(fix Fix) Diagnostic {
	d.Fixes = append(d.Fixes, fix)
	return d
}
