package cache

import (
	"pyrite/internal/diag"
	"pyrite/internal/source"
)

// Status is the verdict stored for a file.
type Status uint8

const (
	StatusPass Status = iota
	StatusFail
)

func (s Status) String() string {
	if s == StatusFail {
		return "fail"
	}
	return "pass"
}

// Outcome is everything needed to re-report a file without analysing it.
type Outcome struct {
	Status      Status
	Diagnostics []Record
	Dropped     int
}

// Record is a diagnostic detached from any FileSet: spans keep their byte
// offsets only and are rebound to the file on decode.
type Record struct {
	Code     uint16
	Severity uint8
	Message  string
	Start    uint32
	End      uint32
	Notes    []NoteRecord `msgpack:",omitempty"`
	Fixes    []FixRecord  `msgpack:",omitempty"`
}

type NoteRecord struct {
	Start, End uint32
	Msg        string
}

type FixRecord struct {
	Title         string
	Applicability uint8
	Edits         []EditRecord
}

type EditRecord struct {
	Start, End uint32
	NewText    string
	OldText    string `msgpack:",omitempty"`
}

// OutcomeOf captures a diagnostic sequence. Any error-severity diagnostic
// makes the outcome a failure.
func OutcomeOf(diags []diag.Diagnostic, dropped int) Outcome {
	out := Outcome{Status: StatusPass, Dropped: dropped}
	if len(diags) > 0 {
		out.Diagnostics = make([]Record, 0, len(diags))
	}
	for i := range diags {
		d := &diags[i]
		if d.Severity >= diag.SevError {
			out.Status = StatusFail
		}
		rec := Record{
			Code:     uint16(d.Code),
			Severity: uint8(d.Severity),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
		for _, n := range d.Notes {
			rec.Notes = append(rec.Notes, NoteRecord{Start: n.Span.Start, End: n.Span.End, Msg: n.Msg})
		}
		for _, f := range d.Fixes {
			fr := FixRecord{Title: f.Title, Applicability: uint8(f.Applicability)}
			for _, e := range f.Edits {
				fr.Edits = append(fr.Edits, EditRecord{
					Start: e.Span.Start, End: e.Span.End,
					NewText: e.NewText, OldText: e.OldText,
				})
			}
			rec.Fixes = append(rec.Fixes, fr)
		}
		out.Diagnostics = append(out.Diagnostics, rec)
	}
	return out
}

// Restore rebuilds the stored diagnostics with every span pointing at file.
func (o *Outcome) Restore(file source.FileID) []diag.Diagnostic {
	if len(o.Diagnostics) == 0 {
		return nil
	}
	span := func(start, end uint32) source.Span {
		return source.Span{File: file, Start: start, End: end}
	}
	out := make([]diag.Diagnostic, 0, len(o.Diagnostics))
	for i := range o.Diagnostics {
		rec := &o.Diagnostics[i]
		d := diag.New(diag.Severity(rec.Severity), diag.Code(rec.Code), span(rec.Start, rec.End), rec.Message)
		for _, n := range rec.Notes {
			d = d.WithNote(span(n.Start, n.End), n.Msg)
		}
		for _, f := range rec.Fixes {
			fix := diag.Fix{Title: f.Title, Applicability: diag.Applicability(f.Applicability)}
			for _, e := range f.Edits {
				fix.Edits = append(fix.Edits, diag.TextEdit{Span: span(e.Start, e.End), NewText: e.NewText, OldText: e.OldText})
			}
			d = d.WithFix(fix)
		}
		out = append(out, d)
	}
	return out
}
