package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	// KindSpanBegin marks the start of a timed operation.
	KindSpanBegin Kind = iota + 1
	// KindSpanEnd marks the end of a timed operation.
	KindSpanEnd
	// KindPoint is an instant event (cache hit, runner failure, ...).
	KindPoint
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Scope indicates the granularity of the event.
// Lower numeric values are coarser.
type Scope uint8

const (
	// ScopeDriver covers a whole command invocation.
	ScopeDriver Scope = iota + 1
	// ScopePass covers a run-wide phase (discover, load, analyze, test).
	ScopePass
	// ScopeFile covers the work done for one file.
	ScopeFile
	// ScopeRule covers individual rule dispatch.
	ScopeRule
)

// String returns the string representation of Scope.
func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopePass:
		return "pass"
	case ScopeFile:
		return "file"
	case ScopeRule:
		return "rule"
	default:
		return "unknown"
	}
}

// Event is a single trace record.
type Event struct {
	Time     time.Time
	Seq      uint64 // global, monotonic
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for roots
	Name     string // "analyze", "file:pkg/mod.py", "cache"
	Detail   string
	Failure  bool // admitted at LevelError and above
	Extra    map[string]string
}
