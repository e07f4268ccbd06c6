package symbols

import (
	"pyrite/internal/source"
)

// BindingKind classifies how a name was bound.
type BindingKind uint8

const (
	BindingInvalid BindingKind = iota
	// import a.b [as c]
	BindingImport
	// from a import b [as c]
	BindingFromImport
	// targets of =, for, with, except, :=
	BindingAssignment
	BindingParameter
	// def and class names
	BindingDefinition
)

func (k BindingKind) String() string {
	switch k {
	case BindingImport:
		return "import"
	case BindingFromImport:
		return "from-import"
	case BindingAssignment:
		return "assignment"
	case BindingParameter:
		return "parameter"
	case BindingDefinition:
		return "definition"
	default:
		return "invalid"
	}
}

// Binding records one binding of a name. Path is the fully qualified name
// the binding stands for; only import bindings carry one.
type Binding struct {
	Name  string
	Kind  BindingKind
	Span  source.Span
	Scope ScopeID
	Path  CallPath
}

// Qualified reports whether the binding can take part in call-path
// resolution.
func (b *Binding) Qualified() bool {
	return len(b.Path) > 0
}
