package symbols

import (
	"pyrite/internal/source"
)

// ScopeKind enumerates the Python scope categories that matter for name
// resolution.
type ScopeKind uint8

const (
	ScopeInvalid  ScopeKind = iota
	ScopeModule             // file top level
	ScopeClass              // class body
	ScopeFunction           // def and lambda bodies
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeModule:
		return "module"
	case ScopeClass:
		return "class"
	case ScopeFunction:
		return "function"
	default:
		return "invalid"
	}
}

// Scope models a lexical scope. Parent is a non-owning index into the same
// arena.
type Scope struct {
	Kind      ScopeKind
	Parent    ScopeID
	Span      source.Span
	NameIndex map[string][]BindingID // bindings per name, in binding order
	Bindings  []BindingID
	Children  []ScopeID
	Globals   map[string]struct{}
	Nonlocals map[string]struct{}
}

// latest returns the most recent binding of name in the scope.
func (s *Scope) latest(name string) BindingID {
	ids := s.NameIndex[name]
	if len(ids) == 0 {
		return NoBindingID
	}
	return ids[len(ids)-1]
}

func (s *Scope) isGlobal(name string) bool {
	_, ok := s.Globals[name]
	return ok
}

func (s *Scope) isNonlocal(name string) bool {
	_, ok := s.Nonlocals[name]
	return ok
}
