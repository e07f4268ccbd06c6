package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"pyrite/internal/source"
)

// Scopes stores all allocated scopes in a compact slice-based arena.
type Scopes struct {
	data []Scope
}

// NewScopes creates an arena with optional capacity hint.
func NewScopes(capacity uint32) *Scopes {
	if capacity == 0 {
		capacity = 16
	}
	return &Scopes{
		data: make([]Scope, 1, capacity+1), // index 0 reserved for NoScopeID
	}
}

// New allocates a new scope and returns its ID.
func (s *Scopes) New(kind ScopeKind, parent ScopeID, span source.Span) ScopeID {
	value, err := safecast.Conv[uint32](len(s.data))
	if err != nil {
		panic(fmt.Errorf("scopes arena overflow: %w", err))
	}
	id := ScopeID(value)
	s.data = append(s.data, Scope{
		Kind:      kind,
		Parent:    parent,
		Span:      span,
		NameIndex: make(map[string][]BindingID),
	})
	if parent.IsValid() {
		if parentScope := s.Get(parent); parentScope != nil {
			parentScope.Children = append(parentScope.Children, id)
		}
	}
	return id
}

// Get returns the scope pointer or nil if ID is invalid.
func (s *Scopes) Get(id ScopeID) *Scope {
	if !id.IsValid() || int(id) >= len(s.data) {
		return nil
	}
	return &s.data[id]
}

// Len reports total number of scopes excluding the sentinel.
func (s *Scopes) Len() int { return len(s.data) - 1 }

// Bindings stores bindings in a compact arena.
type Bindings struct {
	data []Binding
}

// NewBindings creates a binding arena with optional capacity hint.
func NewBindings(capacity uint32) *Bindings {
	if capacity == 0 {
		capacity = 64
	}
	return &Bindings{
		data: make([]Binding, 1, capacity+1), // index 0 reserved for NoBindingID
	}
}

// New allocates a binding in the arena and returns its ID.
func (b *Bindings) New(binding Binding) BindingID {
	value, err := safecast.Conv[uint32](len(b.data))
	if err != nil {
		panic(fmt.Errorf("bindings arena overflow: %w", err))
	}
	b.data = append(b.data, binding)
	return BindingID(value)
}

// Get returns the binding pointer or nil if ID is invalid.
func (b *Bindings) Get(id BindingID) *Binding {
	if !id.IsValid() || int(id) >= len(b.data) {
		return nil
	}
	return &b.data[id]
}

// Len reports total number of bindings excluding the sentinel.
func (b *Bindings) Len() int { return len(b.data) - 1 }
