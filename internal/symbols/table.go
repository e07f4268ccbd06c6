package symbols

import (
	"fmt"

	"fortio.org/safecast"
)

// Hints provide optional capacity suggestions for the table arenas.
type Hints struct{ Scopes, Bindings uint }

// Table aggregates the scope and binding arenas of one file.
type Table struct {
	Scopes   *Scopes
	Bindings *Bindings
}

// NewTable builds a fresh table with optional capacity hints.
func NewTable(h Hints) *Table {
	scopeCap, err := safecast.Conv[uint32](h.Scopes)
	if err != nil {
		panic(fmt.Errorf("scope capacity overflow: %w", err))
	}
	bindCap, err := safecast.Conv[uint32](h.Bindings)
	if err != nil {
		panic(fmt.Errorf("binding capacity overflow: %w", err))
	}
	return &Table{
		Scopes:   NewScopes(scopeCap),
		Bindings: NewBindings(bindCap),
	}
}
