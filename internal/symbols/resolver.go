package symbols

import (
	"fmt"
	"slices"

	"pyrite/internal/ast"
	"pyrite/internal/source"
)

// Resolver tracks the scope stack during a single pre-order walk and answers
// name lookups against the bindings seen so far.
type Resolver struct {
	Table *Table
	stack []ScopeID
}

func NewResolver(table *Table) *Resolver {
	if table == nil {
		table = NewTable(Hints{})
	}
	return &Resolver{Table: table}
}

// Enter pushes a new scope nested in the current one.
func (r *Resolver) Enter(kind ScopeKind, span source.Span) ScopeID {
	id := r.Table.Scopes.New(kind, r.Current(), span)
	r.stack = append(r.stack, id)
	return id
}

// Leave pops id, which must be the current scope.
func (r *Resolver) Leave(id ScopeID) {
	if len(r.stack) == 0 || r.stack[len(r.stack)-1] != id {
		panic(fmt.Errorf("symbols: leave scope %d out of order (stack %v)", id, r.stack))
	}
	r.stack = r.stack[:len(r.stack)-1]
}

// Current returns the innermost scope or NoScopeID outside any scope.
func (r *Resolver) Current() ScopeID {
	if len(r.stack) == 0 {
		return NoScopeID
	}
	return r.stack[len(r.stack)-1]
}

func (r *Resolver) CurrentKind() ScopeKind {
	if s := r.Table.Scopes.Get(r.Current()); s != nil {
		return s.Kind
	}
	return ScopeInvalid
}

func (r *Resolver) module() ScopeID {
	if len(r.stack) == 0 {
		return NoScopeID
	}
	return r.stack[0]
}

// DeclareGlobal records `global name` in the current scope; later bindings
// and lookups of name there go to the module scope.
func (r *Resolver) DeclareGlobal(name string) {
	s := r.Table.Scopes.Get(r.Current())
	if s == nil || s.Kind == ScopeModule {
		return
	}
	if s.Globals == nil {
		s.Globals = make(map[string]struct{})
	}
	s.Globals[name] = struct{}{}
}

// DeclareNonlocal records `nonlocal name` in the current scope.
func (r *Resolver) DeclareNonlocal(name string) {
	s := r.Table.Scopes.Get(r.Current())
	if s == nil || s.Kind == ScopeModule {
		return
	}
	if s.Nonlocals == nil {
		s.Nonlocals = make(map[string]struct{})
	}
	s.Nonlocals[name] = struct{}{}
}

// Bind records a binding of name. Names declared global in the current
// scope are bound in the module scope; nonlocal names in the nearest
// enclosing function scope that binds them.
func (r *Resolver) Bind(name string, kind BindingKind, span source.Span, path CallPath) BindingID {
	target := r.bindingScope(name)
	if !target.IsValid() {
		return NoBindingID
	}
	id := r.Table.Bindings.New(Binding{
		Name:  name,
		Kind:  kind,
		Span:  span,
		Scope: target,
		Path:  slices.Clone(path),
	})
	s := r.Table.Scopes.Get(target)
	s.NameIndex[name] = append(s.NameIndex[name], id)
	s.Bindings = append(s.Bindings, id)
	return id
}

func (r *Resolver) bindingScope(name string) ScopeID {
	cur := r.Current()
	s := r.Table.Scopes.Get(cur)
	if s == nil {
		return NoScopeID
	}
	switch {
	case s.isGlobal(name):
		return r.module()
	case s.isNonlocal(name):
		if id := r.enclosingFunction(name); id.IsValid() {
			return id
		}
	}
	return cur
}

// enclosingFunction finds the nearest function scope below the current one
// that binds name, or failing that the nearest function scope at all.
func (r *Resolver) enclosingFunction(name string) ScopeID {
	fallback := NoScopeID
	for i := len(r.stack) - 2; i >= 0; i-- {
		s := r.Table.Scopes.Get(r.stack[i])
		if s.Kind != ScopeFunction {
			continue
		}
		if !fallback.IsValid() {
			fallback = r.stack[i]
		}
		if len(s.NameIndex[name]) > 0 {
			return r.stack[i]
		}
	}
	return fallback
}

// Lookup finds the binding name currently refers to. The current scope is
// always searched; enclosing class scopes are skipped, as in Python.
func (r *Resolver) Lookup(name string) (*Binding, bool) {
	for i := len(r.stack) - 1; i >= 0; i-- {
		s := r.Table.Scopes.Get(r.stack[i])
		if i != len(r.stack)-1 && s.Kind == ScopeClass {
			continue
		}
		if s.isGlobal(name) {
			return r.lookupIn(r.module(), name)
		}
		if id := s.latest(name); id.IsValid() {
			return r.Table.Bindings.Get(id), true
		}
		if s.isNonlocal(name) {
			// bound in an enclosing function, searched by the next iterations
			continue
		}
	}
	return nil, false
}

func (r *Resolver) lookupIn(scope ScopeID, name string) (*Binding, bool) {
	s := r.Table.Scopes.Get(scope)
	if s == nil {
		return nil, false
	}
	if id := s.latest(name); id.IsValid() {
		return r.Table.Bindings.Get(id), true
	}
	return nil, false
}

// ResolveCallPath maps a name or attribute chain to its qualified path:
// the root name's binding path followed by the attribute names. Anything
// else, an unbound root, or a binding without a path is unresolved.
func (r *Resolver) ResolveCallPath(b *ast.Builder, expr ast.ExprID) (CallPath, bool) {
	var attrs []string
	cur := expr
	for {
		if attr, ok := b.Exprs.Attribute(cur); ok {
			attrs = append(attrs, attr.Attr.Name)
			cur = attr.Value
			continue
		}
		break
	}
	name, ok := b.Exprs.Name(cur)
	if !ok {
		return nil, false
	}
	binding, ok := r.Lookup(name.Name)
	if !ok || !binding.Qualified() {
		return nil, false
	}
	out := make(CallPath, 0, len(binding.Path)+len(attrs))
	out = append(out, binding.Path...)
	for i := len(attrs) - 1; i >= 0; i-- {
		out = append(out, attrs[i])
	}
	return out, true
}
