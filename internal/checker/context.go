package checker

import (
	"pyrite/internal/ast"
	"pyrite/internal/diag"
	"pyrite/internal/source"
	"pyrite/internal/symbols"
)

// Context is what a rule sees during dispatch. Each rule gets its own
// Context bound to its own bucket, so rules cannot observe each other.
type Context struct {
	Builder *ast.Builder
	File    *source.File

	rule     *Rule
	resolver *symbols.Resolver
	bucket   *diag.Bag
}

// CurrentScopeKind is the kind of the innermost scope at the node being
// dispatched.
func (c *Context) CurrentScopeKind() symbols.ScopeKind {
	return c.resolver.CurrentKind()
}

// ResolveCallPath resolves a name or attribute chain against the bindings
// seen so far.
func (c *Context) ResolveCallPath(expr ast.ExprID) (symbols.CallPath, bool) {
	return c.resolver.ResolveCallPath(c.Builder, expr)
}

// Lookup returns the binding name refers to at this point of the walk.
func (c *Context) Lookup(name string) (*symbols.Binding, bool) {
	return c.resolver.Lookup(name)
}

// Text returns the source text covered by sp.
func (c *Context) Text(sp source.Span) string {
	if c.File == nil {
		return ""
	}
	return c.File.Slice(sp)
}

// Report starts a warning with the rule's code. Call Emit to record it.
func (c *Context) Report(primary source.Span, msg string) *diag.ReportBuilder {
	return diag.ReportWarning(diag.BagReporter{Bag: c.bucket}, c.rule.Code, primary, msg)
}
