package symbols

import (
	"strings"

	"pyrite/internal/ast"
)

// BindImport binds the names introduced by an import statement:
//
//	import a.b          -> a = [a]
//	import a.b as c     -> c = [a b]
//	from a.b import c   -> c = [a b c]
//	from . import x     -> x = [. x]
//
// Star imports bind nothing.
func (r *Resolver) BindImport(kind ast.StmtKind, data *ast.ImportData) {
	if data == nil {
		return
	}
	if kind == ast.StmtImport {
		for _, alias := range data.Names {
			full := ParseCallPath(alias.Name)
			if alias.AsName != "" {
				r.Bind(alias.AsName, BindingImport, alias.Span, full)
				continue
			}
			r.Bind(full[0], BindingImport, alias.Span, full[:1])
		}
		return
	}

	base := ParseCallPath(strings.Repeat(".", data.Level) + data.Module)
	for _, alias := range data.Names {
		if alias.Name == "*" {
			continue
		}
		path := make(CallPath, 0, len(base)+1)
		path = append(path, base...)
		path = append(path, alias.Name)
		bound := alias.Name
		if alias.AsName != "" {
			bound = alias.AsName
		}
		r.Bind(bound, BindingFromImport, alias.Span, path)
	}
}
