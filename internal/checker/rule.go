package checker

import (
	"strings"

	"pyrite/internal/ast"
	"pyrite/internal/diag"
)

// Hook names the node family a rule subscribes to.
type Hook uint8

const (
	HookStmt Hook = 1 << iota
	HookExpr
	HookDecorators
)

func (h Hook) String() string {
	var parts []string
	if h&HookStmt != 0 {
		parts = append(parts, "stmt")
	}
	if h&HookExpr != 0 {
		parts = append(parts, "expr")
	}
	if h&HookDecorators != 0 {
		parts = append(parts, "decorators")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ",")
}

// Rule is one lint rule: an identity plus a function per hook. Nil hooks
// are not dispatched.
type Rule struct {
	Name string
	Code diag.Code

	Stmt func(ctx *Context, id ast.StmtID)
	Expr func(ctx *Context, id ast.ExprID)
	// Decorators fires for def and class statements that have decorators,
	// before their own scope is entered.
	Decorators func(ctx *Context, owner ast.StmtID, decorators []ast.ExprID)
}

// Hooks reports which hooks the rule implements.
func (r *Rule) Hooks() Hook {
	var h Hook
	if r.Stmt != nil {
		h |= HookStmt
	}
	if r.Expr != nil {
		h |= HookExpr
	}
	if r.Decorators != nil {
		h |= HookDecorators
	}
	return h
}
