package ast

import "pyrite/internal/source"

// Ident is a name together with where it was written.
type Ident struct {
	Name string
	Span source.Span
}

type ParamKind uint8

const (
	ParamPositionalOnly ParamKind = iota
	ParamRegular
	ParamVarArgs // *args
	ParamKeywordOnly
	ParamKwArgs // **kwargs
)

type Param struct {
	Ident
	Kind       ParamKind
	Annotation ExprID
	Default    ExprID
}

// Keyword is a `name=value` call argument or class keyword; Name is empty
// for `**value`.
type Keyword struct {
	Name  string
	Value ExprID
	Span  source.Span
}

type FunctionDefData struct {
	Name       Ident
	Decorators []ExprID
	Params     []Param
	Returns    ExprID
	Body       []StmtID
	Async      bool
}

type ClassDefData struct {
	Name       Ident
	Decorators []ExprID
	Bases      []ExprID
	Keywords   []Keyword
	Body       []StmtID
}

type StmtValueData struct {
	Value ExprID
}

type StmtTargetsData struct {
	Targets []ExprID
}

type AssignData struct {
	Targets []ExprID // a = b = value has two
	Value   ExprID
}

type AugAssignData struct {
	Target ExprID
	Op     BinOp
	Value  ExprID
}

type AnnAssignData struct {
	Target     ExprID
	Annotation ExprID
	Value      ExprID // may be NoExprID
}

type ForData struct {
	Target ExprID
	Iter   ExprID
	Body   []StmtID
	Orelse []StmtID
	Async  bool
}

type WhileData struct {
	Test   ExprID
	Body   []StmtID
	Orelse []StmtID
}

// IfData: an elif chain is an If whose Orelse holds exactly one If with
// Elif set.
type IfData struct {
	Test   ExprID
	Body   []StmtID
	Orelse []StmtID
	Elif   bool
}

type WithItem struct {
	Context ExprID
	Vars    ExprID // may be NoExprID
}

type WithData struct {
	Items []WithItem
	Body  []StmtID
	Async bool
}

type RaiseData struct {
	Exc   ExprID
	Cause ExprID
}

type ExceptHandler struct {
	Type ExprID // NoExprID for a bare except
	Name Ident  // empty Name when there is no `as`
	Body []StmtID
	Span source.Span
}

type TryData struct {
	Body     []StmtID
	Handlers []ExceptHandler
	Orelse   []StmtID
	Finally  []StmtID
	Star     bool // except*
}

type AssertData struct {
	Test ExprID
	Msg  ExprID
}

// Alias is one `name [as asname]` of an import. For `import a.b`, Name is
// "a.b".
type Alias struct {
	Name   string
	AsName string
	Span   source.Span
}

// ImportData serves both import forms. Module and Level are only set for
// `from` imports; Level counts leading dots.
type ImportData struct {
	Module string
	Level  int
	Names  []Alias
}

type NamesData struct {
	Names []Ident
}
