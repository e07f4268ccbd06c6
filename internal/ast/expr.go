package ast

import "pyrite/internal/source"

type ExprKind uint8

const (
	ExprName ExprKind = iota
	ExprConstant
	ExprAttribute
	ExprCall
	ExprSubscript
	ExprSlice
	ExprStarred
	ExprAwait
	ExprYield
	ExprYieldFrom
	ExprBinOp
	ExprBoolOp
	ExprUnaryOp
	ExprCompare
	ExprNamed
	ExprIfExp
	ExprLambda
	ExprTuple
	ExprList
	ExprSet
	ExprDict
	ExprListComp
	ExprSetComp
	ExprGenerator
	ExprDictComp
)

var exprKindNames = [...]string{
	ExprName: "Name", ExprConstant: "Constant", ExprAttribute: "Attribute",
	ExprCall: "Call", ExprSubscript: "Subscript", ExprSlice: "Slice",
	ExprStarred: "Starred", ExprAwait: "Await", ExprYield: "Yield",
	ExprYieldFrom: "YieldFrom", ExprBinOp: "BinOp", ExprBoolOp: "BoolOp",
	ExprUnaryOp: "UnaryOp", ExprCompare: "Compare", ExprNamed: "NamedExpr",
	ExprIfExp: "IfExp", ExprLambda: "Lambda", ExprTuple: "Tuple",
	ExprList: "List", ExprSet: "Set", ExprDict: "Dict", ExprListComp: "ListComp",
	ExprSetComp: "SetComp", ExprGenerator: "GeneratorExp", ExprDictComp: "DictComp",
}

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return "Expr(?)"
}

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

type ConstKind uint8

const (
	ConstNone ConstKind = iota
	ConstTrue
	ConstFalse
	ConstInt
	ConstFloat
	ConstComplex
	ConstString
	ConstBytes
	ConstEllipsis
)

var constKindNames = [...]string{
	ConstNone: "None", ConstTrue: "True", ConstFalse: "False", ConstInt: "int",
	ConstFloat: "float", ConstComplex: "complex", ConstString: "str",
	ConstBytes: "bytes", ConstEllipsis: "Ellipsis",
}

func (k ConstKind) String() string {
	if int(k) < len(constKindNames) {
		return constKindNames[k]
	}
	return "?"
}

type NameData struct {
	Name string
}

// ConstantData keeps the literal as written; adjacent string literals are
// one constant whose Raw spans all of them.
type ConstantData struct {
	Kind ConstKind
	Raw  string
}

type AttributeData struct {
	Value ExprID
	Attr  Ident
}

type CallData struct {
	Func     ExprID
	Args     []ExprID
	Keywords []Keyword
}

type SubscriptData struct {
	Value ExprID
	Index ExprID
}

type SliceData struct {
	Lower, Upper, Step ExprID
}

// ExprValueData is shared by Starred, Await, Yield and YieldFrom.
type ExprValueData struct {
	Value ExprID
}

type BinaryData struct {
	Left   ExprID
	Op     BinOp
	OpSpan source.Span
	Right  ExprID
}

type BoolData struct {
	Op     BoolOp
	Values []ExprID
}

type UnaryData struct {
	Op      UnaryOp
	Operand ExprID
}

// CompareData models `a < b <= c` as Left=a, Ops=[<,<=], Comparators=[b,c].
type CompareData struct {
	Left        ExprID
	Ops         []CmpOp
	OpSpans     []source.Span
	Comparators []ExprID
}

type NamedData struct {
	Target ExprID
	Value  ExprID
}

type IfExpData struct {
	Test, Body, Orelse ExprID
}

type LambdaData struct {
	Params []Param
	Body   ExprID
}

// SeqData is shared by Tuple, List and Set.
type SeqData struct {
	Elts          []ExprID
	Parenthesized bool
}

// DictData: a NoExprID key marks a `**mapping` entry.
type DictData struct {
	Keys   []ExprID
	Values []ExprID
}

type Comprehension struct {
	Target ExprID
	Iter   ExprID
	Ifs    []ExprID
	Async  bool
}

// CompData is shared by the comprehensions; Value is only set for DictComp,
// where Elt is the key.
type CompData struct {
	Elt        ExprID
	Value      ExprID
	Generators []Comprehension
}
