package ast

import "pyrite/internal/source"

// Exprs stores expressions plus one payload arena per expression shape.
type Exprs struct {
	Arena      *Arena[Expr]
	NameNodes  *Arena[NameData]
	Constants  *Arena[ConstantData]
	Attributes *Arena[AttributeData]
	Calls      *Arena[CallData]
	Subscripts *Arena[SubscriptData]
	Slices     *Arena[SliceData]
	Values     *Arena[ExprValueData]
	Binaries   *Arena[BinaryData]
	Bools      *Arena[BoolData]
	Unaries    *Arena[UnaryData]
	Compares   *Arena[CompareData]
	Nameds     *Arena[NamedData]
	IfExps     *Arena[IfExpData]
	Lambdas    *Arena[LambdaData]
	Seqs       *Arena[SeqData]
	Dicts      *Arena[DictData]
	Comps      *Arena[CompData]
}

func NewExprs(capHint uint) *Exprs {
	small := capHint/8 + 1
	return &Exprs{
		Arena:      NewArena[Expr](capHint),
		NameNodes:  NewArena[NameData](capHint / 2),
		Constants:  NewArena[ConstantData](capHint / 4),
		Attributes: NewArena[AttributeData](small),
		Calls:      NewArena[CallData](small),
		Subscripts: NewArena[SubscriptData](small),
		Slices:     NewArena[SliceData](small),
		Values:     NewArena[ExprValueData](small),
		Binaries:   NewArena[BinaryData](small),
		Bools:      NewArena[BoolData](small),
		Unaries:    NewArena[UnaryData](small),
		Compares:   NewArena[CompareData](small),
		Nameds:     NewArena[NamedData](small),
		IfExps:     NewArena[IfExpData](small),
		Lambdas:    NewArena[LambdaData](small),
		Seqs:       NewArena[SeqData](small),
		Dicts:      NewArena[DictData](small),
		Comps:      NewArena[CompData](small),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload uint32) ExprID {
	return ExprID(e.Arena.Allocate(Expr{Kind: kind, Span: span, Payload: PayloadID(payload)}))
}

func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

// Span returns the span of id, or the zero span for NoExprID.
func (e *Exprs) Span(id ExprID) source.Span {
	if ex := e.Get(id); ex != nil {
		return ex.Span
	}
	return source.Span{}
}

func (e *Exprs) payload(id ExprID, kinds ...ExprKind) (uint32, bool) {
	ex := e.Get(id)
	if ex == nil {
		return 0, false
	}
	for _, k := range kinds {
		if ex.Kind == k {
			return uint32(ex.Payload), true
		}
	}
	return 0, false
}

// SetSpan widens an expression after the fact, used for parenthesized forms.
func (e *Exprs) SetSpan(id ExprID, span source.Span) {
	if ex := e.Get(id); ex != nil {
		ex.Span = span
	}
}

func (e *Exprs) NewName(span source.Span, name string) ExprID {
	return e.new(ExprName, span, e.NameNodes.Allocate(NameData{Name: name}))
}

func (e *Exprs) Name(id ExprID) (*NameData, bool) {
	p, ok := e.payload(id, ExprName)
	if !ok {
		return nil, false
	}
	return e.NameNodes.Get(p), true
}

func (e *Exprs) NewConstant(span source.Span, kind ConstKind, raw string) ExprID {
	return e.new(ExprConstant, span, e.Constants.Allocate(ConstantData{Kind: kind, Raw: raw}))
}

func (e *Exprs) Constant(id ExprID) (*ConstantData, bool) {
	p, ok := e.payload(id, ExprConstant)
	if !ok {
		return nil, false
	}
	return e.Constants.Get(p), true
}

func (e *Exprs) NewAttribute(span source.Span, value ExprID, attr Ident) ExprID {
	return e.new(ExprAttribute, span, e.Attributes.Allocate(AttributeData{Value: value, Attr: attr}))
}

func (e *Exprs) Attribute(id ExprID) (*AttributeData, bool) {
	p, ok := e.payload(id, ExprAttribute)
	if !ok {
		return nil, false
	}
	return e.Attributes.Get(p), true
}

func (e *Exprs) NewCall(span source.Span, data CallData) ExprID {
	return e.new(ExprCall, span, e.Calls.Allocate(data))
}

func (e *Exprs) Call(id ExprID) (*CallData, bool) {
	p, ok := e.payload(id, ExprCall)
	if !ok {
		return nil, false
	}
	return e.Calls.Get(p), true
}

func (e *Exprs) NewSubscript(span source.Span, value, index ExprID) ExprID {
	return e.new(ExprSubscript, span, e.Subscripts.Allocate(SubscriptData{Value: value, Index: index}))
}

func (e *Exprs) Subscript(id ExprID) (*SubscriptData, bool) {
	p, ok := e.payload(id, ExprSubscript)
	if !ok {
		return nil, false
	}
	return e.Subscripts.Get(p), true
}

func (e *Exprs) NewSlice(span source.Span, data SliceData) ExprID {
	return e.new(ExprSlice, span, e.Slices.Allocate(data))
}

func (e *Exprs) Slice(id ExprID) (*SliceData, bool) {
	p, ok := e.payload(id, ExprSlice)
	if !ok {
		return nil, false
	}
	return e.Slices.Get(p), true
}

// NewValue creates Starred, Await, Yield and YieldFrom.
func (e *Exprs) NewValue(kind ExprKind, span source.Span, value ExprID) ExprID {
	return e.new(kind, span, e.Values.Allocate(ExprValueData{Value: value}))
}

func (e *Exprs) Value(id ExprID) (*ExprValueData, bool) {
	p, ok := e.payload(id, ExprStarred, ExprAwait, ExprYield, ExprYieldFrom)
	if !ok {
		return nil, false
	}
	return e.Values.Get(p), true
}

func (e *Exprs) NewBinary(span source.Span, data BinaryData) ExprID {
	return e.new(ExprBinOp, span, e.Binaries.Allocate(data))
}

func (e *Exprs) Binary(id ExprID) (*BinaryData, bool) {
	p, ok := e.payload(id, ExprBinOp)
	if !ok {
		return nil, false
	}
	return e.Binaries.Get(p), true
}

func (e *Exprs) NewBool(span source.Span, op BoolOp, values []ExprID) ExprID {
	return e.new(ExprBoolOp, span, e.Bools.Allocate(BoolData{Op: op, Values: values}))
}

func (e *Exprs) Bool(id ExprID) (*BoolData, bool) {
	p, ok := e.payload(id, ExprBoolOp)
	if !ok {
		return nil, false
	}
	return e.Bools.Get(p), true
}

func (e *Exprs) NewUnary(span source.Span, op UnaryOp, operand ExprID) ExprID {
	return e.new(ExprUnaryOp, span, e.Unaries.Allocate(UnaryData{Op: op, Operand: operand}))
}

func (e *Exprs) Unary(id ExprID) (*UnaryData, bool) {
	p, ok := e.payload(id, ExprUnaryOp)
	if !ok {
		return nil, false
	}
	return e.Unaries.Get(p), true
}

func (e *Exprs) NewCompare(span source.Span, data CompareData) ExprID {
	return e.new(ExprCompare, span, e.Compares.Allocate(data))
}

func (e *Exprs) Compare(id ExprID) (*CompareData, bool) {
	p, ok := e.payload(id, ExprCompare)
	if !ok {
		return nil, false
	}
	return e.Compares.Get(p), true
}

func (e *Exprs) NewNamed(span source.Span, target, value ExprID) ExprID {
	return e.new(ExprNamed, span, e.Nameds.Allocate(NamedData{Target: target, Value: value}))
}

func (e *Exprs) Named(id ExprID) (*NamedData, bool) {
	p, ok := e.payload(id, ExprNamed)
	if !ok {
		return nil, false
	}
	return e.Nameds.Get(p), true
}

func (e *Exprs) NewIfExp(span source.Span, data IfExpData) ExprID {
	return e.new(ExprIfExp, span, e.IfExps.Allocate(data))
}

func (e *Exprs) IfExp(id ExprID) (*IfExpData, bool) {
	p, ok := e.payload(id, ExprIfExp)
	if !ok {
		return nil, false
	}
	return e.IfExps.Get(p), true
}

func (e *Exprs) NewLambda(span source.Span, params []Param, body ExprID) ExprID {
	return e.new(ExprLambda, span, e.Lambdas.Allocate(LambdaData{Params: params, Body: body}))
}

func (e *Exprs) Lambda(id ExprID) (*LambdaData, bool) {
	p, ok := e.payload(id, ExprLambda)
	if !ok {
		return nil, false
	}
	return e.Lambdas.Get(p), true
}

// NewSeq creates Tuple, List and Set.
func (e *Exprs) NewSeq(kind ExprKind, span source.Span, elts []ExprID, parenthesized bool) ExprID {
	return e.new(kind, span, e.Seqs.Allocate(SeqData{Elts: elts, Parenthesized: parenthesized}))
}

func (e *Exprs) Seq(id ExprID) (*SeqData, bool) {
	p, ok := e.payload(id, ExprTuple, ExprList, ExprSet)
	if !ok {
		return nil, false
	}
	return e.Seqs.Get(p), true
}

// Tuple is Seq restricted to tuples.
func (e *Exprs) Tuple(id ExprID) (*SeqData, bool) {
	p, ok := e.payload(id, ExprTuple)
	if !ok {
		return nil, false
	}
	return e.Seqs.Get(p), true
}

func (e *Exprs) NewDict(span source.Span, keys, values []ExprID) ExprID {
	return e.new(ExprDict, span, e.Dicts.Allocate(DictData{Keys: keys, Values: values}))
}

func (e *Exprs) Dict(id ExprID) (*DictData, bool) {
	p, ok := e.payload(id, ExprDict)
	if !ok {
		return nil, false
	}
	return e.Dicts.Get(p), true
}

// NewComp creates the four comprehension kinds.
func (e *Exprs) NewComp(kind ExprKind, span source.Span, data CompData) ExprID {
	return e.new(kind, span, e.Comps.Allocate(data))
}

func (e *Exprs) Comp(id ExprID) (*CompData, bool) {
	p, ok := e.payload(id, ExprListComp, ExprSetComp, ExprGenerator, ExprDictComp)
	if !ok {
		return nil, false
	}
	return e.Comps.Get(p), true
}
