package ast

import (
	"pyrite/internal/source"
)

type StmtKind uint8

const (
	StmtFunctionDef StmtKind = iota
	StmtClassDef
	StmtReturn
	StmtDelete
	StmtAssign
	StmtAugAssign
	StmtAnnAssign
	StmtFor
	StmtWhile
	StmtIf
	StmtWith
	StmtRaise
	StmtTry
	StmtAssert
	StmtImport
	StmtImportFrom
	StmtGlobal
	StmtNonlocal
	StmtExpr
	StmtPass
	StmtBreak
	StmtContinue
)

var stmtKindNames = [...]string{
	StmtFunctionDef: "FunctionDef", StmtClassDef: "ClassDef", StmtReturn: "Return",
	StmtDelete: "Delete", StmtAssign: "Assign", StmtAugAssign: "AugAssign",
	StmtAnnAssign: "AnnAssign", StmtFor: "For", StmtWhile: "While", StmtIf: "If",
	StmtWith: "With", StmtRaise: "Raise", StmtTry: "Try", StmtAssert: "Assert",
	StmtImport: "Import", StmtImportFrom: "ImportFrom", StmtGlobal: "Global",
	StmtNonlocal: "Nonlocal", StmtExpr: "Expr", StmtPass: "Pass",
	StmtBreak: "Break", StmtContinue: "Continue",
}

func (k StmtKind) String() string {
	if int(k) < len(stmtKindNames) {
		return stmtKindNames[k]
	}
	return "Stmt(?)"
}

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

// Stmts stores statements plus one payload arena per statement shape.
type Stmts struct {
	Arena      *Arena[Stmt]
	Functions  *Arena[FunctionDefData]
	Classes    *Arena[ClassDefData]
	Values     *Arena[StmtValueData]
	Targets    *Arena[StmtTargetsData]
	Assigns    *Arena[AssignData]
	AugAssigns *Arena[AugAssignData]
	AnnAssigns *Arena[AnnAssignData]
	Fors       *Arena[ForData]
	Whiles     *Arena[WhileData]
	Ifs        *Arena[IfData]
	Withs      *Arena[WithData]
	Raises     *Arena[RaiseData]
	Tries      *Arena[TryData]
	Asserts    *Arena[AssertData]
	Imports    *Arena[ImportData]
	NameLists  *Arena[NamesData]
}

func NewStmts(capHint uint) *Stmts {
	small := capHint/4 + 1
	return &Stmts{
		Arena:      NewArena[Stmt](capHint),
		Functions:  NewArena[FunctionDefData](small),
		Classes:    NewArena[ClassDefData](small),
		Values:     NewArena[StmtValueData](capHint),
		Targets:    NewArena[StmtTargetsData](small),
		Assigns:    NewArena[AssignData](capHint),
		AugAssigns: NewArena[AugAssignData](small),
		AnnAssigns: NewArena[AnnAssignData](small),
		Fors:       NewArena[ForData](small),
		Whiles:     NewArena[WhileData](small),
		Ifs:        NewArena[IfData](small),
		Withs:      NewArena[WithData](small),
		Raises:     NewArena[RaiseData](small),
		Tries:      NewArena[TryData](small),
		Asserts:    NewArena[AssertData](small),
		Imports:    NewArena[ImportData](small),
		NameLists:  NewArena[NamesData](small),
	}
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload uint32) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{Kind: kind, Span: span, Payload: PayloadID(payload)}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

// payload returns the payload index of id when it has the wanted kind.
func (s *Stmts) payload(id StmtID, kinds ...StmtKind) (uint32, bool) {
	st := s.Get(id)
	if st == nil {
		return 0, false
	}
	for _, k := range kinds {
		if st.Kind == k {
			return uint32(st.Payload), true
		}
	}
	return 0, false
}

func (s *Stmts) NewFunctionDef(span source.Span, data FunctionDefData) StmtID {
	return s.new(StmtFunctionDef, span, s.Functions.Allocate(data))
}

func (s *Stmts) FunctionDef(id StmtID) (*FunctionDefData, bool) {
	p, ok := s.payload(id, StmtFunctionDef)
	if !ok {
		return nil, false
	}
	return s.Functions.Get(p), true
}

func (s *Stmts) NewClassDef(span source.Span, data ClassDefData) StmtID {
	return s.new(StmtClassDef, span, s.Classes.Allocate(data))
}

func (s *Stmts) ClassDef(id StmtID) (*ClassDefData, bool) {
	p, ok := s.payload(id, StmtClassDef)
	if !ok {
		return nil, false
	}
	return s.Classes.Get(p), true
}

// NewValue creates Return or Expr statements.
func (s *Stmts) NewValue(kind StmtKind, span source.Span, value ExprID) StmtID {
	return s.new(kind, span, s.Values.Allocate(StmtValueData{Value: value}))
}

// Value returns the payload of Return and Expr statements.
func (s *Stmts) Value(id StmtID) (*StmtValueData, bool) {
	p, ok := s.payload(id, StmtReturn, StmtExpr)
	if !ok {
		return nil, false
	}
	return s.Values.Get(p), true
}

func (s *Stmts) NewDelete(span source.Span, targets []ExprID) StmtID {
	return s.new(StmtDelete, span, s.Targets.Allocate(StmtTargetsData{Targets: targets}))
}

func (s *Stmts) Delete(id StmtID) (*StmtTargetsData, bool) {
	p, ok := s.payload(id, StmtDelete)
	if !ok {
		return nil, false
	}
	return s.Targets.Get(p), true
}

func (s *Stmts) NewAssign(span source.Span, targets []ExprID, value ExprID) StmtID {
	return s.new(StmtAssign, span, s.Assigns.Allocate(AssignData{Targets: targets, Value: value}))
}

func (s *Stmts) Assign(id StmtID) (*AssignData, bool) {
	p, ok := s.payload(id, StmtAssign)
	if !ok {
		return nil, false
	}
	return s.Assigns.Get(p), true
}

func (s *Stmts) NewAugAssign(span source.Span, data AugAssignData) StmtID {
	return s.new(StmtAugAssign, span, s.AugAssigns.Allocate(data))
}

func (s *Stmts) AugAssign(id StmtID) (*AugAssignData, bool) {
	p, ok := s.payload(id, StmtAugAssign)
	if !ok {
		return nil, false
	}
	return s.AugAssigns.Get(p), true
}

func (s *Stmts) NewAnnAssign(span source.Span, data AnnAssignData) StmtID {
	return s.new(StmtAnnAssign, span, s.AnnAssigns.Allocate(data))
}

func (s *Stmts) AnnAssign(id StmtID) (*AnnAssignData, bool) {
	p, ok := s.payload(id, StmtAnnAssign)
	if !ok {
		return nil, false
	}
	return s.AnnAssigns.Get(p), true
}

func (s *Stmts) NewFor(span source.Span, data ForData) StmtID {
	return s.new(StmtFor, span, s.Fors.Allocate(data))
}

func (s *Stmts) For(id StmtID) (*ForData, bool) {
	p, ok := s.payload(id, StmtFor)
	if !ok {
		return nil, false
	}
	return s.Fors.Get(p), true
}

func (s *Stmts) NewWhile(span source.Span, data WhileData) StmtID {
	return s.new(StmtWhile, span, s.Whiles.Allocate(data))
}

func (s *Stmts) While(id StmtID) (*WhileData, bool) {
	p, ok := s.payload(id, StmtWhile)
	if !ok {
		return nil, false
	}
	return s.Whiles.Get(p), true
}

func (s *Stmts) NewIf(span source.Span, data IfData) StmtID {
	return s.new(StmtIf, span, s.Ifs.Allocate(data))
}

func (s *Stmts) If(id StmtID) (*IfData, bool) {
	p, ok := s.payload(id, StmtIf)
	if !ok {
		return nil, false
	}
	return s.Ifs.Get(p), true
}

func (s *Stmts) NewWith(span source.Span, data WithData) StmtID {
	return s.new(StmtWith, span, s.Withs.Allocate(data))
}

func (s *Stmts) With(id StmtID) (*WithData, bool) {
	p, ok := s.payload(id, StmtWith)
	if !ok {
		return nil, false
	}
	return s.Withs.Get(p), true
}

func (s *Stmts) NewRaise(span source.Span, exc, cause ExprID) StmtID {
	return s.new(StmtRaise, span, s.Raises.Allocate(RaiseData{Exc: exc, Cause: cause}))
}

func (s *Stmts) Raise(id StmtID) (*RaiseData, bool) {
	p, ok := s.payload(id, StmtRaise)
	if !ok {
		return nil, false
	}
	return s.Raises.Get(p), true
}

func (s *Stmts) NewTry(span source.Span, data TryData) StmtID {
	return s.new(StmtTry, span, s.Tries.Allocate(data))
}

func (s *Stmts) Try(id StmtID) (*TryData, bool) {
	p, ok := s.payload(id, StmtTry)
	if !ok {
		return nil, false
	}
	return s.Tries.Get(p), true
}

func (s *Stmts) NewAssert(span source.Span, test, msg ExprID) StmtID {
	return s.new(StmtAssert, span, s.Asserts.Allocate(AssertData{Test: test, Msg: msg}))
}

func (s *Stmts) Assert(id StmtID) (*AssertData, bool) {
	p, ok := s.payload(id, StmtAssert)
	if !ok {
		return nil, false
	}
	return s.Asserts.Get(p), true
}

// NewImport creates Import (data.Module empty) or ImportFrom statements.
func (s *Stmts) NewImport(kind StmtKind, span source.Span, data ImportData) StmtID {
	return s.new(kind, span, s.Imports.Allocate(data))
}

func (s *Stmts) Import(id StmtID) (*ImportData, bool) {
	p, ok := s.payload(id, StmtImport, StmtImportFrom)
	if !ok {
		return nil, false
	}
	return s.Imports.Get(p), true
}

// NewNames creates Global or Nonlocal statements.
func (s *Stmts) NewNames(kind StmtKind, span source.Span, names []Ident) StmtID {
	return s.new(kind, span, s.NameLists.Allocate(NamesData{Names: names}))
}

func (s *Stmts) Names(id StmtID) (*NamesData, bool) {
	p, ok := s.payload(id, StmtGlobal, StmtNonlocal)
	if !ok {
		return nil, false
	}
	return s.NameLists.Get(p), true
}

// NewSimple creates Pass, Break and Continue.
func (s *Stmts) NewSimple(kind StmtKind, span source.Span) StmtID {
	return s.new(kind, span, 0)
}
