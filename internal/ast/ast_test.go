package ast

import (
	"strings"
	"testing"

	"pyrite/internal/source"
)

func sp(start, end uint32) source.Span {
	return source.Span{File: 1, Start: start, End: end}
}

func TestArenaReservesZero(t *testing.T) {
	a := NewArena[int](0)
	if a.Get(0) != nil {
		t.Fatal("index 0 must be empty")
	}
	id := a.Allocate(7)
	if id != 1 || *a.Get(id) != 7 || a.Len() != 1 {
		t.Fatalf("allocate = %d", id)
	}
	if a.Get(2) != nil {
		t.Fatal("out of range index must be nil")
	}
}

func TestAccessorsCheckKind(t *testing.T) {
	b := NewBuilder(Hints{})
	name := b.Exprs.NewName(sp(0, 1), "x")
	if _, ok := b.Exprs.Call(name); ok {
		t.Fatal("Call accessor accepted a Name")
	}
	if n, ok := b.Exprs.Name(name); !ok || n.Name != "x" {
		t.Fatal("Name accessor failed")
	}
	if _, ok := b.Exprs.Name(NoExprID); ok {
		t.Fatal("NoExprID must not resolve")
	}
	ret := b.Stmts.NewValue(StmtReturn, sp(0, 8), name)
	if _, ok := b.Stmts.Value(ret); !ok {
		t.Fatal("Value accessor rejected Return")
	}
	if _, ok := b.Stmts.Assert(ret); ok {
		t.Fatal("Assert accessor accepted Return")
	}
}

func TestGlobalNames(t *testing.T) {
	b := NewBuilder(Hints{})
	id := b.Stmts.NewNames(StmtGlobal, sp(0, 13), []Ident{{Name: "a", Span: sp(7, 8)}, {Name: "b", Span: sp(10, 11)}})
	ns, ok := b.Stmts.Names(id)
	if !ok || len(ns.Names) != 2 || ns.Names[1].Name != "b" {
		t.Fatalf("names = %+v", ns)
	}
	nl := b.Stmts.NewNames(StmtNonlocal, sp(0, 10), []Ident{{Name: "c"}})
	if ns, ok := b.Stmts.Names(nl); !ok || ns.Names[0].Name != "c" {
		t.Fatal("Names accessor rejected Nonlocal")
	}
	pass := b.Stmts.NewSimple(StmtPass, sp(0, 4))
	if _, ok := b.Stmts.Names(pass); ok {
		t.Fatal("Names accessor accepted Pass")
	}
}

// builds `if (a, b): pass`
func buildIf(b *Builder) StmtID {
	a := b.Exprs.NewName(sp(4, 5), "a")
	c := b.Exprs.NewName(sp(7, 8), "b")
	tuple := b.Exprs.NewSeq(ExprTuple, sp(3, 9), []ExprID{a, c}, true)
	pass := b.Stmts.NewSimple(StmtPass, sp(15, 19))
	id := b.Stmts.NewIf(sp(0, 19), IfData{Test: tuple, Body: []StmtID{pass}})
	b.Module.Body = append(b.Module.Body, id)
	return id
}

func TestWalkPreOrder(t *testing.T) {
	b := NewBuilder(Hints{})
	buildIf(b)
	var order []string
	Walk(b, VisitorFuncs{
		OnStmt: func(id StmtID) bool {
			order = append(order, b.Stmts.Get(id).Kind.String())
			return true
		},
		OnExpr: func(id ExprID) bool {
			order = append(order, b.Exprs.Get(id).Kind.String())
			return true
		},
	})
	if got := strings.Join(order, " "); got != "If Tuple Name Name Pass" {
		t.Fatalf("order = %s", got)
	}
}

func TestWalkSkipsChildren(t *testing.T) {
	b := NewBuilder(Hints{})
	buildIf(b)
	count := 0
	Walk(b, VisitorFuncs{OnExpr: func(ExprID) bool {
		count++
		return false
	}})
	if count != 1 {
		t.Fatalf("visited %d expressions, want only the tuple", count)
	}
}

func TestDump(t *testing.T) {
	b := NewBuilder(Hints{})
	buildIf(b)
	var sb strings.Builder
	if err := Dump(&sb, b); err != nil {
		t.Fatal(err)
	}
	want := "If @0..19\n  Tuple () @3..9\n    Name a @4..5\n    Name b @7..8\n  Pass @15..19\n"
	if sb.String() != want {
		t.Fatalf("dump:\n%s\nwant:\n%s", sb.String(), want)
	}
}
