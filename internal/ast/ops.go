package ast

// BinOp is an arithmetic or bitwise binary operator.
type BinOp uint8

const (
	BinAdd BinOp = iota
	BinSub
	BinMul
	BinMatMul
	BinDiv
	BinFloorDiv
	BinMod
	BinPow
	BinLShift
	BinRShift
	BinBitOr
	BinBitXor
	BinBitAnd
)

var binOpNames = [...]string{
	BinAdd: "+", BinSub: "-", BinMul: "*", BinMatMul: "@", BinDiv: "/",
	BinFloorDiv: "//", BinMod: "%", BinPow: "**", BinLShift: "<<",
	BinRShift: ">>", BinBitOr: "|", BinBitXor: "^", BinBitAnd: "&",
}

func (op BinOp) String() string {
	if int(op) < len(binOpNames) {
		return binOpNames[op]
	}
	return "?"
}

// BoolOp is `and` / `or`.
type BoolOp uint8

const (
	BoolAnd BoolOp = iota
	BoolOr
)

func (op BoolOp) String() string {
	if op == BoolAnd {
		return "and"
	}
	return "or"
}

// UnaryOp is a prefix operator.
type UnaryOp uint8

const (
	UnaryNot UnaryOp = iota
	UnaryNeg
	UnaryPos
	UnaryInvert
)

func (op UnaryOp) String() string {
	switch op {
	case UnaryNot:
		return "not"
	case UnaryNeg:
		return "-"
	case UnaryPos:
		return "+"
	default:
		return "~"
	}
}

// CmpOp is a comparison operator; chains keep one per link.
type CmpOp uint8

const (
	CmpEq CmpOp = iota
	CmpNotEq
	CmpLt
	CmpLtE
	CmpGt
	CmpGtE
	CmpIs
	CmpIsNot
	CmpIn
	CmpNotIn
)

var cmpOpNames = [...]string{
	CmpEq: "==", CmpNotEq: "!=", CmpLt: "<", CmpLtE: "<=", CmpGt: ">",
	CmpGtE: ">=", CmpIs: "is", CmpIsNot: "is not", CmpIn: "in", CmpNotIn: "not in",
}

func (op CmpOp) String() string {
	if int(op) < len(cmpOpNames) {
		return cmpOpNames[op]
	}
	return "?"
}
