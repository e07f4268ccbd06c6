package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Name is an identifier that is not a keyword.
	Name
	// Int is an integer literal in any base.
	Int
	// Float is a floating point literal.
	Float
	// Complex is an imaginary literal such as 3j.
	Complex
	// String is a string or bytes literal, including prefixed and
	// triple-quoted forms.
	String

	// Newline ends a logical line.
	Newline
	// Indent opens a block; its span covers the leading whitespace.
	Indent
	// Dedent closes a block; it is zero width.
	Dedent
	// Comment runs from '#' to the end of the line.
	Comment

	KwFalse
	KwNone
	KwTrue
	KwAnd
	KwAs
	KwAssert
	KwAsync
	KwAwait
	KwBreak
	KwClass
	KwContinue
	KwDef
	KwDel
	KwElif
	KwElse
	KwExcept
	KwFinally
	KwFor
	KwFrom
	KwGlobal
	KwIf
	KwImport
	KwIn
	KwIs
	KwLambda
	KwNonlocal
	KwNot
	KwOr
	KwPass
	KwRaise
	KwReturn
	KwTry
	KwWhile
	KwWith
	KwYield

	Plus        // +
	Minus       // -
	Star        // *
	StarStar    // **
	Slash       // /
	SlashSlash  // //
	Percent     // %
	At          // @
	Amp         // &
	Pipe        // |
	Caret       // ^
	Tilde       // ~
	Shl         // <<
	Shr         // >>
	Lt          // <
	Gt          // >
	LtEq        // <=
	GtEq        // >=
	EqEq        // ==
	BangEq      // !=
	Assign      // =
	ColonAssign // :=

	PlusAssign       // +=
	MinusAssign      // -=
	StarAssign       // *=
	StarStarAssign   // **=
	SlashAssign      // /=
	SlashSlashAssign // //=
	PercentAssign    // %=
	AtAssign         // @=
	AmpAssign        // &=
	PipeAssign       // |=
	CaretAssign      // ^=
	ShlAssign        // <<=
	ShrAssign        // >>=

	Arrow     // ->
	Dot       // .
	Ellipsis  // ...
	Comma     // ,
	Colon     // :
	Semicolon // ;
	LParen    // (
	RParen    // )
	LBracket  // [
	RBracket  // ]
	LBrace    // {
	RBrace    // }

	kindCount
)

var kindNames = [...]string{
	Invalid: "Invalid", EOF: "EOF",
	Name: "Name", Int: "Int", Float: "Float", Complex: "Complex", String: "String",
	Newline: "Newline", Indent: "Indent", Dedent: "Dedent", Comment: "Comment",
	KwFalse: "False", KwNone: "None", KwTrue: "True", KwAnd: "and", KwAs: "as",
	KwAssert: "assert", KwAsync: "async", KwAwait: "await", KwBreak: "break",
	KwClass: "class", KwContinue: "continue", KwDef: "def", KwDel: "del",
	KwElif: "elif", KwElse: "else", KwExcept: "except", KwFinally: "finally",
	KwFor: "for", KwFrom: "from", KwGlobal: "global", KwIf: "if",
	KwImport: "import", KwIn: "in", KwIs: "is", KwLambda: "lambda",
	KwNonlocal: "nonlocal", KwNot: "not", KwOr: "or", KwPass: "pass",
	KwRaise: "raise", KwReturn: "return", KwTry: "try", KwWhile: "while",
	KwWith: "with", KwYield: "yield",
	Plus: "+", Minus: "-", Star: "*", StarStar: "**", Slash: "/", SlashSlash: "//",
	Percent: "%", At: "@", Amp: "&", Pipe: "|", Caret: "^", Tilde: "~",
	Shl: "<<", Shr: ">>", Lt: "<", Gt: ">", LtEq: "<=", GtEq: ">=",
	EqEq: "==", BangEq: "!=", Assign: "=", ColonAssign: ":=",
	PlusAssign: "+=", MinusAssign: "-=", StarAssign: "*=", StarStarAssign: "**=",
	SlashAssign: "/=", SlashSlashAssign: "//=", PercentAssign: "%=", AtAssign: "@=",
	AmpAssign: "&=", PipeAssign: "|=", CaretAssign: "^=", ShlAssign: "<<=", ShrAssign: ">>=",
	Arrow: "->", Dot: ".", Ellipsis: "...", Comma: ",", Colon: ":", Semicolon: ";",
	LParen: "(", RParen: ")", LBracket: "[", RBracket: "]", LBrace: "{", RBrace: "}",
}

func (k Kind) String() string {
	if k < kindCount && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsKeyword reports whether k is one of the hard keywords.
func (k Kind) IsKeyword() bool { return k >= KwFalse && k <= KwYield }

// IsOperator reports whether k is an operator or delimiter.
func (k Kind) IsOperator() bool { return k >= Plus && k < kindCount }

// IsAugAssign reports whether k is an augmented assignment operator.
func (k Kind) IsAugAssign() bool { return k >= PlusAssign && k <= ShrAssign }

// IsOpenBracket reports '(' '[' '{'.
func (k Kind) IsOpenBracket() bool { return k == LParen || k == LBracket || k == LBrace }

// IsCloseBracket reports ')' ']' '}'.
func (k Kind) IsCloseBracket() bool { return k == RParen || k == RBracket || k == RBrace }

// IsTrivia reports the kinds the logical line builder drops.
func (k Kind) IsTrivia() bool {
	return k == Newline || k == Indent || k == Dedent || k == Comment
}
