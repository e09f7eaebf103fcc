package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Newline ends a logical line.
	Newline

	// Ident represents an identifier token (optionally with a type suffix like `name$`).
	Ident
	// IntLit is a decimal, &H or &O integer literal.
	IntLit
	// FloatLit is a literal with a fraction or exponent.
	FloatLit
	// StringLit is a double-quoted literal ("" escapes a quote).
	StringLit
	// DateLit is a #...# date literal.
	DateLit

	keywordBegin
	KwAttribute
	KwOption
	KwPrivate
	KwPublic
	KwFriend
	KwGlobal
	KwDim
	KwStatic
	KwConst
	KwAs
	KwNew
	KwSub
	KwFunction
	KwProperty
	KwLet
	KwSet
	KwEnd
	KwExit
	KwCall
	KwIf
	KwThen
	KwElse
	KwElseIf
	KwFor
	KwTo
	KwEach
	KwIn
	KwNext
	KwDo
	KwLoop
	KwWhile
	KwWend
	KwUntil
	KwSelect
	KwCase
	KwWith
	KwType
	KwEnum
	KwByVal
	KwByRef
	KwOptional
	KwParamArray
	KwNot
	KwAnd
	KwOr
	KwXor
	KwMod
	KwIs
	KwLike
	KwTrue
	KwFalse
	KwNothing
	KwEmpty
	KwNull
	KwMe
	KwGoTo
	KwOn
	KwResume
	KwReDim
	KwPreserve
	KwImplements
	keywordEnd

	Plus      // +
	Minus     // -
	Star      // *
	Slash     // /
	Backslash // \
	Caret     // ^
	Amp       // &
	Eq        // =
	NotEq     // <>
	Lt        // <
	LtEq      // <=
	Gt        // >
	GtEq      // >=
	LParen    // (
	RParen    // )
	Comma     // ,
	Dot       // .
	Bang      // !
	Colon     // :
	ColonEq   // :=
	Semicolon // ;
	Hash      // #
)

var kindNames = [...]string{
	Invalid:   "Invalid",
	EOF:       "EOF",
	Newline:   "Newline",
	Ident:     "Ident",
	IntLit:    "IntLit",
	FloatLit:  "FloatLit",
	StringLit: "StringLit",
	DateLit:   "DateLit",
	Plus:      "+",
	Minus:     "-",
	Star:      "*",
	Slash:     "/",
	Backslash: "\\",
	Caret:     "^",
	Amp:       "&",
	Eq:        "=",
	NotEq:     "<>",
	Lt:        "<",
	LtEq:      "<=",
	Gt:        ">",
	GtEq:      ">=",
	LParen:    "(",
	RParen:    ")",
	Comma:     ",",
	Dot:       ".",
	Bang:      "!",
	Colon:     ":",
	ColonEq:   ":=",
	Semicolon: ";",
	Hash:      "#",
}

func (k Kind) String() string {
	if k.IsKeyword() {
		return keywordSpelling[k]
	}
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool { return k > keywordBegin && k < keywordEnd }
