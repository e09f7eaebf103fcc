package syntax

// Kind identifies the grammar rule a Node was built from.
type Kind uint8

const (
	Terminal Kind = iota
	Error

	Module
	HeaderStmt // VERSION / BEGIN ... END в экспортированных .cls/.frm
	AttributeStmt
	OptionStmt
	ImplementsStmt
	VariableStmt // Dim / Static / Public / Private / Global
	VariableItem
	ConstStmt
	ConstItem
	SubDecl
	FunctionDecl
	PropertyDecl
	ParamList
	Param
	AsClause
	TypeName
	TypeDecl
	TypeMember
	EnumDecl
	EnumMember
	Block

	IfStmt
	ElseIfClause
	ElseClause
	ForStmt
	ForEachStmt
	DoStmt
	WhileStmt
	SelectStmt
	CaseClause
	WithStmt
	CallStmt // Call X(...)
	LetStmt  // [Let] x = ...
	SetStmt  // Set x = ...
	ExprStmt // X a, b (call без Call)
	ExitStmt
	GoToStmt
	OnErrorStmt
	ResumeStmt
	ReDimStmt
	LabelStmt
	EndStmt

	BinaryExpr
	UnaryExpr
	ParenExpr
	LiteralExpr
	NameExpr
	MemberExpr // a.b, a!b, .b внутри With
	CallExpr   // a(...) — вызов или индексация
	ArgList
	NewExpr
	TypeOfExpr
)

var kindNames = [...]string{
	Terminal:       "Terminal",
	Error:          "Error",
	Module:         "Module",
	HeaderStmt:     "HeaderStmt",
	AttributeStmt:  "AttributeStmt",
	OptionStmt:     "OptionStmt",
	ImplementsStmt: "ImplementsStmt",
	VariableStmt:   "VariableStmt",
	VariableItem:   "VariableItem",
	ConstStmt:      "ConstStmt",
	ConstItem:      "ConstItem",
	SubDecl:        "SubDecl",
	FunctionDecl:   "FunctionDecl",
	PropertyDecl:   "PropertyDecl",
	ParamList:      "ParamList",
	Param:          "Param",
	AsClause:       "AsClause",
	TypeName:       "TypeName",
	TypeDecl:       "TypeDecl",
	TypeMember:     "TypeMember",
	EnumDecl:       "EnumDecl",
	EnumMember:     "EnumMember",
	Block:          "Block",
	IfStmt:         "IfStmt",
	ElseIfClause:   "ElseIfClause",
	ElseClause:     "ElseClause",
	ForStmt:        "ForStmt",
	ForEachStmt:    "ForEachStmt",
	DoStmt:         "DoStmt",
	WhileStmt:      "WhileStmt",
	SelectStmt:     "SelectStmt",
	CaseClause:     "CaseClause",
	WithStmt:       "WithStmt",
	CallStmt:       "CallStmt",
	LetStmt:        "LetStmt",
	SetStmt:        "SetStmt",
	ExprStmt:       "ExprStmt",
	ExitStmt:       "ExitStmt",
	GoToStmt:       "GoToStmt",
	OnErrorStmt:    "OnErrorStmt",
	ResumeStmt:     "ResumeStmt",
	ReDimStmt:      "ReDimStmt",
	LabelStmt:      "LabelStmt",
	EndStmt:        "EndStmt",
	BinaryExpr:     "BinaryExpr",
	UnaryExpr:      "UnaryExpr",
	ParenExpr:      "ParenExpr",
	LiteralExpr:    "LiteralExpr",
	NameExpr:       "NameExpr",
	MemberExpr:     "MemberExpr",
	CallExpr:       "CallExpr",
	ArgList:        "ArgList",
	NewExpr:        "NewExpr",
	TypeOfExpr:     "TypeOfExpr",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsStatement reports whether nodes of this kind end with their own line terminator.
func (k Kind) IsStatement() bool {
	switch k {
	case HeaderStmt, AttributeStmt, OptionStmt, ImplementsStmt, VariableStmt, ConstStmt,
		SubDecl, FunctionDecl, PropertyDecl, TypeDecl, EnumDecl,
		IfStmt, ForStmt, ForEachStmt, DoStmt, WhileStmt, SelectStmt, WithStmt,
		CallStmt, LetStmt, SetStmt, ExprStmt, ExitStmt, GoToStmt, OnErrorStmt,
		ResumeStmt, ReDimStmt, LabelStmt, EndStmt:
		return true
	}
	return false
}
