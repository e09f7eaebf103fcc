package token

import "strings"

// keywordSpelling хранит каноническое написание (как в редакторе VBA).
var keywordSpelling = map[Kind]string{
	KwAttribute:  "Attribute",
	KwOption:     "Option",
	KwPrivate:    "Private",
	KwPublic:     "Public",
	KwFriend:     "Friend",
	KwGlobal:     "Global",
	KwDim:        "Dim",
	KwStatic:     "Static",
	KwConst:      "Const",
	KwAs:         "As",
	KwNew:        "New",
	KwSub:        "Sub",
	KwFunction:   "Function",
	KwProperty:   "Property",
	KwLet:        "Let",
	KwSet:        "Set",
	KwEnd:        "End",
	KwExit:       "Exit",
	KwCall:       "Call",
	KwIf:         "If",
	KwThen:       "Then",
	KwElse:       "Else",
	KwElseIf:     "ElseIf",
	KwFor:        "For",
	KwTo:         "To",
	KwEach:       "Each",
	KwIn:         "In",
	KwNext:       "Next",
	KwDo:         "Do",
	KwLoop:       "Loop",
	KwWhile:      "While",
	KwWend:       "Wend",
	KwUntil:      "Until",
	KwSelect:     "Select",
	KwCase:       "Case",
	KwWith:       "With",
	KwType:       "Type",
	KwEnum:       "Enum",
	KwByVal:      "ByVal",
	KwByRef:      "ByRef",
	KwOptional:   "Optional",
	KwParamArray: "ParamArray",
	KwNot:        "Not",
	KwAnd:        "And",
	KwOr:         "Or",
	KwXor:        "Xor",
	KwMod:        "Mod",
	KwIs:         "Is",
	KwLike:       "Like",
	KwTrue:       "True",
	KwFalse:      "False",
	KwNothing:    "Nothing",
	KwEmpty:      "Empty",
	KwNull:       "Null",
	KwMe:         "Me",
	KwGoTo:       "GoTo",
	KwOn:         "On",
	KwResume:     "Resume",
	KwReDim:      "ReDim",
	KwPreserve:   "Preserve",
	KwImplements: "Implements",
}

var keywords = func() map[string]Kind {
	m := make(map[string]Kind, len(keywordSpelling))
	for k, s := range keywordSpelling {
		m[strings.ToLower(s)] = k
	}
	return m
}()

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Регистр не важен: "DIM", "dim" и "Dim" дают KwDim.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[strings.ToLower(ident)]
	return k, ok
}
