package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Синтаксические
	SynInfo       Code = 2000
	SynParseError Code = 2001

	// Семантические
	SemaInfo                  Code = 3000
	SemaDuplicateDeclaration  Code = 3001
	SemaShadowedDeclaration   Code = 3002
	SemaUndeclaredName        Code = 3003
	SemaUndefinedProcedure    Code = 3004
	SemaMissingOptionExplicit Code = 3005

	// Ошибки I/O
	IOLoadFileError Code = 4001

	// Ошибки проекта
	ProjInvalidManifest Code = 5001

	// Ресурсы
	ResDocumentTooLarge Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:               "Unknown error",
	SynInfo:                   "Syntax information",
	SynParseError:             "Parse error",
	SemaInfo:                  "Semantic information",
	SemaDuplicateDeclaration:  "Duplicate declaration",
	SemaShadowedDeclaration:   "Shadowed declaration",
	SemaUndeclaredName:        "Name is not defined",
	SemaUndefinedProcedure:    "Procedure is not defined",
	SemaMissingOptionExplicit: "Module does not declare Option Explicit",
	IOLoadFileError:           "Failed to load file",
	ProjInvalidManifest:       "Invalid basil.toml",
	ResDocumentTooLarge:       "Document is too large to analyse",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("RES%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// ParseCode обратная операция к ID: "SEM3001" -> SemaDuplicateDeclaration.
// Нужна LSP-слою, который получает код диагностики обратно строкой.
func ParseCode(id string) (Code, bool) {
	for c := range codeDescription {
		if c != UnknownCode && c.ID() == id {
			return c, true
		}
	}
	return UnknownCode, false
}
