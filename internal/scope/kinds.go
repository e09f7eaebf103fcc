package scope

// Kind classifies a scope item.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindLanguage
	KindApplication
	KindProject
	KindClass
	KindModule
	KindFunction
	KindProperty
	KindSubroutine
	KindType
	KindVariable
	KindReference
)

func (k Kind) String() string {
	switch k {
	case KindLanguage:
		return "language"
	case KindApplication:
		return "application"
	case KindProject:
		return "project"
	case KindClass:
		return "class"
	case KindModule:
		return "module"
	case KindFunction:
		return "function"
	case KindProperty:
		return "property"
	case KindSubroutine:
		return "subroutine"
	case KindType:
		return "type"
	case KindVariable:
		return "variable"
	case KindReference:
		return "reference"
	default:
		return "invalid"
	}
}

// IsModuleLike reports whether items of this kind sit directly under the project.
func (k Kind) IsModuleLike() bool {
	switch k {
	case KindModule, KindClass, KindLanguage, KindApplication:
		return true
	}
	return false
}

// IsLibrary reports whether the kind marks a persistent built-in module.
func (k Kind) IsLibrary() bool { return k == KindLanguage || k == KindApplication }

// AssignmentKind is the access mode of a property, variable or reference.
// The zero value is None: a bare type or module name.
type AssignmentKind uint8

const (
	AssignNone AssignmentKind = 0
	AssignGet  AssignmentKind = 1 << 0
	AssignLet  AssignmentKind = 1 << 1
	AssignSet  AssignmentKind = 1 << 2
	AssignCall AssignmentKind = 1 << 3
)

// Has reports whether every bit of other is set in a.
func (a AssignmentKind) Has(other AssignmentKind) bool {
	return other != 0 && a&other == other
}

// Strings returns textual labels of the set bits.
func (a AssignmentKind) Strings() []string {
	if a == AssignNone {
		return []string{"none"}
	}
	labels := make([]string, 0, 4)
	if a&AssignGet != 0 {
		labels = append(labels, "get")
	}
	if a&AssignLet != 0 {
		labels = append(labels, "let")
	}
	if a&AssignSet != 0 {
		labels = append(labels, "set")
	}
	if a&AssignCall != 0 {
		labels = append(labels, "call")
	}
	return labels
}

// Category is one of the per-scope child collections.
type Category uint8

const (
	CatTypes Category = iota
	CatModules
	CatFunctions
	CatSubroutines
	CatGetters
	CatSetters
	CatLetters
	CatReferences
	numCategories
)

var categoryNames = [...]string{
	CatTypes:       "types",
	CatModules:     "modules",
	CatFunctions:   "functions",
	CatSubroutines: "subroutines",
	CatGetters:     "getters",
	CatSetters:     "setters",
	CatLetters:     "letters",
	CatReferences:  "references",
}

func (c Category) String() string {
	if c < numCategories {
		return categoryNames[c]
	}
	return "invalid"
}

// flatCategories share one namespace for duplicate detection.
var flatCategories = [...]Category{CatTypes, CatModules, CatFunctions, CatSubroutines}

// accessorCategories are checked against themselves and the flat namespace.
var accessorCategories = [...]Category{CatGetters, CatLetters, CatSetters}

// declCategories are every category holding declarations.
var declCategories = [...]Category{CatTypes, CatModules, CatFunctions, CatSubroutines, CatGetters, CatSetters, CatLetters}
