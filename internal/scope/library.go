package scope

import "basil/internal/source"

// LibraryMember is one built-in declaration of a library module.
type LibraryMember struct {
	Name   string
	Kind   Kind
	Assign AssignmentKind
}

// Library is a persistent module that never belongs to a document.
type Library struct {
	Kind    Kind // KindLanguage или KindApplication
	Name    string
	Members []LibraryMember
}

// LibraryURIPrefix prefixes the pseudo-URI of library items.
const LibraryURIPrefix = "library:"

type libraryOrigin struct {
	uri  string
	name string
}

func (o libraryOrigin) URI() string           { return o.uri }
func (o libraryOrigin) Name() string          { return o.name }
func (o libraryOrigin) NameSpan() source.Span { return source.Span{} }
func (o libraryOrigin) Span() source.Span     { return source.Span{} }

// AddLibrary registers lib under the Project with all members public.
func (g *Graph) AddLibrary(lib Library) ItemID {
	kind := lib.Kind
	if !kind.IsLibrary() {
		kind = KindLanguage
	}
	uri := LibraryURIPrefix + lib.Name
	module, scope := g.Register(g.root, Spec{
		Kind:   kind,
		Public: true,
		Origin: libraryOrigin{uri: uri, name: lib.Name},
	})
	for _, m := range lib.Members {
		g.Register(scope, Spec{
			Kind:   m.Kind,
			Assign: m.Assign,
			Public: true,
			Origin: libraryOrigin{uri: uri, name: m.Name},
		})
	}
	return module
}

// ApplicationLibrary builds a host library from global names: each global
// is callable and readable, like Excel's Range or ActiveSheet.
func ApplicationLibrary(name string, globals []string) Library {
	lib := Library{Kind: KindApplication, Name: name}
	for _, g := range globals {
		lib.Members = append(lib.Members, LibraryMember{Name: g, Kind: KindFunction})
	}
	return lib
}
