package scope

import (
	"testing"

	"github.com/stretchr/testify/require"

	"basil/internal/diag"
	"basil/internal/fix"
	"basil/internal/source"
)

type testOrigin struct {
	uri  string
	name string
	span source.Span
}

func (o testOrigin) URI() string           { return o.uri }
func (o testOrigin) Name() string          { return o.name }
func (o testOrigin) NameSpan() source.Span { return o.span }
func (o testOrigin) Span() source.Span     { return o.span }

type fixture struct {
	t    *testing.T
	g    *Graph
	reg  *fix.Registry
	next uint32
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	reg := fix.NewRegistry(source.NewFileSet())
	return &fixture{t: t, g: New(BuildContext{Actions: reg}), reg: reg}
}

// add registers an item with a fresh, unique name span.
func (f *fixture) add(parent ItemID, uri string, kind Kind, assign AssignmentKind, public bool, name string) (ItemID, ItemID) {
	f.t.Helper()
	f.next += 100
	n := uint32(len(name)) // #nosec G115 -- test names are short
	id, cur := f.g.Register(parent, Spec{
		Kind:   kind,
		Assign: assign,
		Public: public,
		Origin: testOrigin{uri: uri, name: name, span: source.Span{Start: f.next, End: f.next + n}},
	})
	require.True(f.t, id.IsValid(), "register %s %q", kind, name)
	return id, cur
}

func (f *fixture) module(uri, name string) ItemID {
	f.t.Helper()
	id, _ := f.add(f.g.Root(), uri, KindModule, AssignNone, true, name)
	return id
}

func (f *fixture) diags(id ItemID, code diag.Code) []diag.Diagnostic {
	f.t.Helper()
	it := f.g.Item(id)
	require.NotNil(f.t, it)
	var out []diag.Diagnostic
	for _, d := range it.Diagnostics() {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

func TestRegisterReturnsScope(t *testing.T) {
	f := newFixture(t)
	mod := f.module("a.bas", "Module1")

	fn, cur := f.add(mod, "a.bas", KindFunction, AssignNone, false, "Foo")
	require.Equal(t, fn, cur)

	_, cur = f.add(fn, "a.bas", KindVariable, AssignGet|AssignLet, false, "x")
	require.Equal(t, fn, cur)

	_, cur = f.add(fn, "a.bas", KindReference, AssignGet, false, "y")
	require.Equal(t, fn, cur)

	_, cur = f.add(mod, "a.bas", KindType, AssignNone, false, "Point")
	require.Equal(t, mod, cur)

	require.Equal(t, 2, f.g.Depth(fn))
	require.True(t, f.g.Item(mod).Dirty())
}

func TestGetFallsBackToTypes(t *testing.T) {
	f := newFixture(t)
	mod := f.module("a.bas", "Module1")
	enum, _ := f.add(mod, "a.bas", KindType, AssignNone, false, "Color")
	sub, _ := f.add(mod, "a.bas", KindSubroutine, AssignNone, false, "Main")

	require.Equal(t, enum, f.g.Resolve(sub, "color", AssignGet))

	// значение с тем же именем на уровне модуля важнее типа
	v, _ := f.add(mod, "a.bas", KindVariable, AssignGet|AssignLet, false, "Color")
	require.Equal(t, v, f.g.Resolve(sub, "Color", AssignGet))
	require.Equal(t, enum, f.g.Resolve(sub, "Color", AssignNone))
}

func TestVariableRegistersIntoAccessorCategories(t *testing.T) {
	f := newFixture(t)
	mod := f.module("a.bas", "Module1")
	v, _ := f.add(mod, "a.bas", KindVariable, AssignGet|AssignLet|AssignSet, false, "obj")

	for _, cat := range []Category{CatGetters, CatLetters, CatSetters} {
		require.Equal(t, []ItemID{v}, f.g.Find(mod, cat, "OBJ"), cat.String())
	}
	require.Empty(t, f.g.Find(mod, CatFunctions, "obj"))
}

func TestDuplicateFunctionsGetOneDiagnosticEach(t *testing.T) {
	f := newFixture(t)
	mod := f.module("a.bas", "Module1")
	first, _ := f.add(mod, "a.bas", KindFunction, AssignNone, false, "Foo")
	second, _ := f.add(mod, "a.bas", KindFunction, AssignNone, false, "foo")

	f.g.Build()

	d1 := f.diags(first, diag.SemaDuplicateDeclaration)
	d2 := f.diags(second, diag.SemaDuplicateDeclaration)
	require.Len(t, d1, 1)
	require.Len(t, d2, 1)
	require.Equal(t, f.g.Item(first).NameSpan(), d1[0].Primary)
	require.Equal(t, f.g.Item(second).NameSpan(), d2[0].Primary)
	require.Len(t, d1[0].Notes, 1)
	require.Equal(t, f.g.Item(second).NameSpan(), d1[0].Notes[0].Span)
}

func TestFlatNamespaceCollisions(t *testing.T) {
	f := newFixture(t)
	mod := f.module("a.bas", "Module1")
	sub, _ := f.add(mod, "a.bas", KindSubroutine, AssignNone, false, "Shape")
	typ, _ := f.add(mod, "a.bas", KindType, AssignNone, false, "Shape")
	other, _ := f.add(mod, "a.bas", KindSubroutine, AssignNone, false, "Other")

	f.g.Build()

	require.Len(t, f.diags(sub, diag.SemaDuplicateDeclaration), 1)
	require.Len(t, f.diags(typ, diag.SemaDuplicateDeclaration), 1)
	require.Empty(t, f.diags(other, diag.SemaDuplicateDeclaration))
}

func TestAccessorAgainstFlatNamespaceDiagnosedOnce(t *testing.T) {
	f := newFixture(t)
	mod := f.module("a.bas", "Module1")
	fn, _ := f.add(mod, "a.bas", KindFunction, AssignNone, false, "Value")
	v, _ := f.add(mod, "a.bas", KindVariable, AssignGet|AssignLet|AssignSet, false, "Value")

	f.g.Build()

	require.Len(t, f.diags(fn, diag.SemaDuplicateDeclaration), 1)
	dv := f.diags(v, diag.SemaDuplicateDeclaration)
	require.Len(t, dv, 1)
	require.Len(t, dv[0].Notes, 1)
}

func TestPropertyAccessorPairIsNotDuplicate(t *testing.T) {
	f := newFixture(t)
	mod := f.module("a.cls", "Class1")
	get, _ := f.add(mod, "a.cls", KindProperty, AssignGet, true, "Name")
	let, _ := f.add(mod, "a.cls", KindProperty, AssignLet, true, "Name")
	get2, _ := f.add(mod, "a.cls", KindProperty, AssignGet, true, "Name")

	f.g.Build()

	require.Len(t, f.diags(get, diag.SemaDuplicateDeclaration), 1)
	require.Len(t, f.diags(get2, diag.SemaDuplicateDeclaration), 1)
	require.Empty(t, f.diags(let, diag.SemaDuplicateDeclaration))
}

func TestShadowReportedOnInnerOnly(t *testing.T) {
	f := newFixture(t)
	mod := f.module("a.bas", "Module1")
	outer, _ := f.add(mod, "a.bas", KindVariable, AssignGet|AssignLet, false, "x")
	sub, _ := f.add(mod, "a.bas", KindSubroutine, AssignNone, false, "Run")
	inner, _ := f.add(sub, "a.bas", KindVariable, AssignGet|AssignLet, false, "X")

	f.g.Build()

	require.Empty(t, f.diags(outer, diag.SemaShadowedDeclaration))
	shadow := f.diags(inner, diag.SemaShadowedDeclaration)
	require.Len(t, shadow, 1)
	require.Equal(t, diag.SevWarning, shadow[0].Severity)
	require.Len(t, shadow[0].Notes, 1)
	require.Equal(t, f.g.Item(outer).NameSpan(), shadow[0].Notes[0].Span)
}

func TestShadowOfPublicMemberInSiblingModule(t *testing.T) {
	f := newFixture(t)
	m1 := f.module("a.bas", "Module1")
	pub, _ := f.add(m1, "a.bas", KindVariable, AssignGet|AssignLet, true, "Counter")
	m2 := f.module("b.bas", "Module2")
	sub, _ := f.add(m2, "b.bas", KindSubroutine, AssignNone, false, "Run")
	local, _ := f.add(sub, "b.bas", KindVariable, AssignGet|AssignLet, false, "Counter")

	f.g.Build()

	shadow := f.diags(local, diag.SemaShadowedDeclaration)
	require.Len(t, shadow, 1)
	require.Equal(t, f.g.Item(pub).NameSpan(), shadow[0].Notes[0].Span)
}

func TestShadowingBuiltinIsNotReported(t *testing.T) {
	f := newFixture(t)
	f.g.AddLibrary(VBALibrary())
	mod := f.module("a.bas", "Module1")
	sub, _ := f.add(mod, "a.bas", KindSubroutine, AssignNone, false, "Run")
	local, _ := f.add(sub, "a.bas", KindVariable, AssignGet|AssignLet, false, "Len")

	f.g.Build()

	require.Empty(t, f.diags(local, diag.SemaShadowedDeclaration))
}

func TestAccessibleScopesVisibility(t *testing.T) {
	f := newFixture(t)
	m1 := f.module("a.bas", "Module1")
	private, _ := f.add(m1, "a.bas", KindVariable, AssignGet, false, "secret")
	public, _ := f.add(m1, "a.bas", KindVariable, AssignGet, true, "shared")
	m2 := f.module("b.bas", "Module2")

	require.Empty(t, f.g.AccessibleScopes(m2, "secret"))
	require.Equal(t, []ItemID{public}, f.g.AccessibleScopes(m2, "SHARED"))
	require.Equal(t, []ItemID{private}, f.g.AccessibleScopes(m1, "secret"))
}

func TestModuleVariableResolvesInsideMethod(t *testing.T) {
	f := newFixture(t)
	mod := f.module("a.bas", "Module1")
	f.g.SetExplicit(mod, true)
	x, _ := f.add(mod, "a.bas", KindVariable, AssignGet|AssignLet, false, "x")
	sub, _ := f.add(mod, "a.bas", KindSubroutine, AssignNone, false, "Run")
	ref, _ := f.add(sub, "a.bas", KindReference, AssignGet, false, "x")

	st := f.g.Build()

	require.Equal(t, x, f.g.Item(ref).Link())
	require.Equal(t, []ItemID{ref}, f.g.Item(x).BackLinks())
	require.Empty(t, f.g.Item(ref).Diagnostics())
	require.Empty(t, f.g.DocumentDiagnostics("a.bas"))
	require.Equal(t, 1, st.Resolved)
	require.Zero(t, st.Unresolved)
}

func TestCallResolvesFunctionsThenSubroutines(t *testing.T) {
	f := newFixture(t)
	m1 := f.module("a.bas", "Module1")
	helper, _ := f.add(m1, "a.bas", KindSubroutine, AssignNone, true, "Helper")
	m2 := f.module("b.bas", "Module2")
	sub, _ := f.add(m2, "b.bas", KindSubroutine, AssignNone, false, "Run")
	call, _ := f.add(sub, "b.bas", KindReference, AssignCall, false, "helper")

	f.g.Build()

	require.Equal(t, helper, f.g.Item(call).Link())
}

func TestPrivateMemberOfSiblingDoesNotResolve(t *testing.T) {
	f := newFixture(t)
	m1 := f.module("a.bas", "Module1")
	f.add(m1, "a.bas", KindSubroutine, AssignNone, false, "Helper")
	m2 := f.module("b.bas", "Module2")
	sub, _ := f.add(m2, "b.bas", KindSubroutine, AssignNone, false, "Run")
	call, _ := f.add(sub, "b.bas", KindReference, AssignCall, false, "Helper")

	f.g.Build()

	require.False(t, f.g.Item(call).Link().IsValid())
	require.Len(t, f.diags(call, diag.SemaUndefinedProcedure), 1)
}

func TestLetFallsBackToEnclosingFunction(t *testing.T) {
	f := newFixture(t)
	mod := f.module("a.bas", "Module1")
	fn, _ := f.add(mod, "a.bas", KindFunction, AssignNone, false, "Answer")
	ret, _ := f.add(fn, "a.bas", KindReference, AssignLet, false, "Answer")

	f.g.Build()

	require.Equal(t, fn, f.g.Item(ret).Link())
	require.Empty(t, f.g.Item(ret).Diagnostics())
}

func TestSeverityPolicy(t *testing.T) {
	cases := []struct {
		name     string
		explicit bool
		assign   AssignmentKind
		code     diag.Code
		sev      diag.Severity
	}{
		{"get explicit", true, AssignGet, diag.SemaUndeclaredName, diag.SevError},
		{"get implicit", false, AssignGet, diag.SemaUndeclaredName, diag.SevWarning},
		{"let implicit", false, AssignLet, diag.SemaUndeclaredName, diag.SevWarning},
		{"call explicit", true, AssignCall, diag.SemaUndefinedProcedure, diag.SevError},
		{"call implicit", false, AssignCall, diag.SemaUndefinedProcedure, diag.SevError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			mod := f.module("a.bas", "Module1")
			f.g.SetExplicit(mod, tc.explicit)
			sub, _ := f.add(mod, "a.bas", KindSubroutine, AssignNone, false, "Run")
			ref, _ := f.add(sub, "a.bas", KindReference, tc.assign, false, "Missing")

			st := f.g.Build()

			ds := f.g.Item(ref).Diagnostics()
			require.Len(t, ds, 1)
			require.Equal(t, tc.code, ds[0].Code)
			require.Equal(t, tc.sev, ds[0].Severity)
			require.Equal(t, 1, st.Unresolved)
		})
	}
}

func TestUndeclaredNameRegistersAction(t *testing.T) {
	f := newFixture(t)
	mod := f.module("a.bas", "Module1")
	sub, _ := f.add(mod, "a.bas", KindSubroutine, AssignNone, false, "Run")
	f.add(sub, "a.bas", KindReference, AssignGet, false, "ghost")
	f.add(sub, "a.bas", KindReference, AssignCall, false, "Nowhere")

	f.g.Build()

	require.True(t, f.reg.Registered(diag.SemaUndeclaredName))
	require.False(t, f.reg.Registered(diag.SemaUndefinedProcedure))
	require.Equal(t, 1, f.reg.Len())
}

func TestBuildIsIdempotent(t *testing.T) {
	f := newFixture(t)
	mod := f.module("a.bas", "Module1")
	f.add(mod, "a.bas", KindFunction, AssignNone, false, "Foo")
	f.add(mod, "a.bas", KindFunction, AssignNone, false, "Foo")
	f.add(mod, "a.bas", KindVariable, AssignGet|AssignLet, false, "x")
	sub, _ := f.add(mod, "a.bas", KindSubroutine, AssignNone, false, "Run")
	f.add(sub, "a.bas", KindVariable, AssignGet|AssignLet, false, "x")
	f.add(sub, "a.bas", KindReference, AssignGet, false, "x")
	f.add(sub, "a.bas", KindReference, AssignCall, false, "Bar")

	f.g.Build()
	first := f.g.DocumentDiagnostics("a.bas")
	f.g.Build()
	second := f.g.DocumentDiagnostics("a.bas")

	require.Len(t, first, 4)
	require.Equal(t, len(first), len(second))
	for i := range first {
		require.True(t, first[i].Same(&second[i]), "diagnostic %d differs", i)
	}
	require.False(t, f.g.Item(mod).Dirty())
}

func TestInvalidateDocumentClearsLinkBothWays(t *testing.T) {
	f := newFixture(t)
	m1 := f.module("a.bas", "Module1")
	decl, _ := f.add(m1, "a.bas", KindVariable, AssignGet|AssignLet, true, "Total")
	m2 := f.module("b.bas", "Module2")
	sub, _ := f.add(m2, "b.bas", KindSubroutine, AssignNone, false, "Run")
	ref, _ := f.add(sub, "b.bas", KindReference, AssignGet, false, "Total")

	f.g.Build()
	require.Equal(t, decl, f.g.Item(ref).Link())
	require.Equal(t, []ItemID{ref}, f.g.Item(decl).BackLinks())

	require.Equal(t, 2, f.g.InvalidateDocument("a.bas"))
	st := f.g.Build()

	require.Nil(t, f.g.Item(decl))
	require.Nil(t, f.g.Item(m1))
	require.False(t, f.g.Item(ref).Link().IsValid())
	require.Equal(t, 2, st.Compacted)
	require.Len(t, f.diags(ref, diag.SemaUndeclaredName), 1)
}

func TestUnlinkRemovesDocumentEagerly(t *testing.T) {
	f := newFixture(t)
	m1 := f.module("a.bas", "Module1")
	decl, _ := f.add(m1, "a.bas", KindFunction, AssignNone, true, "Compute")
	m2 := f.module("b.bas", "Module2")
	sub, _ := f.add(m2, "b.bas", KindSubroutine, AssignNone, false, "Run")
	ref, _ := f.add(sub, "b.bas", KindReference, AssignCall, false, "Compute")
	f.g.Build()
	require.Equal(t, decl, f.g.Item(ref).Link())

	require.Equal(t, 2, f.g.Unlink("a.bas"))

	require.Nil(t, f.g.Item(decl))
	require.False(t, f.g.Item(ref).Link().IsValid())
	require.Empty(t, f.g.Find(f.g.Root(), CatModules, "Module1"))
	require.Equal(t, []ItemID{m2}, f.g.Find(f.g.Root(), CatModules, "Module2"))
}

func TestReRegisteredDocumentReplacesOldItems(t *testing.T) {
	f := newFixture(t)
	f.module("a.bas", "Module1")
	f.g.Build()

	f.g.InvalidateDocument("a.bas")
	fresh := f.module("a.bas", "Module1")
	f.g.Build()

	require.Equal(t, []ItemID{fresh}, f.g.Find(f.g.Root(), CatModules, "Module1"))
	require.Empty(t, f.g.DocumentDiagnostics("a.bas"))
}

func TestUnnamedModuleIsInvalidated(t *testing.T) {
	f := newFixture(t)
	mod := f.module("", UnnamedModule)
	require.True(t, f.g.Item(mod).Invalidated())

	f.g.Build()
	require.Nil(t, f.g.Item(mod))
}

func TestLibraryResolution(t *testing.T) {
	f := newFixture(t)
	vba := f.g.AddLibrary(VBALibrary())
	f.g.AddLibrary(ApplicationLibrary("Excel", []string{"Range", "ActiveSheet"}))
	mod := f.module("a.bas", "Module1")
	f.g.SetExplicit(mod, true)
	sub, _ := f.add(mod, "a.bas", KindSubroutine, AssignNone, false, "Run")
	msg, _ := f.add(sub, "a.bas", KindReference, AssignCall, false, "msgbox")
	coll, _ := f.add(sub, "a.bas", KindReference, AssignNone, false, "Collection")
	typ, _ := f.add(sub, "a.bas", KindReference, AssignNone, false, "Long")
	rng, _ := f.add(sub, "a.bas", KindReference, AssignGet, false, "Range")

	f.g.Build()

	for _, ref := range []ItemID{msg, coll, typ, rng} {
		require.True(t, f.g.Item(ref).Link().IsValid(), f.g.Item(ref).Name())
	}
	require.Equal(t, vba, f.g.Item(f.g.Item(msg).Link()).Parent())
	require.Empty(t, f.g.DocumentDiagnostics("a.bas"))

	// библиотеки переживают инвалидацию
	f.g.InvalidateDocument(LibraryURIPrefix + "VBA")
	f.g.Build()
	require.NotNil(t, f.g.Item(vba))
}

func TestUserModuleWinsOverLibrary(t *testing.T) {
	f := newFixture(t)
	f.g.AddLibrary(VBALibrary())
	mod := f.module("a.bas", "Module1")
	own, _ := f.add(mod, "a.bas", KindFunction, AssignNone, true, "Format")
	m2 := f.module("b.bas", "Module2")
	sub, _ := f.add(m2, "b.bas", KindSubroutine, AssignNone, false, "Run")
	ref, _ := f.add(sub, "b.bas", KindReference, AssignGet, false, "Format")

	f.g.Build()

	require.Equal(t, own, f.g.Item(ref).Link())
}

func TestStaleHandleAfterRelease(t *testing.T) {
	a := newArena(0)
	id := a.alloc(&Item{kind: KindVariable})
	require.NotNil(t, a.get(id))
	require.True(t, a.release(id))
	require.Nil(t, a.get(id))

	reused := a.alloc(&Item{kind: KindFunction})
	require.Equal(t, id.index, reused.index)
	require.NotEqual(t, id, reused)
	require.Nil(t, a.get(id))
	require.Equal(t, 1, a.Len())
}

func TestAssignmentKindStrings(t *testing.T) {
	require.Equal(t, []string{"none"}, AssignNone.Strings())
	require.Equal(t, []string{"get", "let"}, (AssignGet | AssignLet).Strings())
	require.True(t, (AssignGet | AssignSet).Has(AssignSet))
	require.False(t, AssignGet.Has(AssignNone))
}
