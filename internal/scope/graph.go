package scope

import (
	"basil/internal/diag"
	"basil/internal/fix"
	"basil/internal/trace"
)

// UnnamedModule is the name a module gets when neither VB_Name nor a file
// name is known. Such modules are invalidated on registration.
const UnnamedModule = "Unknown Module"

// BuildContext is threaded through registration and Build.
type BuildContext struct {
	Tracer  trace.Tracer
	Actions *fix.Registry
}

// BuildStats summarises one Build pass.
type BuildStats struct {
	Visited     int
	Resolved    int
	Unresolved  int
	Compacted   int
	Diagnostics int
}

// Graph is the project-rooted tree of scope items.
// It has no internal locking: callers serialise every mutation.
type Graph struct {
	ctx   BuildContext
	items *arena
	fold  *folder
	root  ItemID
}

// New creates a graph holding only the Project root.
func New(ctx BuildContext) *Graph {
	if ctx.Tracer == nil {
		ctx.Tracer = trace.Nop
	}
	g := &Graph{
		ctx:   ctx,
		items: newArena(64),
		fold:  newFolder(),
	}
	g.root = g.items.alloc(&Item{
		kind:     KindProject,
		explicit: "Project",
		decl:     &declState{public: true},
		dirty:    true,
	})
	return g
}

// Root returns the Project item.
func (g *Graph) Root() ItemID { return g.root }

// Item returns the live item for id or nil.
func (g *Graph) Item(id ItemID) *Item { return g.items.get(id) }

// Len returns the number of live items, the Project included.
func (g *Graph) Len() int { return g.items.Len() }

// Key folds name the way category keys are folded.
func (g *Graph) Key(name string) string { return g.fold.key(name) }

// Depth returns the distance from id to the Project root.
func (g *Graph) Depth(id ItemID) int {
	depth := 0
	for it := g.items.get(id); it != nil && it.kind != KindProject; it = g.items.get(it.parent) {
		depth++
	}
	return depth
}

// SetExplicit records Option Explicit on a module item.
func (g *Graph) SetExplicit(module ItemID, on bool) {
	if it := g.items.get(module); it != nil && it.kind.IsModuleLike() {
		it.strict = on
	}
}

// Register adds an item under parent and returns it together with the scope
// later registrations should nest into: the parent for variables, types and
// references, the new item otherwise.
func (g *Graph) Register(parent ItemID, spec Spec) (item, current ItemID) {
	p := g.items.get(parent)
	if p == nil || spec.Kind == KindInvalid || spec.Kind == KindProject {
		return NoItem, parent
	}
	it := &Item{
		kind:     spec.Kind,
		assign:   spec.Assign,
		parent:   parent,
		origin:   spec.Origin,
		explicit: spec.Name,
		dirty:    true,
	}
	if spec.Kind == KindReference {
		it.ref = &refState{}
	} else {
		it.decl = &declState{public: spec.Public || spec.Kind.IsModuleLike()}
	}
	id := g.items.alloc(it)
	key := g.fold.key(it.Name())

	switch spec.Kind {
	case KindReference:
		p.category(CatReferences).add(key, id)
	case KindFunction:
		p.category(CatFunctions).add(key, id)
	case KindSubroutine:
		p.category(CatSubroutines).add(key, id)
	case KindType:
		p.category(CatTypes).add(key, id)
	case KindProperty, KindVariable:
		for _, cat := range accessorsFor(spec.Assign) {
			p.category(cat).add(key, id)
		}
	case KindModule, KindClass, KindLanguage, KindApplication:
		p.category(CatModules).add(key, id)
		if !spec.Kind.IsLibrary() && it.Name() == UnnamedModule {
			it.invalidated = true
		}
	}
	p.dirty = true

	trace.Debugf(g.ctx.Tracer, trace.ScopeNode, "scope.register", "%s %q depth=%d", spec.Kind, it.Name(), g.Depth(id))

	switch spec.Kind {
	case KindVariable, KindType, KindReference:
		return id, parent
	}
	return id, id
}

func accessorsFor(a AssignmentKind) []Category {
	var out []Category
	if a&AssignGet != 0 {
		out = append(out, CatGetters)
	}
	if a&AssignLet != 0 {
		out = append(out, CatLetters)
	}
	if a&AssignSet != 0 {
		out = append(out, CatSetters)
	}
	if len(out) == 0 {
		out = append(out, CatGetters)
	}
	return out
}

// Build resolves links and evaluates diagnostics top-down from the Project.
// Running it twice without mutations yields the same diagnostics.
func (g *Graph) Build() BuildStats {
	span := trace.Begin(g.ctx.Tracer, trace.ScopeGraph, "scope.build", 0)
	var st BuildStats
	g.build(g.root, &st)
	span.WithCount("visited", st.Visited).
		WithCount("resolved", st.Resolved).
		WithCount("unresolved", st.Unresolved).
		WithCount("compacted", st.Compacted)
	span.End("")
	return st
}

func (g *Graph) build(id ItemID, st *BuildStats) {
	it := g.items.get(id)
	if it == nil {
		return
	}
	st.Visited++

	// 1. компактификация: новая карта вместо правки на месте
	for c := range it.cats {
		if it.cats[c] == nil {
			continue
		}
		kept, dropped := it.cats[c].filter(g.alive)
		it.cats[c] = kept
		for _, d := range dropped {
			st.Compacted += g.release(d)
		}
	}

	// 2. гигиена ссылок
	if it.ref != nil && it.ref.link.IsValid() && !g.alive(it.ref.link) {
		g.unlink(it)
	}
	if it.decl != nil && len(it.decl.backLinks) > 0 {
		kept := make([]ItemID, 0, len(it.decl.backLinks))
		for _, r := range it.decl.backLinks {
			ref := g.items.get(r)
			switch {
			case ref == nil || ref.ref == nil || ref.ref.link != id:
			case ref.invalidated:
				ref.ref.link = NoItem
			default:
				kept = append(kept, r)
			}
		}
		it.decl.backLinks = kept
	}

	// 3.
	if it.invalidated {
		return
	}

	// 4-5.
	if it.kind == KindReference {
		g.unlink(it)
		it.resolveDiag = nil
		if target := g.resolve(it); target.IsValid() {
			g.link(it, target)
			st.Resolved++
		} else {
			d := g.unresolved(it)
			it.resolveDiag = &d
			st.Unresolved++
		}
	} else {
		g.checkDuplicates(it)
		it.shadowDiag = nil
		if d, ok := g.checkShadow(it); ok {
			it.shadowDiag = &d
		}
	}

	// 6.
	g.eachChild(it, func(child ItemID) {
		g.build(child, st)
	})

	st.Diagnostics += len(it.Diagnostics())
	// 7.
	it.dirty = false
}

// eachChild visits every child once, across all categories, in category order.
func (g *Graph) eachChild(it *Item, fn func(ItemID)) {
	seen := make(map[ItemID]struct{})
	for c := range it.cats {
		it.cats[c].each(func(_ string, ids []ItemID) {
			for _, id := range ids {
				if _, ok := seen[id]; ok {
					continue
				}
				seen[id] = struct{}{}
				fn(id)
			}
		})
	}
}

func (g *Graph) alive(id ItemID) bool {
	it := g.items.get(id)
	return it != nil && !it.invalidated
}

func (g *Graph) link(ref *Item, target ItemID) {
	t := g.items.get(target)
	if t == nil || t.decl == nil || ref.ref == nil {
		return
	}
	ref.ref.link = target
	t.decl.backLinks = append(t.decl.backLinks, ref.id)
}

// unlink severs a reference's link together with the matching back-link.
func (g *Graph) unlink(ref *Item) {
	if ref.ref == nil || !ref.ref.link.IsValid() {
		return
	}
	if t := g.items.get(ref.ref.link); t != nil && t.decl != nil {
		t.decl.backLinks = removeID(t.decl.backLinks, ref.id)
	}
	ref.ref.link = NoItem
}

// release unlinks and frees id with its whole subtree; returns the number of freed items.
func (g *Graph) release(id ItemID) int {
	it := g.items.get(id)
	if it == nil {
		return 0
	}
	freed := 0
	g.eachChild(it, func(child ItemID) {
		freed += g.release(child)
	})
	g.unlink(it)
	if it.decl != nil {
		for _, r := range it.decl.backLinks {
			ref := g.items.get(r)
			if ref == nil || ref.ref == nil || ref.ref.link != id {
				continue
			}
			ref.ref.link = NoItem
			if p := g.items.get(ref.parent); p != nil {
				p.dirty = true
			}
		}
		it.decl.backLinks = nil
	}
	g.items.release(id)
	return freed + 1
}

func removeID(ids []ItemID, id ItemID) []ItemID {
	out := ids[:0]
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

// walk visits live items depth-first; returning false skips the subtree.
func (g *Graph) walk(id ItemID, fn func(*Item) bool) {
	it := g.items.get(id)
	if it == nil || !fn(it) {
		return
	}
	g.eachChild(it, func(child ItemID) {
		g.walk(child, fn)
	})
}

// InvalidateDocument marks every item that came from uri, and its subtree,
// as invalidated. The next Build compacts them away.
func (g *Graph) InvalidateDocument(uri string) int {
	marked := 0
	g.walk(g.root, func(it *Item) bool {
		switch {
		case it.kind == KindProject:
			return true
		case it.kind.IsLibrary():
			return false
		case it.URI() == uri:
			marked += g.invalidateTree(it)
			return false
		}
		return true
	})
	trace.Debugf(g.ctx.Tracer, trace.ScopeGraph, "scope.invalidate", "%s items=%d", uri, marked)
	return marked
}

func (g *Graph) invalidateTree(it *Item) int {
	marked := 0
	if !it.invalidated {
		it.invalidated = true
		marked++
	}
	if p := g.items.get(it.parent); p != nil {
		p.dirty = true
	}
	g.eachChild(it, func(child ItemID) {
		if ch := g.items.get(child); ch != nil {
			marked += g.invalidateTree(ch)
		}
	})
	return marked
}

// Unlink eagerly removes everything uri contributed: removed items are
// unlinked and freed, and every category is rebuilt with the survivors.
func (g *Graph) Unlink(uri string) int {
	freed := g.unlinkIn(g.root, uri)
	trace.Debugf(g.ctx.Tracer, trace.ScopeGraph, "scope.unlink", "%s items=%d", uri, freed)
	return freed
}

func (g *Graph) unlinkIn(id ItemID, uri string) int {
	it := g.items.get(id)
	if it == nil {
		return 0
	}
	freed := 0
	for c := range it.cats {
		if it.cats[c] == nil {
			continue
		}
		kept, dropped := it.cats[c].filter(func(child ItemID) bool {
			ch := g.items.get(child)
			return ch != nil && (ch.kind.IsLibrary() || ch.URI() != uri)
		})
		it.cats[c] = kept
		for _, d := range dropped {
			freed += g.release(d)
		}
		if len(dropped) > 0 {
			it.dirty = true
		}
	}
	g.eachChild(it, func(child ItemID) {
		freed += g.unlinkIn(child, uri)
	})
	return freed
}

// DocumentDiagnostics collects the diagnostics of every live item from uri.
func (g *Graph) DocumentDiagnostics(uri string) []diag.Diagnostic {
	var out []diag.Diagnostic
	g.walk(g.root, func(it *Item) bool {
		if it.kind.IsLibrary() {
			return false
		}
		if !it.invalidated && it.kind != KindProject && it.URI() == uri {
			out = append(out, it.Diagnostics()...)
		}
		return true
	})
	return out
}

// Find returns the live items of one category of parent that match name.
func (g *Graph) Find(parent ItemID, cat Category, name string) []ItemID {
	it := g.items.get(parent)
	if it == nil || cat >= numCategories {
		return nil
	}
	var out []ItemID
	for _, id := range it.cats[cat].get(g.fold.key(name)) {
		if g.alive(id) {
			out = append(out, id)
		}
	}
	return out
}
