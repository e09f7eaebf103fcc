package scope

import (
	"fmt"

	"basil/internal/diag"
	"basil/internal/fix"
)

// Resolve looks name up from the scope from using the rules of assign.
// It is what Build does for every reference.
func (g *Graph) Resolve(from ItemID, name string, assign AssignmentKind) ItemID {
	return g.lookupFor(from, g.fold.key(name), assign)
}

func (g *Graph) resolve(ref *Item) ItemID {
	return g.lookupFor(ref.parent, g.fold.key(ref.Name()), ref.assign)
}

func (g *Graph) lookupFor(from ItemID, key string, assign AssignmentKind) ItemID {
	switch {
	case assign&AssignCall != 0:
		return g.lookup(from, key, CatFunctions, CatSubroutines)
	case assign&AssignLet != 0:
		if id := g.lookup(from, key, CatLetters); id.IsValid() {
			return id
		}
		return g.enclosingProcedure(from, key)
	case assign&AssignSet != 0:
		if id := g.lookup(from, key, CatSetters); id.IsValid() {
			return id
		}
		return g.enclosingProcedure(from, key)
	case assign&AssignGet != 0:
		// Types последними: голова Color.Red
		return g.lookup(from, key, CatFunctions, CatGetters, CatModules, CatTypes)
	}
	return g.lookup(from, key, CatTypes, CatModules)
}

// lookup climbs from the given scope and stops at the first level with a match.
func (g *Graph) lookup(from ItemID, key string, cats ...Category) ItemID {
	for id := from; ; {
		it := g.items.get(id)
		if it == nil {
			return NoItem
		}
		if found := g.findAt(it, key, cats); found.IsValid() {
			return found
		}
		if it.kind == KindProject {
			return NoItem
		}
		id = it.parent
	}
}

func (g *Graph) findAt(it *Item, key string, cats []Category) ItemID {
	for _, c := range cats {
		if id := g.firstAlive(it.cats[c].get(key), false); id.IsValid() {
			return id
		}
		if it.kind != KindProject {
			continue
		}
		// публичные члены модулей видны на уровне проекта
		for _, m := range g.globalModules(it) {
			if id := g.firstAlive(m.cats[c].get(key), true); id.IsValid() {
				return id
			}
		}
	}
	return NoItem
}

func (g *Graph) firstAlive(ids []ItemID, publicOnly bool) ItemID {
	for _, id := range ids {
		it := g.items.get(id)
		if it == nil || it.invalidated {
			continue
		}
		if publicOnly && !it.IsPublic() {
			continue
		}
		return id
	}
	return NoItem
}

// globalModules returns the live standard and library modules of the
// project, user modules first. Class members need an instance and stay out.
func (g *Graph) globalModules(project *Item) []*Item {
	var user, lib []*Item
	project.cats[CatModules].each(func(_ string, ids []ItemID) {
		for _, id := range ids {
			m := g.items.get(id)
			if m == nil || m.invalidated {
				continue
			}
			switch m.kind {
			case KindModule:
				user = append(user, m)
			case KindLanguage, KindApplication:
				lib = append(lib, m)
			}
		}
	})
	return append(user, lib...)
}

// enclosingProcedure finds the Function or Property Get named key that
// encloses from: assigning to it sets the return value.
func (g *Graph) enclosingProcedure(from ItemID, key string) ItemID {
	for it := g.items.get(from); it != nil; it = g.items.get(it.parent) {
		switch {
		case it.kind.IsModuleLike() || it.kind == KindProject:
			return NoItem
		case it.kind == KindFunction || (it.kind == KindProperty && it.assign&AssignGet != 0):
			if g.fold.key(it.Name()) == key {
				return it.id
			}
		}
	}
	return NoItem
}

// explicitFor reports Option Explicit of the module enclosing it.
func (g *Graph) explicitFor(it *Item) bool {
	for cur := it; cur != nil; cur = g.items.get(cur.parent) {
		if cur.kind.IsModuleLike() {
			return cur.strict
		}
		if cur.kind == KindProject {
			return false
		}
	}
	return false
}

func (g *Graph) unresolved(ref *Item) diag.Diagnostic {
	name := ref.Name()
	sp := ref.NameSpan()
	if ref.assign&AssignCall != 0 {
		return diag.NewError(diag.SemaUndefinedProcedure, sp,
			fmt.Sprintf("Sub or Function '%s' is not defined", name))
	}
	sev := diag.SevWarning
	if g.explicitFor(ref) {
		sev = diag.SevError
	}
	if ref.assign == AssignNone {
		return diag.New(sev, diag.SemaUndeclaredName, sp,
			fmt.Sprintf("user-defined type '%s' is not defined", name))
	}
	d := diag.New(sev, diag.SemaUndeclaredName, sp, fmt.Sprintf("variable '%s' is not defined", name))
	anchor := sp
	if a, ok := ref.origin.(Anchored); ok {
		anchor = a.Anchor()
	}
	d = d.WithAction(anchor, fix.DeclareName)
	g.ctx.Actions.RegisterDiagnosticAction(&d)
	return d
}

// checkDuplicates fills the duplicate slot of every declaration directly in scope.
func (g *Graph) checkDuplicates(scope *Item) {
	for _, c := range declCategories {
		scope.cats[c].each(func(_ string, ids []ItemID) {
			for _, id := range ids {
				if it := g.items.get(id); it != nil {
					it.dupDiag = nil
				}
			}
		})
	}
	if scope.kind.IsLibrary() {
		return
	}

	flat := newNameMap()
	for _, c := range flatCategories {
		scope.cats[c].each(func(key string, ids []ItemID) {
			for _, id := range ids {
				flat.add(key, id)
			}
		})
	}

	clashes := make(map[ItemID][]ItemID)
	var order []ItemID
	clash := func(id, other ItemID) {
		if id == other {
			return
		}
		prev, seen := clashes[id]
		if !seen {
			order = append(order, id)
		}
		for _, x := range prev {
			if x == other {
				return
			}
		}
		clashes[id] = append(prev, other)
	}
	group := func(ids []ItemID) {
		for _, a := range ids {
			for _, b := range ids {
				clash(a, b)
			}
		}
	}

	flat.each(func(_ string, ids []ItemID) {
		if len(ids) > 1 {
			group(ids)
		}
	})
	diagnosed := make(map[string]bool)
	for _, c := range accessorCategories {
		scope.cats[c].each(func(key string, ids []ItemID) {
			if len(ids) > 1 {
				group(ids)
			}
			against := flat.get(key)
			if len(against) == 0 {
				return
			}
			if diagnosed[key] {
				for _, id := range ids {
					for _, f := range against {
						clash(id, f)
					}
				}
				return
			}
			diagnosed[key] = true
			group(append(append([]ItemID(nil), against...), ids...))
		})
	}

	for _, id := range order {
		it := g.items.get(id)
		if it == nil {
			continue
		}
		d := diag.NewError(diag.SemaDuplicateDeclaration, it.NameSpan(),
			fmt.Sprintf("duplicate declaration of '%s' in current scope", it.Name()))
		for _, o := range clashes[id] {
			if other := g.items.get(o); other != nil {
				d = d.WithNote(other.NameSpan(), fmt.Sprintf("'%s' is also declared here", other.Name()))
			}
		}
		it.dupDiag = &d
	}
}

// checkShadow reports a local declaration hiding one visible from the module level.
func (g *Graph) checkShadow(it *Item) (diag.Diagnostic, bool) {
	if it.decl == nil || g.Depth(it.id) < 3 {
		return diag.Diagnostic{}, false
	}
	parent := g.items.get(it.parent)
	if parent == nil {
		return diag.Diagnostic{}, false
	}
	var shadowed []*Item
	for _, id := range g.accessible(parent.parent, g.fold.key(it.Name())) {
		other := g.items.get(id)
		if id == it.id || other == nil || g.inLibrary(other) {
			continue
		}
		shadowed = append(shadowed, other)
	}
	if len(shadowed) == 0 {
		return diag.Diagnostic{}, false
	}
	d := diag.NewWarning(diag.SemaShadowedDeclaration, it.NameSpan(),
		fmt.Sprintf("declaration of '%s' shadows a declaration in an enclosing scope", it.Name()))
	for _, other := range shadowed {
		d = d.WithNote(other.NameSpan(), fmt.Sprintf("shadowed %s '%s'", other.kind, other.Name()))
	}
	return d, true
}

func (g *Graph) inLibrary(it *Item) bool {
	for cur := it; cur != nil; cur = g.items.get(cur.parent) {
		if cur.kind.IsLibrary() {
			return true
		}
		if cur.kind == KindProject {
			return false
		}
	}
	return false
}

// AccessibleScopes returns the declarations named name visible from the
// scope from: non-public ones on every level up to the root, plus public
// members of every module once the Project is reached.
func (g *Graph) AccessibleScopes(from ItemID, name string) []ItemID {
	return g.accessible(from, g.fold.key(name))
}

func (g *Graph) accessible(from ItemID, key string) []ItemID {
	var out []ItemID
	seen := make(map[ItemID]struct{})
	add := func(id ItemID, publicOnly bool) {
		it := g.items.get(id)
		if it == nil || it.invalidated || it.IsPublic() != publicOnly {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for id := from; ; {
		it := g.items.get(id)
		if it == nil {
			return out
		}
		for _, c := range declCategories {
			for _, cid := range it.cats[c].get(key) {
				add(cid, false)
			}
		}
		if it.kind == KindProject {
			for _, m := range g.globalModules(it) {
				for _, c := range declCategories {
					for _, cid := range m.cats[c].get(key) {
						add(cid, true)
					}
				}
			}
			return out
		}
		id = it.parent
	}
}
