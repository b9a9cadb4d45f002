package familytree

import "slices"

// Action is a request to transition a graph snapshot to a new one. The seven
// implementations below form the complete action vocabulary consumed from the
// UI layer; see [Apply].
type Action interface {
	isAction()
}

// ReplaceGraph adopts the given graph verbatim. Used for load, import and
// tree switching.
type ReplaceGraph struct {
	Graph TreeGraph
}

// UpsertPerson sanitizes and inserts or fully replaces the entry at the
// person's id. No other person's edges are touched.
type UpsertPerson struct {
	Person Person
}

// LinkParentChild adds childID to the parent's children and parentID to the
// child's parents. No-op unless both ids exist; idempotent via
// de-duplication.
type LinkParentChild struct {
	ParentID string
	ChildID  string
}

// LinkSpouse upserts a Partnership keyed by UnionID on each side, pointing at
// the other person and carrying the marriage date. No-op unless both ids
// exist.
type LinkSpouse struct {
	PersonID     string
	SpouseID     string
	MarriageDate *string
	UnionID      string
}

// SetRootPerson replaces the root pointer unconditionally. A nil RootID
// clears the root. No existence check is performed.
type SetRootPerson struct {
	RootID *string
}

// DeletePerson removes the person and strips every reference to it from the
// remaining people. No-op if the id is absent.
type DeletePerson struct {
	PersonID string
}

// ReassignParents replaces the child's parent set wholesale, updating the
// children lists of former and new parents to match. No-op if the child is
// absent.
//
// ReassignParents does not guard against introducing an ancestry cycle;
// callers must pre-check with [IsDescendant] before dispatching.
type ReassignParents struct {
	ChildID   string
	ParentIDs []string
}

func (ReplaceGraph) isAction()    {}
func (UpsertPerson) isAction()    {}
func (LinkParentChild) isAction() {}
func (LinkSpouse) isAction()      {}
func (SetRootPerson) isAction()   {}
func (DeletePerson) isAction()    {}
func (ReassignParents) isAction() {}

// Apply is the authoritative state-transition function: given a snapshot and
// an action it produces a new snapshot. The input graph is never modified.
//
// Apply is total. Unknown or nil actions and actions referencing absent ids
// return the snapshot unchanged, so callers are not required to pre-validate
// existence before dispatch.
func Apply(g TreeGraph, action Action) TreeGraph {
	switch a := action.(type) {
	case ReplaceGraph:
		return a.Graph
	case UpsertPerson:
		return applyUpsert(g, a)
	case LinkParentChild:
		return applyLinkParentChild(g, a)
	case LinkSpouse:
		return applyLinkSpouse(g, a)
	case SetRootPerson:
		out := g.Clone()
		out.RootPersonID = cloneDate(a.RootID)
		return out
	case DeletePerson:
		return applyDelete(g, a)
	case ReassignParents:
		return applyReassignParents(g, a)
	default:
		return g
	}
}

func applyUpsert(g TreeGraph, a UpsertPerson) TreeGraph {
	if a.Person.ID == "" {
		return g
	}
	out := g.Clone()
	if out.People == nil {
		out.People = map[string]Person{}
	}
	out.People[a.Person.ID] = SanitizePerson(a.Person)
	return out
}

func applyLinkParentChild(g TreeGraph, a LinkParentChild) TreeGraph {
	if a.ParentID == a.ChildID {
		return g
	}
	if _, ok := g.People[a.ParentID]; !ok {
		return g
	}
	if _, ok := g.People[a.ChildID]; !ok {
		return g
	}

	out := g.Clone()
	parent := out.People[a.ParentID]
	parent.Children = append(parent.Children, a.ChildID)
	out.People[a.ParentID] = SanitizePerson(parent)

	child := out.People[a.ChildID]
	child.Parents = append(child.Parents, a.ParentID)
	out.People[a.ChildID] = SanitizePerson(child)
	return out
}

func applyLinkSpouse(g TreeGraph, a LinkSpouse) TreeGraph {
	if a.PersonID == a.SpouseID {
		return g
	}
	if _, ok := g.People[a.PersonID]; !ok {
		return g
	}
	if _, ok := g.People[a.SpouseID]; !ok {
		return g
	}

	out := g.Clone()
	out.People[a.PersonID] = withPartnership(out.People[a.PersonID], Partnership{
		SpouseID:     a.SpouseID,
		MarriageDate: cloneDate(a.MarriageDate),
		UnionID:      a.UnionID,
	})
	out.People[a.SpouseID] = withPartnership(out.People[a.SpouseID], Partnership{
		SpouseID:     a.PersonID,
		MarriageDate: cloneDate(a.MarriageDate),
		UnionID:      a.UnionID,
	})
	return out
}

// withPartnership appends the entry and relies on sanitization to collapse it
// onto any existing entry with the same union id (last write wins).
func withPartnership(p Person, sp Partnership) Person {
	p.Partnerships = append(p.Partnerships, sp)
	return SanitizePerson(p)
}

func applyDelete(g TreeGraph, a DeletePerson) TreeGraph {
	if _, ok := g.People[a.PersonID]; !ok {
		return g
	}

	out := g.Clone()
	wasRoot := out.RootPersonID != nil && *out.RootPersonID == a.PersonID
	delete(out.People, a.PersonID)

	for id, p := range out.People {
		p.Parents = slices.DeleteFunc(p.Parents, func(s string) bool { return s == a.PersonID })
		p.Children = slices.DeleteFunc(p.Children, func(s string) bool { return s == a.PersonID })
		p.Partnerships = slices.DeleteFunc(p.Partnerships, func(sp Partnership) bool {
			return sp.SpouseID == a.PersonID
		})
		out.People[id] = SanitizePerson(p)
	}

	switch {
	case len(out.People) == 0:
		out.RootPersonID = nil
	case wasRoot || out.RootPersonID == nil:
		first := out.SortedIDs()[0]
		out.RootPersonID = &first
	}
	return out
}

func applyReassignParents(g TreeGraph, a ReassignParents) TreeGraph {
	if _, ok := g.People[a.ChildID]; !ok {
		return g
	}

	newParents := make([]string, 0, len(a.ParentIDs))
	seen := make(map[string]struct{}, len(a.ParentIDs))
	for _, id := range a.ParentIDs {
		if id == a.ChildID {
			continue
		}
		if _, exists := g.People[id]; !exists {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		newParents = append(newParents, id)
	}

	out := g.Clone()
	for id, p := range out.People {
		if id == a.ChildID {
			continue
		}
		p.Children = slices.DeleteFunc(p.Children, func(s string) bool { return s == a.ChildID })
		out.People[id] = p
	}
	for _, id := range newParents {
		p := out.People[id]
		p.Children = append(p.Children, a.ChildID)
		out.People[id] = SanitizePerson(p)
	}

	child := out.People[a.ChildID]
	child.Parents = newParents
	out.People[a.ChildID] = SanitizePerson(child)
	return out
}
