package familytree

import "fmt"

// Issue describes one consistency violation found by [Validate].
type Issue struct {
	PersonID string // person carrying the offending reference
	Message  string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.PersonID, i.Message)
}

// Validate performs an advisory full-consistency pass over a graph and
// reports dangling references, self-references and broken symmetry.
//
// The mutation operations in [Apply] maintain these properties by
// construction; Validate exists to flag hand-edited or partially corrupted
// import data. It is purely diagnostic - the layout engine and the store stay
// tolerant of every condition reported here.
func Validate(g TreeGraph) []Issue {
	var issues []Issue
	report := func(id, format string, args ...any) {
		issues = append(issues, Issue{PersonID: id, Message: fmt.Sprintf(format, args...)})
	}

	for _, id := range g.SortedIDs() {
		p := g.People[id]
		if p.ID != "" && p.ID != id {
			report(id, "record id %q does not match map key", p.ID)
		}

		for _, parentID := range p.Parents {
			if parentID == id {
				report(id, "lists itself as a parent")
				continue
			}
			parent, ok := g.People[parentID]
			if !ok {
				report(id, "parent %q does not exist", parentID)
				continue
			}
			if !contains(parent.Children, id) {
				report(id, "parent %q does not list it as a child", parentID)
			}
		}

		for _, childID := range p.Children {
			if childID == id {
				report(id, "lists itself as a child")
				continue
			}
			child, ok := g.People[childID]
			if !ok {
				report(id, "child %q does not exist", childID)
				continue
			}
			if !contains(child.Parents, id) {
				report(id, "child %q does not list it as a parent", childID)
			}
		}

		for _, sp := range p.Partnerships {
			if sp.SpouseID == id {
				report(id, "union %q partners the person with itself", sp.UnionID)
				continue
			}
			spouse, ok := g.People[sp.SpouseID]
			if !ok {
				report(id, "spouse %q in union %q does not exist", sp.SpouseID, sp.UnionID)
				continue
			}
			mirror, ok := spouse.Partnership(sp.UnionID)
			if !ok {
				report(id, "spouse %q has no entry for union %q", sp.SpouseID, sp.UnionID)
				continue
			}
			if mirror.SpouseID != id {
				report(id, "union %q is not mirrored: spouse %q points at %q", sp.UnionID, sp.SpouseID, mirror.SpouseID)
			}
		}
	}

	if g.RootPersonID != nil {
		if _, ok := g.People[*g.RootPersonID]; !ok {
			report(*g.RootPersonID, "root person does not exist")
		}
	}
	return issues
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
