package familytree

import "sort"

// UnionPartners scans all partnership lists and returns the ids of the people
// participating in the given union, in lexicographic order.
//
// A well-formed union yields exactly two ids. Stale or unreferenced union ids
// yield an empty slice, which callers must handle.
func UnionPartners(g TreeGraph, unionID string) []string {
	var partners []string
	for id, p := range g.People {
		if _, ok := p.Partnership(unionID); ok {
			partners = append(partners, id)
		}
	}
	sort.Strings(partners)
	return partners
}

// DefaultPartnerIDs resolves the implicit parent pair for an "add child"
// action invoked from a single person.
//
// It returns [personID, soleSpouseID] when the person has exactly one
// partnership, and [personID] otherwise - with zero or multiple partnerships
// it is ambiguous which union to use, so only the person themself is
// selected.
func DefaultPartnerIDs(g TreeGraph, personID string) []string {
	p, ok := g.People[personID]
	if !ok || len(p.Partnerships) != 1 {
		return []string{personID}
	}
	return []string{personID, p.Partnerships[0].SpouseID}
}

// IsDescendant reports whether candidateID is reachable from ancestorID
// through one or more children edges. It is the caller-side guard for
// [ReassignParents]: assigning a descendant as a parent would create a cycle.
//
// The traversal is breadth-first over children lists with a visited set, so
// it terminates even if the underlying data contains a child cycle.
func IsDescendant(g TreeGraph, ancestorID, candidateID string) bool {
	start, ok := g.People[ancestorID]
	if !ok {
		return false
	}

	queue := append([]string(nil), start.Children...)
	visited := map[string]struct{}{ancestorID: {}}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if _, seen := visited[id]; seen {
			continue
		}
		visited[id] = struct{}{}
		if id == candidateID {
			return true
		}
		if p, exists := g.People[id]; exists {
			queue = append(queue, p.Children...)
		}
	}
	return false
}
