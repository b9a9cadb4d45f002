package familytree

import (
	"slices"
	"sort"
)

// Partnership is one side of a marriage-like relationship. The union id is
// shared by exactly the two participating Person records, and a person holds
// at most one Partnership entry per union id.
type Partnership struct {
	SpouseID     string  `json:"spouseId" bson:"spouseId"`
	MarriageDate *string `json:"marriageDate" bson:"marriageDate"`
	UnionID      string  `json:"unionId" bson:"unionId"`
}

// Person is a node in the family graph.
//
// Dates are calendar dates in "YYYY-MM-DD" form; a nil pointer means the date
// is unknown. Parents and Children are ordered and contain no duplicates
// after sanitization.
type Person struct {
	ID           string        `json:"id" bson:"id"`
	FirstName    string        `json:"firstName,omitempty" bson:"firstName,omitempty"`
	LastName     string        `json:"lastName,omitempty" bson:"lastName,omitempty"`
	BirthDate    *string       `json:"birthDate" bson:"birthDate"`
	DeathDate    *string       `json:"deathDate" bson:"deathDate"`
	BirthPlace   string        `json:"birthPlace,omitempty" bson:"birthPlace,omitempty"`
	DeathPlace   string        `json:"deathPlace,omitempty" bson:"deathPlace,omitempty"`
	Gender       string        `json:"gender,omitempty" bson:"gender,omitempty"`
	Notes        string        `json:"notes,omitempty" bson:"notes,omitempty"`
	Parents      []string      `json:"parents" bson:"parents"`
	Children     []string      `json:"children" bson:"children"`
	Partnerships []Partnership `json:"partnerships" bson:"partnerships"`
}

// DisplayName returns "First Last" with missing parts omitted, falling back
// to the person id when both names are empty.
func (p Person) DisplayName() string {
	switch {
	case p.FirstName != "" && p.LastName != "":
		return p.FirstName + " " + p.LastName
	case p.FirstName != "":
		return p.FirstName
	case p.LastName != "":
		return p.LastName
	default:
		return p.ID
	}
}

// Partnership returns the partnership entry for the given union id and true,
// or a zero value and false if the person is not part of that union.
func (p Person) Partnership(unionID string) (Partnership, bool) {
	for _, sp := range p.Partnerships {
		if sp.UnionID == unionID {
			return sp, true
		}
	}
	return Partnership{}, false
}

// Clone returns a deep copy of the person.
func (p Person) Clone() Person {
	out := p
	out.BirthDate = cloneDate(p.BirthDate)
	out.DeathDate = cloneDate(p.DeathDate)
	out.Parents = slices.Clone(p.Parents)
	out.Children = slices.Clone(p.Children)
	out.Partnerships = make([]Partnership, len(p.Partnerships))
	for i, sp := range p.Partnerships {
		sp.MarriageDate = cloneDate(sp.MarriageDate)
		out.Partnerships[i] = sp
	}
	return out
}

// TreeGraph is an immutable snapshot of one family tree: an optional root
// person id and a mapping from person id to Person.
//
// The root has no structural meaning beyond anchoring layout depth
// computation; it need not be a graph-theoretic source.
type TreeGraph struct {
	RootPersonID *string           `json:"rootPersonId" bson:"rootPersonId"`
	People       map[string]Person `json:"people" bson:"people"`
}

// NewGraph returns an empty graph with an initialized people map.
func NewGraph() TreeGraph {
	return TreeGraph{People: map[string]Person{}}
}

// Clone returns a deep copy of the graph.
func (g TreeGraph) Clone() TreeGraph {
	out := TreeGraph{
		RootPersonID: cloneDate(g.RootPersonID),
		People:       make(map[string]Person, len(g.People)),
	}
	for id, p := range g.People {
		out.People[id] = p.Clone()
	}
	return out
}

// Person returns the person with the given id and true, or a zero value and
// false if absent.
func (g TreeGraph) Person(id string) (Person, bool) {
	p, ok := g.People[id]
	return p, ok
}

// SortedIDs returns all person ids in lexicographic order. This is the
// canonical "mapping order" used for root promotion and deterministic
// traversal fallbacks.
func (g TreeGraph) SortedIDs() []string {
	ids := make([]string, 0, len(g.People))
	for id := range g.People {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func cloneDate(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// StringPtr returns a pointer to s. Convenience for optional date and root
// fields in literals.
func StringPtr(s string) *string { return &s }
