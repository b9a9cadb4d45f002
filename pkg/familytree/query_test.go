package familytree

import (
	"reflect"
	"testing"
)

func TestUnionPartners(t *testing.T) {
	g := graphWith("a", "b", "c")
	g = Apply(g, LinkSpouse{PersonID: "b", SpouseID: "a", UnionID: "u1"})

	if got := UnionPartners(g, "u1"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("partners = %v, want [a b]", got)
	}
	if got := UnionPartners(g, "stale"); len(got) != 0 {
		t.Errorf("stale union yielded %v", got)
	}
}

func TestDefaultPartnerIDs(t *testing.T) {
	g := graphWith("solo", "a", "b", "c")
	g = Apply(g, LinkSpouse{PersonID: "a", SpouseID: "b", UnionID: "u1"})
	g = Apply(g, LinkSpouse{PersonID: "a", SpouseID: "c", UnionID: "u2"})

	tests := []struct {
		name     string
		personID string
		want     []string
	}{
		{"NoPartnership", "solo", []string{"solo"}},
		{"ExactlyOne", "b", []string{"b", "a"}},
		{"Ambiguous", "a", []string{"a"}},
		{"Missing", "ghost", []string{"ghost"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultPartnerIDs(g, tt.personID); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DefaultPartnerIDs(%s) = %v, want %v", tt.personID, got, tt.want)
			}
		})
	}
}

func TestIsDescendant(t *testing.T) {
	// grandparent → parent → child, plus sibling of parent.
	g := graphWith("gp", "p", "c", "aunt")
	g = Apply(g, LinkParentChild{ParentID: "gp", ChildID: "p"})
	g = Apply(g, LinkParentChild{ParentID: "gp", ChildID: "aunt"})
	g = Apply(g, LinkParentChild{ParentID: "p", ChildID: "c"})

	tests := []struct {
		name               string
		ancestor, personID string
		want               bool
	}{
		{"DirectChild", "gp", "p", true},
		{"Grandchild", "gp", "c", true},
		{"Self", "gp", "gp", false},
		{"Sibling", "p", "aunt", false},
		{"Reversed", "c", "gp", false},
		{"MissingAncestor", "ghost", "c", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDescendant(g, tt.ancestor, tt.personID); got != tt.want {
				t.Errorf("IsDescendant(%s, %s) = %v, want %v", tt.ancestor, tt.personID, got, tt.want)
			}
		})
	}
}

func TestIsDescendantTerminatesOnCycle(t *testing.T) {
	// Malformed import: a and b are each other's children.
	g := NewGraph()
	g.People["a"] = Person{ID: "a", Children: []string{"b"}}
	g.People["b"] = Person{ID: "b", Children: []string{"a"}}

	if !IsDescendant(g, "a", "b") {
		t.Error("b should be reachable from a")
	}
	if IsDescendant(g, "a", "zzz") {
		t.Error("unreachable person reported as descendant")
	}
}

func TestValidate(t *testing.T) {
	clean := graphWith("a", "b")
	clean = Apply(clean, LinkParentChild{ParentID: "a", ChildID: "b"})
	clean = Apply(clean, LinkSpouse{PersonID: "a", SpouseID: "b", UnionID: "u1"})
	if issues := Validate(clean); len(issues) != 0 {
		t.Errorf("clean graph reported issues: %v", issues)
	}

	broken := NewGraph()
	broken.RootPersonID = strp("ghost")
	broken.People["a"] = Person{
		ID:       "a",
		Parents:  []string{"a", "missing"},
		Children: []string{"b"},
		Partnerships: []Partnership{
			{SpouseID: "b", UnionID: "u1"},
		},
	}
	broken.People["b"] = Person{ID: "b"} // no back-references

	issues := Validate(broken)
	if len(issues) == 0 {
		t.Fatal("broken graph reported no issues")
	}
	// Self-parent, missing parent, asymmetric child, one-sided union, dangling root.
	if len(issues) != 5 {
		t.Errorf("issue count = %d, want 5: %v", len(issues), issues)
	}
}
