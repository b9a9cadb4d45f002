package treeio

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/kinforge/kinforge/pkg/familytree"
)

func sampleGraph() familytree.TreeGraph {
	g := familytree.NewGraph()
	g = familytree.Apply(g, familytree.UpsertPerson{Person: familytree.Person{
		ID:         "ada",
		FirstName:  "Ada",
		LastName:   "Lovelace",
		BirthDate:  familytree.StringPtr("1815-12-10"),
		BirthPlace: "London",
	}})
	g = familytree.Apply(g, familytree.UpsertPerson{Person: familytree.Person{ID: "byron"}})
	g = familytree.Apply(g, familytree.LinkParentChild{ParentID: "byron", ChildID: "ada"})
	g = familytree.Apply(g, familytree.SetRootPerson{RootID: familytree.StringPtr("ada")})
	return g
}

func TestGraphRoundTrip(t *testing.T) {
	g := sampleGraph()

	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		t.Fatalf("WriteGraph: %v", err)
	}

	// Unknown dates serialize as null, not as empty strings.
	if !strings.Contains(buf.String(), `"deathDate": null`) {
		t.Errorf("missing null deathDate in output:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), `"rootPersonId": "ada"`) {
		t.Errorf("missing root in output:\n%s", buf.String())
	}

	got, err := ReadGraph(&buf)
	if err != nil {
		t.Fatalf("ReadGraph: %v", err)
	}
	if !reflect.DeepEqual(got, g) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, g)
	}
}

func TestReadGraphNullRoot(t *testing.T) {
	in := `{"rootPersonId": null, "people": {}}`
	g, err := ReadGraph(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadGraph: %v", err)
	}
	if g.RootPersonID != nil {
		t.Errorf("root = %v, want nil", *g.RootPersonID)
	}
	if g.People == nil {
		t.Error("people map not initialized")
	}
}

func TestCollectionRoundTripFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trees.json")

	c := NewCollection()
	c.SetTree(NamedTree{ID: "t1", Name: "lovelace", Graph: sampleGraph()})
	c.SetTree(NamedTree{ID: "t2", Name: "empty", Graph: familytree.NewGraph()})
	c.CurrentTreeID = "t1"

	if err := WriteCollectionFile(c, path); err != nil {
		t.Fatalf("WriteCollectionFile: %v", err)
	}
	got, err := ReadCollectionFile(path)
	if err != nil {
		t.Fatalf("ReadCollectionFile: %v", err)
	}
	if !reflect.DeepEqual(got, c) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, c)
	}

	cur, ok := got.Current()
	if !ok || cur.ID != "t1" {
		t.Errorf("current = %+v, ok=%v, want t1", cur, ok)
	}
}

func TestUnmarshalCollectionMigratesV0(t *testing.T) {
	bare := `{"rootPersonId": "a", "people": {"a": {"id": "a", "birthDate": null, "deathDate": null, "parents": [], "children": [], "partnerships": []}}}`

	c, err := UnmarshalCollection([]byte(bare))
	if err != nil {
		t.Fatalf("UnmarshalCollection: %v", err)
	}
	if c.Version != CollectionVersion {
		t.Errorf("version = %d, want %d", c.Version, CollectionVersion)
	}
	if len(c.Trees) != 1 || c.Trees[0].ID != "main" {
		t.Fatalf("trees = %+v, want single main tree", c.Trees)
	}
	if _, ok := c.Trees[0].Graph.Person("a"); !ok {
		t.Error("migrated graph lost person a")
	}
	if c.CurrentTreeID != "main" {
		t.Errorf("current = %q, want main", c.CurrentTreeID)
	}
}

func TestUnmarshalCollectionRejectsNewerVersion(t *testing.T) {
	if _, err := UnmarshalCollection([]byte(`{"version": 99, "trees": []}`)); err == nil {
		t.Error("expected error for future schema version")
	}
}

func TestCollectionRemoveTree(t *testing.T) {
	c := NewCollection()
	c.SetTree(NamedTree{ID: "t1", Name: "one", Graph: familytree.NewGraph()})
	c.SetTree(NamedTree{ID: "t2", Name: "two", Graph: familytree.NewGraph()})
	c.CurrentTreeID = "t1"

	if !c.RemoveTree("t1") {
		t.Fatal("RemoveTree(t1) = false")
	}
	if c.CurrentTreeID != "" {
		t.Errorf("current = %q, want cleared", c.CurrentTreeID)
	}
	if cur, ok := c.Current(); !ok || cur.ID != "t2" {
		t.Errorf("current fallback = %+v, want t2", cur)
	}
	if c.RemoveTree("ghost") {
		t.Error("RemoveTree(ghost) = true")
	}
}
