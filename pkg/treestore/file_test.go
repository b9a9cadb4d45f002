package treestore

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/kinforge/kinforge/pkg/familytree"
	"github.com/kinforge/kinforge/pkg/treeio"
)

func TestFileStoreLoadEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trees.json")
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	c, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Version != treeio.CollectionVersion || len(c.Trees) != 0 {
		t.Errorf("empty load = %+v, want fresh collection", c)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "trees.json")
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	g := familytree.Apply(familytree.NewGraph(), familytree.UpsertPerson{
		Person: familytree.Person{ID: "ada", FirstName: "Ada"},
	})
	c := treeio.NewCollection()
	c.SetTree(treeio.NamedTree{ID: "t1", Name: "main", Graph: g})
	c.CurrentTreeID = "t1"

	if err := s.Save(ctx, c); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, c) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, c)
	}

	// No temp file left behind.
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file not cleaned up by rename")
	}
}

func TestFileStoreMigratesBareGraph(t *testing.T) {
	// A pre-wrapper save: the file holds a bare graph.
	path := filepath.Join(t.TempDir(), "trees.json")
	bare := `{"rootPersonId": null, "people": {"a": {"id": "a", "birthDate": null, "deathDate": null, "parents": [], "children": [], "partnerships": []}}}`
	if err := os.WriteFile(path, []byte(bare), 0600); err != nil {
		t.Fatal(err)
	}

	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	c, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cur, ok := c.Current()
	if !ok {
		t.Fatal("migrated collection has no current tree")
	}
	if _, ok := cur.Graph.Person("a"); !ok {
		t.Error("migrated graph lost person a")
	}
}
