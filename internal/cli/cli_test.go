package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/kinforge/kinforge/pkg/familytree"
	"github.com/kinforge/kinforge/pkg/treeio"
	"github.com/kinforge/kinforge/pkg/treestore"
)

// newTestCLI returns a CLI wired to a temp collection file and a config that
// disables caching.
func newTestCLI(t *testing.T) (*CLI, string) {
	t.Helper()
	dir := t.TempDir()

	configPath := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(configPath, []byte(`cache_backend = "none"`), 0600); err != nil {
		t.Fatal(err)
	}

	c := New(&bytes.Buffer{}, log.InfoLevel)
	c.configPath = configPath
	c.dataPath = filepath.Join(dir, "trees.json")
	return c, c.dataPath
}

// run executes the CLI with the given args.
func run(t *testing.T, c *CLI, args ...string) error {
	t.Helper()
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	return root.ExecuteContext(context.Background())
}

// loadGraph reads the current tree's graph straight from the data file.
func loadGraph(t *testing.T, dataPath string) familytree.TreeGraph {
	t.Helper()
	s, err := treestore.NewFileStore(dataPath)
	if err != nil {
		t.Fatal(err)
	}
	col, err := s.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	cur, ok := col.Current()
	if !ok {
		t.Fatal("no current tree")
	}
	return cur.Graph
}

func TestTreeInitAndAdd(t *testing.T) {
	c, dataPath := newTestCLI(t)

	if err := run(t, c, "tree", "init", "main"); err != nil {
		t.Fatalf("tree init: %v", err)
	}
	if err := run(t, c, "add", "Ada", "Lovelace", "--id", "ada", "--birth", "1815-12-10"); err != nil {
		t.Fatalf("add: %v", err)
	}

	g := loadGraph(t, dataPath)
	ada, ok := g.Person("ada")
	if !ok {
		t.Fatal("ada not stored")
	}
	if ada.DisplayName() != "Ada Lovelace" {
		t.Errorf("DisplayName = %q", ada.DisplayName())
	}
	if ada.BirthDate == nil || *ada.BirthDate != "1815-12-10" {
		t.Errorf("BirthDate = %v", ada.BirthDate)
	}
	// First person becomes root.
	if g.RootPersonID == nil || *g.RootPersonID != "ada" {
		t.Errorf("root = %v", g.RootPersonID)
	}
}

func TestTreeInitRejectsDuplicate(t *testing.T) {
	c, _ := newTestCLI(t)

	if err := run(t, c, "tree", "init", "main"); err != nil {
		t.Fatalf("tree init: %v", err)
	}
	if err := run(t, c, "tree", "init", "main"); err == nil {
		t.Error("duplicate tree init should fail")
	}
}

func TestAddWithoutTreeFails(t *testing.T) {
	c, _ := newTestCLI(t)

	if err := run(t, c, "add", "Ada"); err == nil {
		t.Error("add without a tree should fail")
	}
}

func TestLinkAndCycleGuard(t *testing.T) {
	c, dataPath := newTestCLI(t)

	for _, args := range [][]string{
		{"tree", "init", "main"},
		{"add", "Byron", "--id", "byron"},
		{"add", "Ada", "--id", "ada"},
		{"link", "byron", "ada"},
	} {
		if err := run(t, c, args...); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
	}

	g := loadGraph(t, dataPath)
	ada, _ := g.Person("ada")
	if len(ada.Parents) != 1 || ada.Parents[0] != "byron" {
		t.Errorf("ada.Parents = %v", ada.Parents)
	}

	// Linking ada as byron's parent would create a cycle.
	if err := run(t, c, "link", "ada", "byron"); err == nil {
		t.Error("cyclic link should be refused")
	}
}

func TestMarryIsIdempotent(t *testing.T) {
	c, dataPath := newTestCLI(t)

	for _, args := range [][]string{
		{"tree", "init", "main"},
		{"add", "Ada", "--id", "ada"},
		{"add", "William", "--id", "william"},
		{"marry", "ada", "william"},
		{"marry", "ada", "william", "--date", "1835-07-08"},
	} {
		if err := run(t, c, args...); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
	}

	g := loadGraph(t, dataPath)
	ada, _ := g.Person("ada")
	if len(ada.Partnerships) != 1 {
		t.Fatalf("partnerships = %d, want 1", len(ada.Partnerships))
	}
	sp := ada.Partnerships[0]
	if sp.MarriageDate == nil || *sp.MarriageDate != "1835-07-08" {
		t.Errorf("MarriageDate = %v", sp.MarriageDate)
	}
}

func TestParentsRefusesDescendant(t *testing.T) {
	c, _ := newTestCLI(t)

	for _, args := range [][]string{
		{"tree", "init", "main"},
		{"add", "Byron", "--id", "byron"},
		{"add", "Ada", "--id", "ada"},
		{"link", "byron", "ada"},
	} {
		if err := run(t, c, args...); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
	}

	// ada is byron's descendant; she cannot become his parent.
	if err := run(t, c, "parents", "byron", "ada"); err == nil {
		t.Error("descendant parent should be refused")
	}
}

func TestRmPromotesRoot(t *testing.T) {
	c, dataPath := newTestCLI(t)

	for _, args := range [][]string{
		{"tree", "init", "main"},
		{"add", "Ada", "--id", "ada"},
		{"add", "Byron", "--id", "byron"},
		{"rm", "ada"},
	} {
		if err := run(t, c, args...); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
	}

	g := loadGraph(t, dataPath)
	if _, ok := g.Person("ada"); ok {
		t.Error("ada still present")
	}
	if g.RootPersonID == nil || *g.RootPersonID != "byron" {
		t.Errorf("root = %v, want byron", g.RootPersonID)
	}
}

func TestRmMissingPersonFails(t *testing.T) {
	c, _ := newTestCLI(t)

	if err := run(t, c, "tree", "init", "main"); err != nil {
		t.Fatal(err)
	}
	if err := run(t, c, "rm", "ghost"); err == nil {
		t.Error("rm of missing person should fail")
	}
}

func TestRenderSVGToFile(t *testing.T) {
	c, _ := newTestCLI(t)
	out := filepath.Join(t.TempDir(), "tree.svg")

	for _, args := range [][]string{
		{"tree", "init", "main"},
		{"add", "Ada", "--id", "ada"},
		{"render", "-o", out, "--no-cache"},
	} {
		if err := run(t, c, args...); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Error("output is not SVG")
	}
	if !bytes.Contains(data, []byte("Ada")) {
		t.Error("SVG missing person name")
	}
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	c, _ := newTestCLI(t)
	if err := run(t, c, "tree", "init", "main"); err != nil {
		t.Fatal(err)
	}
	if err := run(t, c, "render", "-f", "gif"); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestLayoutOutputIsDeterministic(t *testing.T) {
	c, _ := newTestCLI(t)
	dir := t.TempDir()
	first := filepath.Join(dir, "a.json")
	second := filepath.Join(dir, "b.json")

	for _, args := range [][]string{
		{"tree", "init", "main"},
		{"add", "Ada", "--id", "ada"},
		{"add", "Byron", "--id", "byron"},
		{"link", "byron", "ada"},
		{"layout", "-o", first, "--no-cache"},
		{"layout", "-o", second, "--no-cache"},
	} {
		if err := run(t, c, args...); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
	}

	a, err := os.ReadFile(first)
	if err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(second)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("layout output differs between runs")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	c, dataPath := newTestCLI(t)
	file := filepath.Join(t.TempDir(), "graph.json")

	for _, args := range [][]string{
		{"tree", "init", "main"},
		{"add", "Ada", "--id", "ada", "--birth", "1815-12-10"},
		{"add", "Byron", "--id", "byron"},
		{"link", "byron", "ada"},
		{"export", "-o", file},
		{"rm", "byron"},
		{"import", file},
	} {
		if err := run(t, c, args...); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
	}

	g := loadGraph(t, dataPath)
	byron, ok := g.Person("byron")
	if !ok {
		t.Fatal("import did not restore byron")
	}
	if len(byron.Children) != 1 || byron.Children[0] != "ada" {
		t.Errorf("byron.Children = %v", byron.Children)
	}
}

func TestFindTreeByNameAndID(t *testing.T) {
	col := treeio.NewCollection()
	col.SetTree(treeio.NamedTree{ID: "t1", Name: "main", Graph: familytree.NewGraph()})
	s := &session{col: col}

	if _, err := s.findTree("main"); err != nil {
		t.Errorf("by name: %v", err)
	}
	if _, err := s.findTree("t1"); err != nil {
		t.Errorf("by id: %v", err)
	}
	if _, err := s.findTree("nope"); err == nil {
		t.Error("missing tree should error")
	}
}

func TestDescribe(t *testing.T) {
	p := familytree.Person{ID: "ada", FirstName: "Ada", LastName: "Lovelace"}
	if got := describe(p); got != "Ada Lovelace" {
		t.Errorf("describe = %q", got)
	}

	p.BirthDate = familytree.StringPtr("1815-12-10")
	p.DeathDate = familytree.StringPtr("1852-11-27")
	if got := describe(p); got != "Ada Lovelace (1815-12-10 – 1852-11-27)" {
		t.Errorf("describe = %q", got)
	}

	anon := familytree.Person{ID: "x1"}
	if got := describe(anon); got != "x1" {
		t.Errorf("describe fallback = %q", got)
	}
}
