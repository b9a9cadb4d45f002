package render

import (
	"strings"
	"testing"

	"github.com/kinforge/kinforge/pkg/familytree"
	"github.com/kinforge/kinforge/pkg/familytree/layout"
)

func coupleGraph() familytree.TreeGraph {
	g := familytree.NewGraph()
	for _, id := range []string{"a", "b", "c"} {
		g = familytree.Apply(g, familytree.UpsertPerson{Person: familytree.Person{
			ID:        id,
			FirstName: strings.ToUpper(id),
			BirthDate: familytree.StringPtr("1900-01-01"),
		}})
	}
	g = familytree.Apply(g, familytree.LinkSpouse{PersonID: "a", SpouseID: "b", UnionID: "u1"})
	g = familytree.Apply(g, familytree.LinkParentChild{ParentID: "a", ChildID: "c"})
	g = familytree.Apply(g, familytree.LinkParentChild{ParentID: "b", ChildID: "c"})
	g = familytree.Apply(g, familytree.SetRootPerson{RootID: familytree.StringPtr("a")})
	return g
}

func TestRenderSVG(t *testing.T) {
	l := layout.Compute(coupleGraph())
	svg := string(RenderSVG(l))

	if !strings.HasPrefix(svg, "<svg xmlns=") {
		t.Error("output is not an SVG document")
	}
	for _, want := range []string{
		`id="person-a"`, `id="person-b"`, `id="person-c"`,
		`id="union-u1"`,
		`id="edge-u:u1:a"`, `id="edge-uc:u1:c"`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("missing %s in SVG output", want)
		}
	}
	if strings.Contains(svg, `<rect x="0" y="0"`) {
		t.Error("unexpected background rect without WithBackground")
	}
}

func TestRenderSVGOptions(t *testing.T) {
	l := layout.Compute(coupleGraph())
	svg := string(RenderSVG(l, WithBackground("#fffbe6"), WithAccent("#123456"), WithIDs()))

	if !strings.Contains(svg, `fill="#fffbe6"`) {
		t.Error("background option not applied")
	}
	if !strings.Contains(svg, `stroke="#123456"`) {
		t.Error("accent option not applied to edges")
	}
	if !strings.Contains(svg, ">a</text>") {
		t.Error("WithIDs did not annotate person ids")
	}
}

func TestRenderSVGEscapesText(t *testing.T) {
	g := familytree.NewGraph()
	g = familytree.Apply(g, familytree.UpsertPerson{Person: familytree.Person{
		ID:        "x",
		FirstName: `Smith & "Jones" <co>`,
	}})

	svg := string(RenderSVG(layout.Compute(g)))
	if strings.Contains(svg, `& "Jones" <co>`) {
		t.Error("text not escaped")
	}
	if !strings.Contains(svg, "Smith &amp; &quot;Jones&quot; &lt;co&gt;") {
		t.Errorf("escaped name missing:\n%s", svg)
	}
}

func TestRenderSVGEmptyLayout(t *testing.T) {
	svg := string(RenderSVG(layout.Layout{}))
	if !strings.Contains(svg, `viewBox="0 0 0.0 0.0"`) {
		t.Errorf("empty layout viewBox wrong:\n%s", svg)
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(coupleGraph())

	for _, want := range []string{
		"digraph family {",
		`"a" -> "union_u1"`,
		`"b" -> "union_u1"`,
		`"union_u1" -> "c"`,
		"{rank=same; \"a\"; \"b\";}",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("missing %q in DOT output:\n%s", want, dot)
		}
	}
	// Both parent links are covered by the union: no direct edges.
	if strings.Contains(dot, `"a" -> "c"`) || strings.Contains(dot, `"b" -> "c"`) {
		t.Errorf("direct parent edge should be covered by union:\n%s", dot)
	}
}

func TestToDOTSingleParent(t *testing.T) {
	g := familytree.NewGraph()
	for _, id := range []string{"p", "c"} {
		g = familytree.Apply(g, familytree.UpsertPerson{Person: familytree.Person{ID: id}})
	}
	g = familytree.Apply(g, familytree.LinkParentChild{ParentID: "p", ChildID: "c"})

	dot := ToDOT(g)
	if !strings.Contains(dot, `"p" -> "c"`) {
		t.Errorf("missing direct parent edge:\n%s", dot)
	}
}
