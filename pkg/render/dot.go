package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/kinforge/kinforge/pkg/familytree"
)

// ToDOT converts a family graph to Graphviz DOT format. Unions appear as
// small point nodes between the partners; children of a union hang off the
// union node, mirroring the edge policy of the layout engine. The resulting
// string can be rendered with [RenderDOTSVG] or [RenderDOTPNG].
func ToDOT(g familytree.TreeGraph) string {
	var buf bytes.Buffer
	buf.WriteString("digraph family {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("\n")

	for _, id := range g.SortedIDs() {
		p := g.People[id]
		fmt.Fprintf(&buf, "  %q [label=%q];\n", id, dotLabel(p))
	}

	// One point node per resolvable union.
	seen := map[string]bool{}
	covered := map[[2]string]bool{}
	for _, id := range g.SortedIDs() {
		for _, sp := range g.People[id].Partnerships {
			if seen[sp.UnionID] {
				continue
			}
			seen[sp.UnionID] = true

			partners := familytree.UnionPartners(g, sp.UnionID)
			if len(partners) != 2 {
				continue
			}
			unionNode := "union_" + sp.UnionID
			fmt.Fprintf(&buf, "  %q [shape=point, width=0.12];\n", unionNode)
			fmt.Fprintf(&buf, "  {rank=same; %q; %q;}\n", partners[0], partners[1])
			fmt.Fprintf(&buf, "  %q -> %q;\n", partners[0], unionNode)
			fmt.Fprintf(&buf, "  %q -> %q;\n", partners[1], unionNode)

			for _, cid := range g.SortedIDs() {
				c := g.People[cid]
				if hasParent(c, partners[0]) && hasParent(c, partners[1]) {
					fmt.Fprintf(&buf, "  %q -> %q;\n", unionNode, cid)
					covered[[2]string{partners[0], cid}] = true
					covered[[2]string{partners[1], cid}] = true
				}
			}
		}
	}

	for _, cid := range g.SortedIDs() {
		for _, pid := range g.People[cid].Parents {
			if covered[[2]string{pid, cid}] {
				continue
			}
			if _, ok := g.People[pid]; !ok {
				continue
			}
			fmt.Fprintf(&buf, "  %q -> %q;\n", pid, cid)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotLabel(p familytree.Person) string {
	label := p.DisplayName()
	if years := lifespan(p); years != "" {
		label += "\n" + years
	}
	return label
}

func hasParent(p familytree.Person, id string) bool {
	for _, v := range p.Parents {
		if v == id {
			return true
		}
	}
	return false
}

// RenderDOTSVG renders a DOT string to SVG using Graphviz.
func RenderDOTSVG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.SVG)
}

// RenderDOTPNG renders a DOT string to PNG using Graphviz.
func RenderDOTPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.PNG)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
