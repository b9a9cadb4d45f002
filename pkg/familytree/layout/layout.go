package layout

import (
	"fmt"
	"sort"

	"github.com/kinforge/kinforge/pkg/familytree"
)

// Point is a 2D coordinate in canvas space.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// PersonNode is a positioned person. X/Y is the top-left corner.
type PersonNode struct {
	Person familytree.Person `json:"person" bson:"person"`
	X      float64           `json:"x" bson:"x"`
	Y      float64           `json:"y" bson:"y"`
	Width  float64           `json:"width" bson:"width"`
	Height float64           `json:"height" bson:"height"`
}

// Center returns the node's center point.
func (n PersonNode) Center() Point {
	return Point{X: n.X + n.Width/2, Y: n.Y + n.Height/2}
}

// TopCenter returns the midpoint of the node's top edge.
func (n PersonNode) TopCenter() Point {
	return Point{X: n.X + n.Width/2, Y: n.Y}
}

// BottomCenter returns the midpoint of the node's bottom edge.
func (n PersonNode) BottomCenter() Point {
	return Point{X: n.X + n.Width/2, Y: n.Y + n.Height}
}

// UnionNode is a positioned marriage marker. X/Y is the top-left corner of a
// square of side [UnionSize], centered on the midpoint of the two partners'
// node centers.
type UnionNode struct {
	UnionID    string    `json:"unionId" bson:"unionId"`
	PartnerIDs [2]string `json:"partnerIds" bson:"partnerIds"`
	X          float64   `json:"x" bson:"x"`
	Y          float64   `json:"y" bson:"y"`
	ChildIDs   []string  `json:"childIds" bson:"childIds"`
}

// Center returns the marker's center point.
func (u UnionNode) Center() Point {
	return Point{X: u.X + UnionSize/2, Y: u.Y + UnionSize/2}
}

// BottomCenter returns the midpoint of the marker's bottom edge.
func (u UnionNode) BottomCenter() Point {
	return Point{X: u.X + UnionSize/2, Y: u.Y + UnionSize}
}

// Edge is a straight connector between two points.
type Edge struct {
	ID   string `json:"id" bson:"id"`
	From Point  `json:"from" bson:"from"`
	To   Point  `json:"to" bson:"to"`
}

// Layout is the full output of [Compute], consumed identically by the
// on-screen renderer and the vector exporter.
type Layout struct {
	PersonNodes []PersonNode `json:"personNodes" bson:"personNodes"`
	UnionNodes  []UnionNode  `json:"unionNodes" bson:"unionNodes"`
	Edges       []Edge       `json:"edges" bson:"edges"`
	Width       float64      `json:"width" bson:"width"`
	Height      float64      `json:"height" bson:"height"`
}

// PersonNode returns the positioned node for the given person id and true,
// or a zero value and false if the person is not part of the layout.
func (l Layout) PersonNode(id string) (PersonNode, bool) {
	for _, n := range l.PersonNodes {
		if n.Person.ID == id {
			return n, true
		}
	}
	return PersonNode{}, false
}

// Compute lays out a graph snapshot. It is a pure function: the graph is not
// modified, identical inputs produce identical coordinates, and it never
// fails - inconsistent references degrade to omitted elements. An empty graph
// yields zero nodes, zero edges and a zero-size canvas.
func Compute(g familytree.TreeGraph) Layout {
	if len(g.People) == 0 {
		return Layout{}
	}

	depth, order := assignDepths(g)
	rows, depths := buildRows(g, depth, order)

	nodes := packRows(g, rows, depths)
	index := make(map[string]PersonNode, len(nodes))
	for _, n := range nodes {
		index[n.Person.ID] = n
	}

	unions := placeUnions(g, index)
	edges := buildEdges(g, index, unions)

	var maxRight, maxBottom float64
	for _, n := range nodes {
		maxRight = maxf(maxRight, n.X+n.Width)
		maxBottom = maxf(maxBottom, n.Y+n.Height)
	}
	for _, u := range unions {
		maxRight = maxf(maxRight, u.X+UnionSize)
		maxBottom = maxf(maxBottom, u.Y+UnionSize)
	}

	return Layout{
		PersonNodes: nodes,
		UnionNodes:  unions,
		Edges:       edges,
		Width:       maxRight + Margin,
		Height:      maxBottom + Margin,
	}
}

// assignDepths runs a breadth-first traversal from the root (or the first
// person in mapping order when no root is set). Children are one level below
// the current person, parents one level above, spouses on the same level. The
// first assignment of a depth wins; later paths never overwrite it. People
// unreachable from the start default to depth 0 with order values appended
// after all reachable ones, in mapping order.
func assignDepths(g familytree.TreeGraph) (depth, order map[string]int) {
	depth = make(map[string]int, len(g.People))
	order = make(map[string]int, len(g.People))

	start := ""
	if g.RootPersonID != nil {
		if _, ok := g.People[*g.RootPersonID]; ok {
			start = *g.RootPersonID
		}
	}
	if start == "" {
		start = g.SortedIDs()[0]
	}

	counter := 0
	assign := func(id string, d int) {
		depth[id] = d
		order[id] = counter
		counter++
	}

	assign(start, 0)
	queue := []string{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		p := g.People[id]
		d := depth[id]

		visit := func(neighborID string, delta int) {
			if _, seen := order[neighborID]; seen {
				return
			}
			if _, exists := g.People[neighborID]; !exists {
				return
			}
			assign(neighborID, d+delta)
			queue = append(queue, neighborID)
		}

		for _, c := range p.Children {
			visit(c, 1)
		}
		for _, par := range p.Parents {
			visit(par, -1)
		}
		for _, sp := range p.Partnerships {
			visit(sp.SpouseID, 0)
		}
	}

	for _, id := range g.SortedIDs() {
		if _, seen := order[id]; !seen {
			assign(id, 0)
		}
	}
	return depth, order
}

// buildRows groups people by depth and fixes the final left-to-right sequence
// of each row: members sorted by visitation order, then a single greedy pass
// that pulls each placed person's same-depth spouses in directly after them
// so married pairs stay adjacent.
func buildRows(g familytree.TreeGraph, depth, order map[string]int) (rows map[int][]string, depths []int) {
	byDepth := make(map[int][]string)
	for id, d := range depth {
		byDepth[d] = append(byDepth[d], id)
	}

	rows = make(map[int][]string, len(byDepth))
	for d, members := range byDepth {
		sort.Slice(members, func(i, j int) bool { return order[members[i]] < order[members[j]] })

		seq := make([]string, 0, len(members))
		placed := make(map[string]bool, len(members))
		for _, id := range members {
			if placed[id] {
				continue
			}
			placed[id] = true
			seq = append(seq, id)

			for _, sp := range g.People[id].Partnerships {
				sid := sp.SpouseID
				if placed[sid] {
					continue
				}
				if spouseDepth, ok := depth[sid]; !ok || spouseDepth != d {
					continue
				}
				placed[sid] = true
				seq = append(seq, sid)
			}
		}
		rows[d] = seq
		depths = append(depths, d)
	}
	sort.Ints(depths)
	return rows, depths
}

// packRows positions each row left-to-right at fixed gaps. Row height is the
// tallest node in the row; vertical offsets accumulate row heights plus the
// vertical gap.
func packRows(g familytree.TreeGraph, rows map[int][]string, depths []int) []PersonNode {
	var nodes []PersonNode
	y := Margin
	for _, d := range depths {
		x := Margin
		rowHeight := 0.0
		for _, id := range rows[d] {
			p := g.People[id]
			w, h := nodeSize(p)
			nodes = append(nodes, PersonNode{Person: p.Clone(), X: x, Y: y, Width: w, Height: h})
			x += w + HGap
			rowHeight = maxf(rowHeight, h)
		}
		y += rowHeight + VGap
	}
	return nodes
}

// placeUnions emits one marker per distinct union id at the midpoint of the
// two partners' node centers. Unions with fewer or more than two resolvable
// partners are skipped silently.
func placeUnions(g familytree.TreeGraph, index map[string]PersonNode) []UnionNode {
	var unionIDs []string
	seen := make(map[string]bool)
	for _, id := range g.SortedIDs() {
		for _, sp := range g.People[id].Partnerships {
			if !seen[sp.UnionID] {
				seen[sp.UnionID] = true
				unionIDs = append(unionIDs, sp.UnionID)
			}
		}
	}

	var unions []UnionNode
	for _, unionID := range unionIDs {
		partners := familytree.UnionPartners(g, unionID)
		if len(partners) != 2 {
			continue
		}
		a, okA := index[partners[0]]
		b, okB := index[partners[1]]
		if !okA || !okB {
			continue
		}

		ca, cb := a.Center(), b.Center()
		mid := Point{X: (ca.X + cb.X) / 2, Y: (ca.Y + cb.Y) / 2}

		unions = append(unions, UnionNode{
			UnionID:    unionID,
			PartnerIDs: [2]string{partners[0], partners[1]},
			X:          mid.X - UnionSize/2,
			Y:          mid.Y - UnionSize/2,
			ChildIDs:   unionChildren(g, partners[0], partners[1]),
		})
	}
	return unions
}

// unionChildren finds every person whose parent list contains both partner
// ids. There is no explicit "children of union" field in the data model.
func unionChildren(g familytree.TreeGraph, a, b string) []string {
	var children []string
	for _, id := range g.SortedIDs() {
		p := g.People[id]
		if contains(p.Parents, a) && contains(p.Parents, b) {
			children = append(children, id)
		}
	}
	return children
}

// buildEdges synthesizes connectors: partner center to union center, union
// bottom to child top for every union child, then a direct parent-bottom to
// child-top edge for each parent/child relationship not already covered by a
// union.
func buildEdges(g familytree.TreeGraph, index map[string]PersonNode, unions []UnionNode) []Edge {
	var edges []Edge
	covered := make(map[[2]string]bool)

	for _, u := range unions {
		for _, pid := range u.PartnerIDs {
			edges = append(edges, Edge{
				ID:   fmt.Sprintf("u:%s:%s", u.UnionID, pid),
				From: index[pid].Center(),
				To:   u.Center(),
			})
		}
		for _, cid := range u.ChildIDs {
			child, ok := index[cid]
			if !ok {
				continue
			}
			edges = append(edges, Edge{
				ID:   fmt.Sprintf("uc:%s:%s", u.UnionID, cid),
				From: u.BottomCenter(),
				To:   child.TopCenter(),
			})
			covered[[2]string{u.PartnerIDs[0], cid}] = true
			covered[[2]string{u.PartnerIDs[1], cid}] = true
		}
	}

	for _, cid := range g.SortedIDs() {
		child, ok := index[cid]
		if !ok {
			continue
		}
		for _, pid := range g.People[cid].Parents {
			if covered[[2]string{pid, cid}] {
				continue
			}
			parent, ok := index[pid]
			if !ok {
				continue
			}
			edges = append(edges, Edge{
				ID:   fmt.Sprintf("pc:%s:%s", pid, cid),
				From: parent.BottomCenter(),
				To:   child.TopCenter(),
			})
		}
	}
	return edges
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
