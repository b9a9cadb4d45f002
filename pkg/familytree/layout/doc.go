// Package layout computes positioned node-and-edge diagrams for family
// graphs.
//
// # Overview
//
// [Compute] is a pure function from a graph snapshot to a [Layout]: person
// nodes with x/y/width/height, union markers at the midpoint of each married
// pair, connecting edges, and overall canvas bounds. The on-screen renderer
// and the vector exporter consume the same Layout, guaranteeing visual parity
// between them.
//
// # Algorithm
//
// Node sizes are estimated purely from text content (character counts, never
// measured glyphs). Generations are assigned by a breadth-first traversal
// from the root - children one level down, parents one level up, spouses on
// the same level - and people are packed into rows at fixed gaps, with a
// single greedy pass keeping married pairs adjacent. Union markers connect
// each partner to the children whose parent list contains both partners;
// every remaining parent/child relationship gets a direct edge.
//
// The spouse-adjacency pass is deliberately a one-hop heuristic. It does not
// minimize edge crossings across generations or multiple marriages, and the
// exact placement it produces is part of this package's contract.
//
// # Determinism and tolerance
//
// Identical input graphs produce bit-identical coordinates, so layouts can be
// memoized keyed on snapshot equality. Compute never fails: dangling spouse
// ids, half-resolvable unions and even cyclic ancestry data degrade to
// omitted elements, never to an error.
package layout
