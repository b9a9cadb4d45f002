// Package familytree provides the graph data model for genealogical trees
// and the mutation operations that keep it internally consistent.
//
// # Overview
//
// A [TreeGraph] is an id-indexed table of [Person] records plus an optional
// root person id. Every relationship (parent/child, partnership) is expressed
// as an id lookup into that table, never as an owning reference, so the model
// has no pointer cycles and snapshots can be cloned cheaply.
//
// # State transitions
//
// All mutation goes through [Apply], a pure state-transition function: given a
// graph snapshot and an [Action] it returns a new snapshot and never modifies
// the input. Apply is total - actions referencing ids absent from the graph
// degrade to no-ops, and unknown action values return the snapshot unchanged.
// Callers therefore do not need to pre-validate existence before dispatch.
//
//	g := familytree.NewGraph()
//	g = familytree.Apply(g, familytree.UpsertPerson{Person: familytree.Person{ID: "ada"}})
//	g = familytree.Apply(g, familytree.UpsertPerson{Person: familytree.Person{ID: "alan"}})
//	g = familytree.Apply(g, familytree.LinkParentChild{ParentID: "ada", ChildID: "alan"})
//
// # Consistency model
//
// Symmetric consistency (A lists B as parent iff B lists A as child; matching
// partnership entries on both sides of a union) is maintained by the paired
// mutation operations, not re-validated globally. Externally supplied data can
// violate it; the rest of the system tolerates that gracefully. [Validate]
// offers an optional advisory check for hand-edited imports.
//
// The one guard Apply does not perform is cycle prevention for
// [ReassignParents]: callers must check [IsDescendant] before assigning a
// descendant as a parent.
//
// # Concurrency
//
// Graphs are immutable values once built through Apply, so concurrent readers
// never observe a partial update. Serializing actions through one dispatch
// point is the caller's responsibility.
package familytree
