// Package treeio provides the persisted JSON formats for family graphs.
//
// Two shapes exist at this boundary:
//
//   - The bare graph format consumed and produced by the core:
//     {"rootPersonId": string|null, "people": {id: person}}
//   - A collection wrapper holding several named trees plus a version tag:
//     {"version": 1, "currentTreeId": "...", "trees": [{"id","name","graph"}]}
//
// The core is agnostic to the wrapper; schema migration between wrapper
// versions happens entirely in this package. Version 0 files (a bare graph
// with no wrapper) are migrated into a single-tree collection on read.
package treeio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/kinforge/kinforge/pkg/familytree"
)

// CollectionVersion is the current wrapper schema version.
const CollectionVersion = 1

// NamedTree is one graph in a collection.
type NamedTree struct {
	ID    string               `json:"id" bson:"id"`
	Name  string               `json:"name" bson:"name"`
	Graph familytree.TreeGraph `json:"graph" bson:"graph"`
}

// Collection is the wrapper format holding several named trees.
type Collection struct {
	Version       int         `json:"version" bson:"version"`
	CurrentTreeID string      `json:"currentTreeId,omitempty" bson:"currentTreeId,omitempty"`
	Trees         []NamedTree `json:"trees" bson:"trees"`
}

// NewCollection returns an empty collection at the current version.
func NewCollection() Collection {
	return Collection{Version: CollectionVersion}
}

// Tree returns the named tree with the given id and true, or a zero value
// and false if absent.
func (c Collection) Tree(id string) (NamedTree, bool) {
	for _, t := range c.Trees {
		if t.ID == id {
			return t, true
		}
	}
	return NamedTree{}, false
}

// Current returns the collection's current tree. When no current tree is set
// (or it points at a removed tree) the first tree is returned; ok is false
// for an empty collection.
func (c Collection) Current() (NamedTree, bool) {
	if t, ok := c.Tree(c.CurrentTreeID); ok {
		return t, true
	}
	if len(c.Trees) > 0 {
		return c.Trees[0], true
	}
	return NamedTree{}, false
}

// SetTree inserts or replaces the tree with the given id.
func (c *Collection) SetTree(t NamedTree) {
	for i := range c.Trees {
		if c.Trees[i].ID == t.ID {
			c.Trees[i] = t
			return
		}
	}
	c.Trees = append(c.Trees, t)
}

// RemoveTree deletes the tree with the given id, clearing CurrentTreeID if it
// pointed at it. It reports whether a tree was removed.
func (c *Collection) RemoveTree(id string) bool {
	for i := range c.Trees {
		if c.Trees[i].ID == id {
			c.Trees = append(c.Trees[:i], c.Trees[i+1:]...)
			if c.CurrentTreeID == id {
				c.CurrentTreeID = ""
			}
			return true
		}
	}
	return false
}

// =============================================================================
// Bare graph format
// =============================================================================

// ReadGraph decodes a bare graph from r.
func ReadGraph(r io.Reader) (familytree.TreeGraph, error) {
	var g familytree.TreeGraph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return familytree.TreeGraph{}, fmt.Errorf("decode graph: %w", err)
	}
	if g.People == nil {
		g.People = map[string]familytree.Person{}
	}
	return g, nil
}

// ReadGraphFile reads a bare graph JSON file.
func ReadGraphFile(path string) (familytree.TreeGraph, error) {
	f, err := os.Open(path)
	if err != nil {
		return familytree.TreeGraph{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f)
}

// WriteGraph encodes a bare graph as indented JSON to w. Dates serialize as
// "YYYY-MM-DD" strings or null, matching the exchange format exactly.
func WriteGraph(g familytree.TreeGraph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode graph: %w", err)
	}
	return nil
}

// WriteGraphFile writes a bare graph to a JSON file with 0644 permissions.
func WriteGraphFile(g familytree.TreeGraph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGraph(g, f)
}

// MarshalGraph converts a graph to JSON bytes.
func MarshalGraph(g familytree.TreeGraph) ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}

// UnmarshalGraph converts JSON bytes to a graph.
func UnmarshalGraph(data []byte) (familytree.TreeGraph, error) {
	var g familytree.TreeGraph
	if err := json.Unmarshal(data, &g); err != nil {
		return familytree.TreeGraph{}, fmt.Errorf("unmarshal graph: %w", err)
	}
	if g.People == nil {
		g.People = map[string]familytree.Person{}
	}
	return g, nil
}

// =============================================================================
// Collection wrapper
// =============================================================================

// ReadCollection decodes a collection from r, migrating older schema versions
// to [CollectionVersion]. A version 0 payload (a bare graph without the
// wrapper) becomes a single-tree collection named "main".
func ReadCollection(r io.Reader) (Collection, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Collection{}, fmt.Errorf("read collection: %w", err)
	}
	return UnmarshalCollection(data)
}

// UnmarshalCollection decodes and migrates a collection from JSON bytes.
func UnmarshalCollection(data []byte) (Collection, error) {
	var probe struct {
		Version *int `json:"version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return Collection{}, fmt.Errorf("unmarshal collection: %w", err)
	}

	if probe.Version == nil {
		// Version 0: a bare graph predating the wrapper.
		g, err := UnmarshalGraph(data)
		if err != nil {
			return Collection{}, fmt.Errorf("migrate v0 graph: %w", err)
		}
		c := NewCollection()
		c.SetTree(NamedTree{ID: "main", Name: "main", Graph: g})
		c.CurrentTreeID = "main"
		return c, nil
	}

	if *probe.Version > CollectionVersion {
		return Collection{}, fmt.Errorf("collection version %d is newer than supported version %d", *probe.Version, CollectionVersion)
	}

	var c Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return Collection{}, fmt.Errorf("unmarshal collection: %w", err)
	}
	c.Version = CollectionVersion
	for i := range c.Trees {
		if c.Trees[i].Graph.People == nil {
			c.Trees[i].Graph.People = map[string]familytree.Person{}
		}
	}
	return c, nil
}

// ReadCollectionFile reads and migrates a collection JSON file.
func ReadCollectionFile(path string) (Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Collection{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalCollection(data)
}

// WriteCollection encodes a collection as indented JSON to w.
func WriteCollection(c Collection, w io.Writer) error {
	c.Version = CollectionVersion
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}
	return nil
}

// WriteCollectionFile writes a collection to a JSON file with 0644
// permissions.
func WriteCollectionFile(c Collection, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteCollection(c, f)
}
