// Package treestore persists tree collections.
//
// A [Store] holds one [treeio.Collection] - the versioned wrapper with all
// named trees. Two backends are provided:
//
//   - [FileStore]: a JSON file under ~/.config/kinforge/, for the CLI
//   - [MongoStore]: a MongoDB document, for server deployments
//
// Loading from an empty backend returns a fresh empty collection rather than
// an error, so first use needs no explicit initialization step.
package treestore

import (
	"context"

	"github.com/kinforge/kinforge/pkg/treeio"
)

// Store is the interface for collection persistence backends.
type Store interface {
	// Load retrieves the collection. An empty backend yields a fresh empty
	// collection, not an error.
	Load(ctx context.Context) (treeio.Collection, error)

	// Save stores the collection, replacing the previous state.
	Save(ctx context.Context, c treeio.Collection) error

	// Close releases backend resources.
	Close() error
}
