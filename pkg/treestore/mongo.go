package treestore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kinforge/kinforge/pkg/treeio"
)

const (
	mongoDatabase   = "kinforge"
	mongoCollection = "trees"
	mongoDocID      = "collection"
)

// MongoStore persists the collection as a single MongoDB document, for
// server deployments where several instances share one data set.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoDoc struct {
	ID         string            `bson:"_id"`
	Collection treeio.Collection `bson:"collection"`
}

// NewMongoStore connects to MongoDB at uri and verifies the connection with
// a ping.
func NewMongoStore(ctx context.Context, uri string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(mongoDatabase).Collection(mongoCollection),
	}, nil
}

// Load retrieves the collection document. A missing document yields a fresh
// empty collection.
func (s *MongoStore) Load(ctx context.Context) (treeio.Collection, error) {
	var doc mongoDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": mongoDocID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return treeio.NewCollection(), nil
	}
	if err != nil {
		return treeio.Collection{}, fmt.Errorf("load collection: %w", err)
	}
	return doc.Collection, nil
}

// Save upserts the collection document.
func (s *MongoStore) Save(ctx context.Context, c treeio.Collection) error {
	doc := mongoDoc{ID: mongoDocID, Collection: c}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": mongoDocID}, doc, opts); err != nil {
		return fmt.Errorf("save collection: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)
