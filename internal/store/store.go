// Package store defines the document collection operations the todo manager
// depends on, so the MongoDB collection can be swapped for an in-memory one.
package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UpdateResult reports how many documents an update matched and changed.
type UpdateResult struct {
	MatchedCount  int64
	ModifiedCount int64
}

// Collection is a single named group of documents.
type Collection interface {
	// InsertOne stores document and returns its _id.
	InsertOne(ctx context.Context, document any) (primitive.ObjectID, error)

	// Find returns every document matching filter.
	Find(ctx context.Context, filter bson.M) ([]bson.Raw, error)

	// UpdateOne applies update to the first document matching filter.
	UpdateOne(ctx context.Context, filter, update bson.M) (UpdateResult, error)

	// DeleteOne removes the first document matching filter and returns the
	// number of documents deleted.
	DeleteOne(ctx context.Context, filter bson.M) (int64, error)
}
