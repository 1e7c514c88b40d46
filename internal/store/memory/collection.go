// Package memory is an in-process store.Collection used by tests.
package memory

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sarth-shah20/todo/internal/store"
)

// Collection keeps documents in insertion order. Filters support top-level
// equality only and updates support $set only.
type Collection struct {
	mu    sync.Mutex
	docs  []bson.M
	calls int
}

var _ store.Collection = (*Collection)(nil)

func New() *Collection {
	return &Collection{}
}

// Calls returns how many operations reached the collection.
func (c *Collection) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// Len returns the number of stored documents.
func (c *Collection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.docs)
}

func (c *Collection) InsertOne(_ context.Context, document any) (primitive.ObjectID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++

	raw, err := bson.Marshal(document)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to marshal document: %w", err)
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to unmarshal document: %w", err)
	}

	id, ok := doc["_id"].(primitive.ObjectID)
	if !ok {
		id = primitive.NewObjectID()
		doc["_id"] = id
	}
	for _, existing := range c.docs {
		if existing["_id"] == id {
			return primitive.NilObjectID, fmt.Errorf("duplicate key _id %s", id.Hex())
		}
	}

	c.docs = append(c.docs, doc)
	return id, nil
}

func (c *Collection) Find(_ context.Context, filter bson.M) ([]bson.Raw, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++

	var out []bson.Raw
	for _, doc := range c.docs {
		if !matches(doc, filter) {
			continue
		}
		raw, err := bson.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal document: %w", err)
		}
		out = append(out, raw)
	}
	return out, nil
}

func (c *Collection) UpdateOne(_ context.Context, filter, update bson.M) (store.UpdateResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++

	set, err := setFields(update)
	if err != nil {
		return store.UpdateResult{}, err
	}

	for _, doc := range c.docs {
		if !matches(doc, filter) {
			continue
		}
		res := store.UpdateResult{MatchedCount: 1}
		for k, v := range set {
			if !reflect.DeepEqual(doc[k], v) {
				doc[k] = v
				res.ModifiedCount = 1
			}
		}
		return res, nil
	}
	return store.UpdateResult{}, nil
}

func (c *Collection) DeleteOne(_ context.Context, filter bson.M) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++

	for i, doc := range c.docs {
		if matches(doc, filter) {
			c.docs = append(c.docs[:i], c.docs[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func matches(doc, filter bson.M) bool {
	for k, want := range filter {
		if !reflect.DeepEqual(doc[k], want) {
			return false
		}
	}
	return true
}

func setFields(update bson.M) (bson.M, error) {
	if len(update) != 1 {
		return nil, fmt.Errorf("update must contain exactly one operator, got %d", len(update))
	}
	switch set := update["$set"].(type) {
	case bson.M:
		return set, nil
	case bson.D:
		return set.Map(), nil
	default:
		return nil, fmt.Errorf("unsupported update %v", update)
	}
}
