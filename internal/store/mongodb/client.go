// Package mongodb implements store.Collection on top of the official MongoDB
// driver.
package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/sarth-shah20/todo/internal/config"
	"github.com/sarth-shah20/todo/internal/store"
)

// Client owns the driver connection and the resolved collection handle.
type Client struct {
	client *mongo.Client
	coll   *Collection
	log    *zap.Logger
}

// Connect creates a client for cfg.URL. The driver connects lazily, so no
// round trip happens until the first collection operation.
func Connect(ctx context.Context, cfg config.Mongo, log *zap.Logger) (*Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("failed to create mongodb client: %w", err)
	}

	log.Debug("mongodb client created",
		zap.String("database", cfg.Database),
		zap.String("collection", cfg.Collection),
	)

	return &Client{
		client: client,
		coll:   &Collection{coll: client.Database(cfg.Database).Collection(cfg.Collection)},
		log:    log,
	}, nil
}

// Collection returns the configured collection.
func (c *Client) Collection() store.Collection {
	return c.coll
}

// Disconnect closes the underlying connection.
func (c *Client) Disconnect(ctx context.Context) error {
	if err := c.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from mongodb: %w", err)
	}
	c.log.Debug("mongodb client disconnected")
	return nil
}

// Collection adapts *mongo.Collection to store.Collection.
type Collection struct {
	coll *mongo.Collection
}

var _ store.Collection = (*Collection)(nil)

func (c *Collection) InsertOne(ctx context.Context, document any) (primitive.ObjectID, error) {
	res, err := c.coll.InsertOne(ctx, document)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to insert document: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return id, nil
}

func (c *Collection) Find(ctx context.Context, filter bson.M) ([]bson.Raw, error) {
	cur, err := c.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find documents: %w", err)
	}
	defer cur.Close(ctx)

	var docs []bson.Raw
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to read documents: %w", err)
	}
	return docs, nil
}

func (c *Collection) UpdateOne(ctx context.Context, filter, update bson.M) (store.UpdateResult, error) {
	res, err := c.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return store.UpdateResult{}, fmt.Errorf("failed to update document: %w", err)
	}
	return store.UpdateResult{
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
	}, nil
}

func (c *Collection) DeleteOne(ctx context.Context, filter bson.M) (int64, error) {
	res, err := c.coll.DeleteOne(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete document: %w", err)
	}
	return res.DeletedCount, nil
}
