// Package mongo keeps the session in a MongoDB document.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aretw0/notes/pkg/core"
)

const collectionName = "sessions"

// Config holds the connection settings for the MongoDB store.
type Config struct {
	URI       string
	Database  string
	Namespace string
}

// Store implements core.Store with one document per namespace:
// {_id: namespace, access: "...", refresh: "..."}.
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
	id         string
}

// NewStore connects to MongoDB and verifies the connection.
func NewStore(ctx context.Context, config Config) (*Store, error) {
	if config.URI == "" {
		config.URI = "mongodb://localhost:27017"
	}
	if config.Database == "" {
		return nil, errors.New("mongo database name required")
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(config.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return NewStoreWithClient(client, config), nil
}

// NewStoreWithClient wraps an existing client.
func NewStoreWithClient(client *mongo.Client, config Config) *Store {
	id := config.Namespace
	if id == "" {
		id = "default"
	}
	return &Store{
		client:     client,
		collection: client.Database(config.Database).Collection(collectionName),
		id:         id,
	}
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var doc bson.M
	err := s.collection.FindOne(ctx, bson.M{"_id": s.id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("find session: %w", err)
	}

	v, ok := doc[key].(string)
	return v, ok, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": s.id},
		bson.M{"$set": bson.M{key: value, "updatedAt": time.Now()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": s.id}); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	disconnectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.client.Disconnect(disconnectCtx)
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "mongo"
}

var _ core.Store = (*Store)(nil)
