// database/registry_store.go
package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/osmakqa/riskandopportunitiesregistry-sub000/models"
)

const RegistryCollection = "registry_items"

var (
	ErrNotFound  = errors.New("registry item not found")
	ErrDuplicate = errors.New("registry item already exists")
)

// MongoStore keeps registry items in one collection, one document per item.
// There is no version check: the last write wins.
type MongoStore struct {
	notifier
	coll     *mongo.Collection
	watching atomic.Bool
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

// EnsureIndexes creates the indexes used by list filters.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "section", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create registry indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) ListAll(ctx context.Context) ([]models.RegistryItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find registry items: %w", err)
	}
	defer cursor.Close(ctx)

	items := []models.RegistryItem{}
	for cursor.Next(ctx) {
		var doc registryDocument
		if err := cursor.Decode(&doc); err != nil {
			log.Printf("Skipping undecodable registry document: %v", err)
			continue
		}
		items = append(items, fromDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate registry items: %w", err)
	}
	return items, nil
}

func (s *MongoStore) Insert(ctx context.Context, item models.RegistryItem) error {
	doc, err := toDocument(item)
	if err != nil {
		return err
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert registry item %s: %w", item.ID, err)
	}
	s.changed()
	return nil
}

func (s *MongoStore) Update(ctx context.Context, item models.RegistryItem) error {
	doc, err := toDocument(item)
	if err != nil {
		return err
	}
	result, err := s.coll.ReplaceOne(ctx, bson.M{"_id": item.ID}, doc)
	if err != nil {
		return fmt.Errorf("update registry item %s: %w", item.ID, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	s.changed()
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete registry item %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	s.changed()
	return nil
}

// changed signals local subscribers unless a change stream is already
// delivering the same event.
func (s *MongoStore) changed() {
	if s.watching.Load() {
		return
	}
	s.notify()
}

// Watch follows the collection's change stream so writes made by other
// instances also reach subscribers. It blocks until ctx is done or the stream
// fails (for example on a standalone server without replica set); local
// notification resumes when it returns.
func (s *MongoStore) Watch(ctx context.Context) error {
	opts := options.ChangeStream().SetMaxAwaitTime(5 * time.Second)
	stream, err := s.coll.Watch(ctx, mongo.Pipeline{}, opts)
	if err != nil {
		return fmt.Errorf("open change stream: %w", err)
	}
	defer stream.Close(context.Background())

	s.watching.Store(true)
	defer s.watching.Store(false)
	log.Printf("Watching %s change stream", RegistryCollection)

	for stream.Next(ctx) {
		s.notify()
	}
	if err := stream.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("change stream: %w", err)
	}
	return nil
}
