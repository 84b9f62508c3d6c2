// database/database.go
package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/osmakqa/riskandopportunitiesregistry-sub000/config"
)

var Client *mongo.Client

func Connect() error {
	if config.MongoURI == "" {
		return fmt.Errorf("MONGODB_URI environment variable is required")
	}

	clientOptions := options.Client().
		ApplyURI(config.MongoURI).
		SetConnectTimeout(20 * time.Second).
		SetServerSelectionTimeout(15 * time.Second).
		SetSocketTimeout(20 * time.Second).
		SetMaxPoolSize(50)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error
	Client, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to create MongoDB client: %w", err)
	}

	ctxPing, cancelPing := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelPing()

	if err = Client.Ping(ctxPing, readpref.Primary()); err != nil {
		_ = Client.Disconnect(context.Background())
		Client = nil
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Println("Successfully connected to MongoDB")
	return nil
}

// Collection returns a collection of the configured registry database.
func Collection(name string) *mongo.Collection {
	return Client.Database(config.MongoDatabase).Collection(name)
}

// Ping reports whether the connection is alive. It is nil when no client is connected.
func Ping(ctx context.Context) error {
	if Client == nil {
		return nil
	}
	return Client.Ping(ctx, readpref.Primary())
}

func Disconnect() {
	if Client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := Client.Disconnect(ctx); err != nil {
		log.Printf("MongoDB disconnect warning: %v", err)
	}
}
