// internal/database/database.go
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoDB struct {
	Client        *mongo.Client
	Users         *mongo.Collection
	Communities   *mongo.Collection
	Posts         *mongo.Collection
	Comments      *mongo.Collection
	Notifications *mongo.Collection
	Events        *mongo.Collection
}

func NewMongoDB(uri, dbName string) (*MongoDB, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	// Ping the database to verify connection
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	db := client.Database(dbName)
	return &MongoDB{
		Client:        client,
		Users:         db.Collection("users"),
		Communities:   db.Collection("communities"),
		Posts:         db.Collection("posts"),
		Comments:      db.Collection("comments"),
		Notifications: db.Collection("notifications"),
		Events:        db.Collection("events"),
	}, nil
}

func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the read paths depend on.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	if _, err := m.Communities.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("failed to create community name index: %v", err)
	}

	if _, err := m.Posts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "communityId", Value: 1}, {Key: "createdAt", Value: -1}},
	}); err != nil {
		return fmt.Errorf("failed to create post community index: %v", err)
	}

	if _, err := m.Comments.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "postId", Value: 1}, {Key: "createdAt", Value: 1}},
	}); err != nil {
		return fmt.Errorf("failed to create comment post index: %v", err)
	}

	if _, err := m.Notifications.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	}); err != nil {
		return fmt.Errorf("failed to create notification recipient index: %v", err)
	}

	if _, err := m.Events.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "communityId", Value: 1}, {Key: "startsAt", Value: 1}},
	}); err != nil {
		return fmt.Errorf("failed to create event community index: %v", err)
	}

	return nil
}
