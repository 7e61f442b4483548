// Package mongodb provides MongoDB infrastructure components including index management.
package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Collection names as constants for consistency.
const (
	CollectionUsers    = "users"
	CollectionThreads  = "threads"
	CollectionMessages = "messages"
)

// IndexDefinition describes a MongoDB index to be created.
type IndexDefinition struct {
	Collection string
	Name       string
	Keys       bson.D
	Unique     bool
}

// CreateAllIndexes creates all indexes the application relies on.
// Calling it multiple times is safe.
func CreateAllIndexes(ctx context.Context, db *mongo.Database) error {
	for _, idx := range GetAllIndexDefinitions() {
		opts := options.Index().SetName(idx.Name)
		if idx.Unique {
			opts = opts.SetUnique(true)
		}

		model := mongo.IndexModel{
			Keys:    idx.Keys,
			Options: opts,
		}

		if _, err := db.Collection(idx.Collection).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("failed to create index %s on collection %s: %w",
				idx.Name, idx.Collection, err)
		}
	}

	return nil
}

// EnsureIndexes is an alias for CreateAllIndexes for semantic clarity.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	return CreateAllIndexes(ctx, db)
}

// GetAllIndexDefinitions returns all index definitions for all collections.
func GetAllIndexDefinitions() []IndexDefinition {
	var indexes []IndexDefinition

	indexes = append(indexes, GetUserIndexes()...)
	indexes = append(indexes, GetThreadIndexes()...)
	indexes = append(indexes, GetMessageIndexes()...)

	return indexes
}

// GetUserIndexes returns index definitions for the users collection.
func GetUserIndexes() []IndexDefinition {
	return []IndexDefinition{
		{
			Collection: CollectionUsers,
			Name:       "idx_users_id_unique",
			Keys:       bson.D{{Key: "user_id", Value: 1}},
			Unique:     true,
		},
		{
			Collection: CollectionUsers,
			Name:       "idx_users_username_unique",
			Keys:       bson.D{{Key: "username", Value: 1}},
			Unique:     true,
		},
	}
}

// GetThreadIndexes returns index definitions for the threads collection.
func GetThreadIndexes() []IndexDefinition {
	return []IndexDefinition{
		{
			Collection: CollectionThreads,
			Name:       "idx_threads_id_unique",
			Keys:       bson.D{{Key: "thread_id", Value: 1}},
			Unique:     true,
		},
		{
			// One thread per unordered participant pair. Concurrent
			// upserts for the same pair collide here instead of creating
			// duplicates.
			Collection: CollectionThreads,
			Name:       "idx_threads_pair_unique",
			Keys:       bson.D{{Key: "pair_key", Value: 1}},
			Unique:     true,
		},
		{
			Collection: CollectionThreads,
			Name:       "idx_threads_participants",
			Keys:       bson.D{{Key: "participants", Value: 1}},
		},
		{
			Collection: CollectionThreads,
			Name:       "idx_threads_created_at",
			Keys:       bson.D{{Key: "created_at", Value: -1}},
		},
		{
			Collection: CollectionThreads,
			Name:       "idx_threads_updated_at",
			Keys:       bson.D{{Key: "updated_at", Value: -1}},
		},
	}
}

// GetMessageIndexes returns index definitions for the messages collection.
func GetMessageIndexes() []IndexDefinition {
	return []IndexDefinition{
		{
			Collection: CollectionMessages,
			Name:       "idx_messages_id_unique",
			Keys:       bson.D{{Key: "message_id", Value: 1}},
			Unique:     true,
		},
		{
			// Covers per-thread listing in both created_at directions.
			Collection: CollectionMessages,
			Name:       "idx_messages_thread_time",
			Keys:       bson.D{{Key: "thread_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			// Serves the aggregate unread count: unread messages joined
			// to the reader's threads, excluding the reader's own.
			Collection: CollectionMessages,
			Name:       "idx_messages_unread",
			Keys:       bson.D{{Key: "thread_id", Value: 1}, {Key: "is_read", Value: 1}, {Key: "sender_id", Value: 1}},
		},
	}
}
