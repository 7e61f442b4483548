// Package mongodb implements the application layer repository interfaces
// on top of MongoDB collections.
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/couriermsg/courier/internal/domain/errs"
)

const (
	// DefaultPaginationLimit applies when a caller passes limit 0.
	DefaultPaginationLimit = 50

	// MaxPaginationLimit caps any requested page size.
	MaxPaginationLimit = 100
)

// HandleMongoError converts a MongoDB error into a domain error:
//   - nil stays nil
//   - mongo.ErrNoDocuments becomes errs.ErrNotFound
//   - duplicate key violations become errs.ErrAlreadyExists
//   - anything else is wrapped with the resource type
func HandleMongoError(err error, resourceType string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return errs.ErrNotFound
	}

	if mongo.IsDuplicateKeyError(err) {
		return errs.ErrAlreadyExists
	}

	return fmt.Errorf("failed to operate on %s: %w", resourceType, err)
}

// NormalizeLimit applies the default and the cap to a requested limit.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultPaginationLimit
	}
	if limit > MaxPaginationLimit {
		return MaxPaginationLimit
	}
	return limit
}

// FindWithPagination returns find options with sort, skip and limit set.
// sortOrder is 1 for ascending, -1 for descending; _id breaks ties so
// pages stay stable across requests.
func FindWithPagination(offset, limit int, sortField string, sortOrder int) *options.FindOptionsBuilder {
	return options.Find().
		SetSort(bson.D{{Key: sortField, Value: sortOrder}, {Key: "_id", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
}

// CountFilter counts documents matching the filter.
func CountFilter(ctx context.Context, coll *mongo.Collection, filter bson.M) (int, error) {
	count, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// decodeAll drains a cursor, converting each document with the decoder.
// Documents that fail to decode or convert are skipped.
func decodeAll[T any, R any](
	ctx context.Context,
	cursor *mongo.Cursor,
	decoder func(*T) (R, error),
) ([]R, error) {
	defer cursor.Close(ctx)

	results := make([]R, 0)
	for cursor.Next(ctx) {
		var doc T
		if decodeErr := cursor.Decode(&doc); decodeErr != nil {
			continue
		}

		item, convErr := decoder(&doc)
		if convErr != nil {
			continue
		}

		results = append(results, item)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return results, nil
}

// usernamesByID loads a username lookup table for the given user IDs.
// Unknown IDs are simply absent from the map.
func usernamesByID(ctx context.Context, users *mongo.Collection, ids []string) (map[string]string, error) {
	if len(ids) == 0 {
		return map[string]string{}, nil
	}

	cursor, err := users.Find(ctx, bson.M{"user_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, HandleMongoError(err, "users")
	}
	defer cursor.Close(ctx)

	names := make(map[string]string, len(ids))
	for cursor.Next(ctx) {
		var doc struct {
			UserID   string `bson:"user_id"`
			Username string `bson:"username"`
		}
		if decodeErr := cursor.Decode(&doc); decodeErr != nil {
			continue
		}
		names[doc.UserID] = doc.Username
	}

	if err = cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return names, nil
}
