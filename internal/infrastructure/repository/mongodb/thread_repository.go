package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	threadapp "github.com/couriermsg/courier/internal/application/thread"
	"github.com/couriermsg/courier/internal/domain/errs"
	threaddomain "github.com/couriermsg/courier/internal/domain/thread"
	"github.com/couriermsg/courier/internal/domain/uuid"
)

// MongoThreadRepository implements threadapp.Repository. It reads the
// messages collection to compute last message times and the users
// collection to hydrate participant usernames.
type MongoThreadRepository struct {
	threads  *mongo.Collection
	messages *mongo.Collection
	users    *mongo.Collection
	logger   *slog.Logger
}

// ThreadRepoOption configures MongoThreadRepository.
type ThreadRepoOption func(*MongoThreadRepository)

// WithThreadRepoLogger sets the logger for the thread repository.
func WithThreadRepoLogger(logger *slog.Logger) ThreadRepoOption {
	return func(r *MongoThreadRepository) {
		r.logger = logger
	}
}

// NewMongoThreadRepository creates a new MongoDB thread repository.
func NewMongoThreadRepository(
	threads, messages, users *mongo.Collection,
	opts ...ThreadRepoOption,
) *MongoThreadRepository {
	r := &MongoThreadRepository{
		threads:  threads,
		messages: messages,
		users:    users,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// FindByParticipantPair returns the hydrated thread for the unordered
// pair, or errs.ErrNotFound.
func (r *MongoThreadRepository) FindByParticipantPair(
	ctx context.Context,
	a, b uuid.UUID,
) (*threadapp.Thread, error) {
	if a.IsZero() || b.IsZero() {
		return nil, errs.ErrInvalidInput
	}

	var doc threadDocument
	err := r.threads.FindOne(ctx, bson.M{"pair_key": threaddomain.PairKey(a, b)}).Decode(&doc)
	if err != nil {
		return nil, HandleMongoError(err, "thread")
	}

	return r.hydrateOne(ctx, &doc)
}

// Create inserts the thread for the pair. The unique pair_key index
// resolves races: when a concurrent insert wins, the existing thread is
// returned instead of a duplicate.
func (r *MongoThreadRepository) Create(ctx context.Context, a, b uuid.UUID) (*threadapp.Thread, error) {
	t, err := threaddomain.NewThread(a, b)
	if err != nil {
		return nil, err
	}

	_, err = r.threads.InsertOne(ctx, r.threadToDocument(t))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return r.FindByParticipantPair(ctx, a, b)
		}
		r.logger.ErrorContext(ctx, "failed to create thread",
			slog.String("thread_id", t.ID().String()),
			slog.String("error", err.Error()),
		)
		return nil, HandleMongoError(err, "thread")
	}

	return r.hydrateOne(ctx, &threadDocument{
		ThreadID:     t.ID().String(),
		Participants: []string{t.Participants()[0].String(), t.Participants()[1].String()},
		PairKey:      t.PairKey(),
		CreatedAt:    t.CreatedAt(),
		UpdatedAt:    t.UpdatedAt(),
	})
}

// DeleteOwned deletes the thread and its messages in one transaction,
// but only when the user is a participant. An absent thread and a
// non-member caller are indistinguishable: both yield errs.ErrNotFound.
func (r *MongoThreadRepository) DeleteOwned(ctx context.Context, threadID, participantID uuid.UUID) error {
	if threadID.IsZero() || participantID.IsZero() {
		return errs.ErrInvalidInput
	}

	filter := bson.M{
		"thread_id":    threadID.String(),
		"participants": participantID.String(),
	}

	session, err := r.threads.Database().Client().StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(txCtx context.Context) (any, error) {
		result, deleteErr := r.threads.DeleteOne(txCtx, filter)
		if deleteErr != nil {
			return nil, HandleMongoError(deleteErr, "thread")
		}
		if result.DeletedCount == 0 {
			return nil, errs.ErrNotFound
		}

		if _, deleteErr = r.messages.DeleteMany(txCtx, bson.M{"thread_id": threadID.String()}); deleteErr != nil {
			return nil, HandleMongoError(deleteErr, "messages")
		}

		return nil, nil
	})
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return errs.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "failed to delete thread",
			slog.String("thread_id", threadID.String()),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to delete thread: %w", err)
	}

	return nil
}

// Find returns the filtered, ordered, paginated thread page. Ordering by
// last_message_sent_at runs through an aggregation that joins the
// messages collection; threads without messages sort as if their last
// message were infinitely far in the future, so they land last
// ascending and first descending.
func (r *MongoThreadRepository) Find(ctx context.Context, f threadapp.Filters) ([]threadapp.Thread, error) {
	limit := NormalizeLimit(f.Limit)

	sortOrder := 1
	if f.Ordering.Descending() {
		sortOrder = -1
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: r.filterToMatch(f)}},
	}
	pipeline = append(pipeline, lastMessageLookupStages()...)

	sortField := f.Ordering.Field()
	if sortField == "last_message_sent_at" {
		// MongoDB sorts null lowest, which would put message-less
		// threads at the wrong end. Substitute a far-future sentinel
		// for the sort only; the returned field stays null.
		pipeline = append(pipeline, bson.D{{Key: "$addFields", Value: bson.M{
			"last_message_sort_key": bson.M{
				"$ifNull": bson.A{"$last_message_sent_at", noMessagesSortTime},
			},
		}}})
		sortField = "last_message_sort_key"
	}

	pipeline = append(pipeline,
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: sortField, Value: sortOrder},
			{Key: "_id", Value: 1},
		}}},
		bson.D{{Key: "$skip", Value: int64(f.Offset)}},
		bson.D{{Key: "$limit", Value: int64(limit)}},
	)

	cursor, err := r.threads.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, HandleMongoError(err, "threads")
	}

	docs, err := decodeAll(ctx, cursor, func(doc *threadDocument) (*threadDocument, error) {
		return doc, nil
	})
	if err != nil {
		return nil, err
	}

	return r.hydrateAll(ctx, docs)
}

// Count returns the number of threads matching the filter.
func (r *MongoThreadRepository) Count(ctx context.Context, f threadapp.Filters) (int, error) {
	count, err := CountFilter(ctx, r.threads, r.filterToMatch(f))
	if err != nil {
		return 0, HandleMongoError(err, "threads")
	}
	return count, nil
}

func (r *MongoThreadRepository) filterToMatch(f threadapp.Filters) bson.M {
	match := bson.M{}
	if len(f.ParticipantIDs) > 0 {
		ids := make([]string, len(f.ParticipantIDs))
		for i, id := range f.ParticipantIDs {
			ids[i] = id.String()
		}
		match["participants"] = bson.M{"$in": ids}
	}
	return match
}

// noMessagesSortTime stands in for last_message_sent_at when a thread
// has no messages, so those threads sort after every real timestamp.
var noMessagesSortTime = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

// lastMessageLookupStages joins each thread with the max created_at of
// its messages under the last_message_sent_at field.
func lastMessageLookupStages() []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.M{
			"from": "messages",
			"let":  bson.M{"tid": "$thread_id"},
			"pipeline": mongo.Pipeline{
				bson.D{{Key: "$match", Value: bson.M{
					"$expr": bson.M{"$eq": bson.A{"$thread_id", "$$tid"}},
				}}},
				bson.D{{Key: "$group", Value: bson.M{
					"_id":     nil,
					"last_at": bson.M{"$max": "$created_at"},
				}}},
			},
			"as": "last_message",
		}}},
		{{Key: "$addFields", Value: bson.M{
			"last_message_sent_at": bson.M{
				"$ifNull": bson.A{
					bson.M{"$first": "$last_message.last_at"},
					nil,
				},
			},
		}}},
		{{Key: "$project", Value: bson.M{"last_message": 0}}},
	}
}

// threadDocument is the threads collection document shape. The
// last_message_sent_at field only exists on aggregation output.
type threadDocument struct {
	ThreadID          string     `bson:"thread_id"`
	Participants      []string   `bson:"participants"`
	PairKey           string     `bson:"pair_key"`
	CreatedAt         time.Time  `bson:"created_at"`
	UpdatedAt         time.Time  `bson:"updated_at"`
	LastMessageSentAt *time.Time `bson:"last_message_sent_at,omitempty"`
}

func (r *MongoThreadRepository) threadToDocument(t *threaddomain.Thread) threadDocument {
	return threadDocument{
		ThreadID:     t.ID().String(),
		Participants: []string{t.Participants()[0].String(), t.Participants()[1].String()},
		PairKey:      t.PairKey(),
		CreatedAt:    t.CreatedAt(),
		UpdatedAt:    t.UpdatedAt(),
	}
}

// hydrateOne loads the last message time and usernames for a single
// thread outside of an aggregation.
func (r *MongoThreadRepository) hydrateOne(ctx context.Context, doc *threadDocument) (*threadapp.Thread, error) {
	if doc.LastMessageSentAt == nil {
		lastAt, err := r.lastMessageTime(ctx, doc.ThreadID)
		if err != nil {
			return nil, err
		}
		doc.LastMessageSentAt = lastAt
	}

	hydrated, err := r.hydrateAll(ctx, []*threadDocument{doc})
	if err != nil {
		return nil, err
	}
	if len(hydrated) == 0 {
		return nil, errs.ErrNotFound
	}

	return &hydrated[0], nil
}

func (r *MongoThreadRepository) lastMessageTime(ctx context.Context, threadID string) (*time.Time, error) {
	opts := FindWithPagination(0, 1, "created_at", -1)
	cursor, err := r.messages.Find(ctx, bson.M{"thread_id": threadID}, opts)
	if err != nil {
		return nil, HandleMongoError(err, "messages")
	}
	defer cursor.Close(ctx)

	if cursor.Next(ctx) {
		var doc struct {
			CreatedAt time.Time `bson:"created_at"`
		}
		if decodeErr := cursor.Decode(&doc); decodeErr == nil {
			return &doc.CreatedAt, nil
		}
	}
	if err = cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return nil, nil
}

// hydrateAll converts documents to read models, resolving participant
// usernames in one batch. Participants are sorted by username ascending.
func (r *MongoThreadRepository) hydrateAll(ctx context.Context, docs []*threadDocument) ([]threadapp.Thread, error) {
	idSet := make(map[string]struct{})
	for _, doc := range docs {
		for _, p := range doc.Participants {
			idSet[p] = struct{}{}
		}
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	names, err := usernamesByID(ctx, r.users, ids)
	if err != nil {
		return nil, err
	}

	threads := make([]threadapp.Thread, 0, len(docs))
	for _, doc := range docs {
		t, convErr := documentToThread(doc, names)
		if convErr != nil {
			continue
		}
		threads = append(threads, *t)
	}

	return threads, nil
}

func documentToThread(doc *threadDocument, names map[string]string) (*threadapp.Thread, error) {
	id, err := uuid.ParseUUID(doc.ThreadID)
	if err != nil {
		return nil, errs.ErrInvalidInput
	}

	participants := make([]threadapp.Participant, 0, len(doc.Participants))
	for _, raw := range doc.Participants {
		pid, parseErr := uuid.ParseUUID(raw)
		if parseErr != nil {
			return nil, errs.ErrInvalidInput
		}
		participants = append(participants, threadapp.Participant{
			ID:       pid,
			Username: names[raw],
		})
	}
	sort.Slice(participants, func(i, j int) bool {
		return participants[i].Username < participants[j].Username
	})

	return &threadapp.Thread{
		ID:                id,
		Participants:      participants,
		CreatedAt:         doc.CreatedAt,
		UpdatedAt:         doc.UpdatedAt,
		LastMessageSentAt: doc.LastMessageSentAt,
	}, nil
}
