package mongodb

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	messageapp "github.com/couriermsg/courier/internal/application/message"
	"github.com/couriermsg/courier/internal/domain/errs"
	messagedomain "github.com/couriermsg/courier/internal/domain/message"
	"github.com/couriermsg/courier/internal/domain/uuid"
)

// MongoMessageRepository implements messageapp.Repository. It reads the
// threads collection for membership checks and the users collection to
// hydrate sender usernames.
type MongoMessageRepository struct {
	messages *mongo.Collection
	threads  *mongo.Collection
	users    *mongo.Collection
	logger   *slog.Logger
}

// MessageRepoOption configures MongoMessageRepository.
type MessageRepoOption func(*MongoMessageRepository)

// WithMessageRepoLogger sets the logger for the message repository.
func WithMessageRepoLogger(logger *slog.Logger) MessageRepoOption {
	return func(r *MongoMessageRepository) {
		r.logger = logger
	}
}

// NewMongoMessageRepository creates a new MongoDB message repository.
func NewMongoMessageRepository(
	messages, threads, users *mongo.Collection,
	opts ...MessageRepoOption,
) *MongoMessageRepository {
	r := &MongoMessageRepository{
		messages: messages,
		threads:  threads,
		users:    users,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Create persists the message and bumps the thread's updated_at in one
// transaction. The membership check runs inside the transaction so a
// concurrent thread deletion cannot leave an orphaned message behind.
func (r *MongoMessageRepository) Create(
	ctx context.Context,
	msg *messagedomain.Message,
) (*messageapp.Message, error) {
	if msg == nil {
		return nil, errs.ErrInvalidInput
	}

	session, err := r.messages.Database().Client().StartSession()
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(txCtx context.Context) (any, error) {
		threadFilter := bson.M{
			"thread_id":    msg.ThreadID().String(),
			"participants": msg.SenderID().String(),
		}

		update := bson.M{"$set": bson.M{"updated_at": msg.CreatedAt()}}
		result, updateErr := r.threads.UpdateOne(txCtx, threadFilter, update)
		if updateErr != nil {
			return nil, HandleMongoError(updateErr, "thread")
		}
		if result.MatchedCount == 0 {
			// Absent thread and non-member sender collapse to the same
			// outcome.
			return nil, errs.ErrNotFound
		}

		if _, insertErr := r.messages.InsertOne(txCtx, r.messageToDocument(msg)); insertErr != nil {
			return nil, HandleMongoError(insertErr, "message")
		}

		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	return r.hydrate(ctx, msg)
}

// MarkRead flips is_read false to true for a qualifying reader. The
// filter carries every precondition except thread membership, which is
// checked first; the flip itself is a single atomic FindOneAndUpdate, so
// concurrent readers race for one success.
func (r *MongoMessageRepository) MarkRead(
	ctx context.Context,
	messageID, readerID uuid.UUID,
) (*messageapp.Message, error) {
	if messageID.IsZero() || readerID.IsZero() {
		return nil, errs.ErrInvalidInput
	}

	var existing messageDocument
	err := r.messages.FindOne(ctx, bson.M{"message_id": messageID.String()}).Decode(&existing)
	if err != nil {
		return nil, HandleMongoError(err, "message")
	}

	member, err := r.isParticipant(ctx, existing.ThreadID, readerID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, errs.ErrNotFound
	}

	filter := bson.M{
		"message_id": messageID.String(),
		"is_read":    false,
		"sender_id":  bson.M{"$ne": readerID.String()},
	}
	update := bson.M{"$set": bson.M{"is_read": true}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc messageDocument
	err = r.messages.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err != nil {
		return nil, HandleMongoError(err, "message")
	}

	return r.documentToHydratedMessage(ctx, &doc)
}

// Find returns the filtered, ordered, paginated page of a thread's
// messages.
func (r *MongoMessageRepository) Find(
	ctx context.Context,
	threadID uuid.UUID,
	f messageapp.Filters,
) ([]messageapp.Message, error) {
	if threadID.IsZero() {
		return nil, errs.ErrInvalidInput
	}

	limit := NormalizeLimit(f.Limit)

	sortOrder := 1
	if f.Ordering.Descending() {
		sortOrder = -1
	}
	opts := FindWithPagination(f.Offset, limit, "created_at", sortOrder)

	cursor, err := r.messages.Find(ctx, r.filterToMatch(threadID, f), opts)
	if err != nil {
		return nil, HandleMongoError(err, "messages")
	}

	docs, err := decodeAll(ctx, cursor, func(doc *messageDocument) (*messageDocument, error) {
		return doc, nil
	})
	if err != nil {
		return nil, err
	}

	return r.hydrateAll(ctx, docs)
}

// Count returns the number of messages matching the filter.
func (r *MongoMessageRepository) Count(
	ctx context.Context,
	threadID uuid.UUID,
	f messageapp.Filters,
) (int, error) {
	if threadID.IsZero() {
		return 0, errs.ErrInvalidInput
	}

	count, err := CountFilter(ctx, r.messages, r.filterToMatch(threadID, f))
	if err != nil {
		return 0, HandleMongoError(err, "messages")
	}
	return count, nil
}

// CountUnreadForUser counts unread messages authored by others across
// all of the user's threads. Each message lives in exactly one thread,
// so the count cannot double-count.
func (r *MongoMessageRepository) CountUnreadForUser(ctx context.Context, userID uuid.UUID) (int, error) {
	if userID.IsZero() {
		return 0, errs.ErrInvalidInput
	}

	var ids []string
	err := r.threads.Distinct(ctx, "thread_id", bson.M{"participants": userID.String()}).Decode(&ids)
	if err != nil {
		return 0, HandleMongoError(err, "threads")
	}
	if len(ids) == 0 {
		return 0, nil
	}

	filter := bson.M{
		"thread_id": bson.M{"$in": ids},
		"is_read":   false,
		"sender_id": bson.M{"$ne": userID.String()},
	}
	count, err := CountFilter(ctx, r.messages, filter)
	if err != nil {
		return 0, HandleMongoError(err, "messages")
	}

	return count, nil
}

func (r *MongoMessageRepository) filterToMatch(threadID uuid.UUID, f messageapp.Filters) bson.M {
	match := bson.M{"thread_id": threadID.String()}
	if f.Text != "" {
		// Case-insensitive substring containment; the needle is escaped
		// so filter text is never interpreted as a pattern.
		match["text"] = bson.M{"$regex": regexp.QuoteMeta(f.Text), "$options": "i"}
	}
	if !f.SenderID.IsZero() {
		match["sender_id"] = f.SenderID.String()
	}
	return match
}

func (r *MongoMessageRepository) isParticipant(ctx context.Context, threadID string, userID uuid.UUID) (bool, error) {
	filter := bson.M{
		"thread_id":    threadID,
		"participants": userID.String(),
	}
	count, err := r.threads.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, HandleMongoError(err, "thread")
	}
	return count > 0, nil
}

// messageDocument is the messages collection document shape.
type messageDocument struct {
	MessageID string    `bson:"message_id"`
	ThreadID  string    `bson:"thread_id"`
	SenderID  string    `bson:"sender_id"`
	Text      string    `bson:"text"`
	IsRead    bool      `bson:"is_read"`
	CreatedAt time.Time `bson:"created_at"`
}

func (r *MongoMessageRepository) messageToDocument(msg *messagedomain.Message) messageDocument {
	return messageDocument{
		MessageID: msg.ID().String(),
		ThreadID:  msg.ThreadID().String(),
		SenderID:  msg.SenderID().String(),
		Text:      msg.Text(),
		IsRead:    msg.IsRead(),
		CreatedAt: msg.CreatedAt(),
	}
}

func (r *MongoMessageRepository) hydrate(ctx context.Context, msg *messagedomain.Message) (*messageapp.Message, error) {
	doc := r.messageToDocument(msg)
	return r.documentToHydratedMessage(ctx, &doc)
}

func (r *MongoMessageRepository) documentToHydratedMessage(
	ctx context.Context,
	doc *messageDocument,
) (*messageapp.Message, error) {
	hydrated, err := r.hydrateAll(ctx, []*messageDocument{doc})
	if err != nil {
		return nil, err
	}
	if len(hydrated) == 0 {
		return nil, errs.ErrNotFound
	}
	return &hydrated[0], nil
}

// hydrateAll converts documents to read models, resolving sender
// usernames in one batch.
func (r *MongoMessageRepository) hydrateAll(
	ctx context.Context,
	docs []*messageDocument,
) ([]messageapp.Message, error) {
	idSet := make(map[string]struct{})
	for _, doc := range docs {
		idSet[doc.SenderID] = struct{}{}
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	names, err := usernamesByID(ctx, r.users, ids)
	if err != nil {
		return nil, err
	}

	messages := make([]messageapp.Message, 0, len(docs))
	for _, doc := range docs {
		msg, convErr := documentToMessage(doc, names)
		if convErr != nil {
			continue
		}
		messages = append(messages, *msg)
	}

	return messages, nil
}

func documentToMessage(doc *messageDocument, names map[string]string) (*messageapp.Message, error) {
	id, err := uuid.ParseUUID(doc.MessageID)
	if err != nil {
		return nil, errs.ErrInvalidInput
	}
	threadID, err := uuid.ParseUUID(doc.ThreadID)
	if err != nil {
		return nil, errs.ErrInvalidInput
	}
	senderID, err := uuid.ParseUUID(doc.SenderID)
	if err != nil {
		return nil, errs.ErrInvalidInput
	}

	return &messageapp.Message{
		ID:             id,
		ThreadID:       threadID,
		SenderID:       senderID,
		SenderUsername: names[doc.SenderID],
		Text:           doc.Text,
		IsRead:         doc.IsRead,
		CreatedAt:      doc.CreatedAt,
	}, nil
}
