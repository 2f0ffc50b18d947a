package conversationrepo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zelican/chat-api/internal/domain/chat"
	"github.com/zelican/chat-api/internal/infrastructure/metrics"
	"github.com/zelican/chat-api/internal/utils/platformerrors"
)

// recordOp counts one store operation on the metrics registry. Used via
// defer with the method's named error result.
func recordOp(operation string, err *error) {
	status := "success"
	if *err != nil {
		status = "error"
	}
	metrics.RecordStoreOperation(operation, status)
}

const collectionName = "conversations"

// MongoConversationRepository persists conversations as single documents
// with an embedded message array.
type MongoConversationRepository struct {
	coll *mongo.Collection
}

var _ chat.Repository = (*MongoConversationRepository)(nil)

func NewMongoConversationRepository(db *mongo.Database) *MongoConversationRepository {
	return &MongoConversationRepository{coll: db.Collection(collectionName)}
}

// EnsureIndexes creates the indexes the query paths rely on. Safe to call
// on every startup.
func (r *MongoConversationRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "conversationId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "isActive", Value: 1},
				{Key: "isDeleted", Value: 1},
			},
		},
		{
			Keys: bson.D{{Key: "updatedAt", Value: -1}},
		},
	})
	return err
}

// visibleFilter scopes a query to conversations the user is allowed to
// see. Ownership failures and true absence are indistinguishable.
func visibleFilter(userID string) bson.M {
	return bson.M{
		"userId":    userID,
		"isActive":  true,
		"isDeleted": false,
	}
}

func visibleByID(userID, conversationID string) bson.M {
	filter := visibleFilter(userID)
	filter["conversationId"] = conversationID
	return filter
}

// ownedByID matches any non-deleted conversation of the user, active or
// not. Updates go through this filter so a deactivated conversation can
// still be retitled or reactivated.
func ownedByID(userID, conversationID string) bson.M {
	return bson.M{
		"userId":         userID,
		"conversationId": conversationID,
		"isDeleted":      false,
	}
}

func (r *MongoConversationRepository) List(ctx context.Context, userID string, page, limit int) (_ *chat.ConversationPage, err error) {
	defer recordOp("list", &err)
	filter := visibleFilter(userID)

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, r.dbError(ctx, err, "failed to count conversations")
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "updatedAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, r.dbError(ctx, err, "failed to list conversations")
	}
	defer cursor.Close(ctx)

	conversations := make([]*chat.Conversation, 0, limit)
	if err := cursor.All(ctx, &conversations); err != nil {
		return nil, r.dbError(ctx, err, "failed to decode conversations")
	}

	return &chat.ConversationPage{Conversations: conversations, Total: total}, nil
}

func (r *MongoConversationRepository) GetByID(ctx context.Context, userID, conversationID string) (_ *chat.Conversation, err error) {
	defer recordOp("get", &err)
	var conv chat.Conversation
	err = r.coll.FindOne(ctx, visibleByID(userID, conversationID)).Decode(&conv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, r.notFound(ctx)
	}
	if err != nil {
		return nil, r.dbError(ctx, err, "failed to get conversation")
	}
	return &conv, nil
}

func (r *MongoConversationRepository) Create(ctx context.Context, conversation *chat.Conversation) (err error) {
	defer recordOp("create", &err)
	if _, err := r.coll.InsertOne(ctx, conversation); err != nil {
		return r.dbError(ctx, err, "failed to create conversation")
	}
	return nil
}

// AppendMessage pushes onto the embedded array in a single atomic update,
// so concurrent appends interleave instead of overwriting each other.
func (r *MongoConversationRepository) AppendMessage(ctx context.Context, userID, conversationID string, message chat.Message) (_ *chat.Conversation, err error) {
	defer recordOp("append_message", &err)
	update := bson.M{
		"$push": bson.M{"messages": message},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var conv chat.Conversation
	err = r.coll.FindOneAndUpdate(ctx, visibleByID(userID, conversationID), update, opts).Decode(&conv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, r.notFound(ctx)
	}
	if err != nil {
		return nil, r.dbError(ctx, err, "failed to append message")
	}
	return &conv, nil
}

func (r *MongoConversationRepository) Update(ctx context.Context, userID, conversationID string, update chat.ConversationUpdate) (_ *chat.Conversation, err error) {
	defer recordOp("update", &err)
	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.IsActive != nil {
		set["isActive"] = *update.IsActive
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var conv chat.Conversation
	err = r.coll.FindOneAndUpdate(ctx, ownedByID(userID, conversationID), bson.M{"$set": set}, opts).Decode(&conv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, r.notFound(ctx)
	}
	if err != nil {
		return nil, r.dbError(ctx, err, "failed to update conversation")
	}
	return &conv, nil
}

// SoftDelete tombstones a conversation. The isDeleted guard in the filter
// makes a second delete of the same conversation report not found.
func (r *MongoConversationRepository) SoftDelete(ctx context.Context, userID, conversationID string) (err error) {
	defer recordOp("soft_delete", &err)
	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"isActive":  false,
		"isDeleted": true,
		"deletedAt": now,
		"updatedAt": now,
	}}

	err = r.coll.FindOneAndUpdate(ctx, ownedByID(userID, conversationID), update).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return r.notFound(ctx)
	}
	if err != nil {
		return r.dbError(ctx, err, "failed to delete conversation")
	}
	return nil
}

// PurgeDeleted hard deletes tombstones older than the cutoff.
func (r *MongoConversationRepository) PurgeDeleted(ctx context.Context, olderThan time.Time) (_ int64, err error) {
	defer recordOp("purge", &err)
	filter := bson.M{
		"isDeleted": true,
		"deletedAt": bson.M{"$lt": olderThan},
	}
	result, err := r.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, r.dbError(ctx, err, "failed to purge deleted conversations")
	}
	return result.DeletedCount, nil
}

func (r *MongoConversationRepository) notFound(ctx context.Context) *platformerrors.PlatformError {
	return platformerrors.NewError(ctx, platformerrors.LayerRepository,
		platformerrors.ErrorTypeNotFound, "Conversation not found", nil, "")
}

func (r *MongoConversationRepository) dbError(ctx context.Context, err error, message string) *platformerrors.PlatformError {
	return platformerrors.NewError(ctx, platformerrors.LayerRepository,
		platformerrors.ErrorTypeDatabase, message, err, "")
}
