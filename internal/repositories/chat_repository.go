package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/civilconnect/marketplace/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ChatRepository defines the interface for chat message storage
type ChatRepository interface {
	CreateMessage(ctx context.Context, msg *models.ChatMessage) error
	GetMessagesByConnection(ctx context.Context, connectionID uint) ([]models.ChatMessage, error)
	MarkMessagesRead(ctx context.Context, connectionID, readerID uint) error
	CountUnread(ctx context.Context, connectionID, readerID uint) (int64, error)
}

// MongoChatRepository implements ChatRepository for MongoDB
type MongoChatRepository struct {
	collection *mongo.Collection
}

// NewMongoChatRepository creates a new MongoChatRepository
func NewMongoChatRepository(db *mongo.Database) *MongoChatRepository {
	return &MongoChatRepository{collection: db.Collection("chat_messages")}
}

// CreateMessage persists a new message. Messages are immutable once
// written.
func (r *MongoChatRepository) CreateMessage(ctx context.Context, msg *models.ChatMessage) error {
	msg.ID = primitive.NewObjectID()
	msg.CreatedAt = time.Now()
	if _, err := r.collection.InsertOne(ctx, msg); err != nil {
		return fmt.Errorf("insert chat message: %w", err)
	}
	return nil
}

// GetMessagesByConnection returns the full ordered history for a
// connection, oldest first. Live-feed subscribers re-fetch this list on
// every change event, which tolerates duplicate and out-of-order
// delivery.
func (r *MongoChatRepository) GetMessagesByConnection(ctx context.Context, connectionID uint) ([]models.ChatMessage, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"connection_id": connectionID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	messages := []models.ChatMessage{}
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkMessagesRead marks every message addressed to readerID in the
// connection as read.
func (r *MongoChatRepository) MarkMessagesRead(ctx context.Context, connectionID, readerID uint) error {
	filter := bson.M{"connection_id": connectionID, "receiver_id": readerID, "read": false}
	_, err := r.collection.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"read": true}})
	return err
}

func (r *MongoChatRepository) CountUnread(ctx context.Context, connectionID, readerID uint) (int64, error) {
	filter := bson.M{"connection_id": connectionID, "receiver_id": readerID, "read": false}
	return r.collection.CountDocuments(ctx, filter)
}
