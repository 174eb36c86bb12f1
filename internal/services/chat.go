package services

import (
	"context"
	"errors"
	"log"

	"github.com/civilconnect/marketplace/backend/internal/models"
	"github.com/civilconnect/marketplace/backend/internal/repositories"
)

// Chat gating errors.
var (
	ErrConnectionNotAccepted = errors.New("connection is not accepted yet")
	ErrNotParticipant        = errors.New("you are not a participant of this connection")
)

// ChatService owns the server-side gating around chat messages: only
// participants of an accepted connection may read or write. After a
// successful send it fans out the live-feed event and the new-message
// notification.
type ChatService struct {
	messages    repositories.ChatRepository
	connections repositories.ConnectionRepository
	users       repositories.UserRepository
	notifier    *Notifier
	hub         *WSHub
}

// NewChatService creates a new ChatService
func NewChatService(
	messages repositories.ChatRepository,
	connections repositories.ConnectionRepository,
	users repositories.UserRepository,
	notifier *Notifier,
	hub *WSHub,
) *ChatService {
	return &ChatService{
		messages:    messages,
		connections: connections,
		users:       users,
		notifier:    notifier,
		hub:         hub,
	}
}

// authorize loads the connection and checks the caller belongs to it.
func (s *ChatService) authorize(connectionID, userID uint) (*models.Connection, error) {
	conn, err := s.connections.GetConnectionByID(connectionID)
	if err != nil {
		return nil, err
	}
	if conn.RequesterID != userID && conn.RecipientID != userID {
		return nil, ErrNotParticipant
	}
	return conn, nil
}

// SendMessage persists one message in an accepted connection and then
// notifies the receiver. The notification and live-feed deliveries are
// best-effort; the message is already durable by the time they fire.
func (s *ChatService) SendMessage(ctx context.Context, connectionID, senderID uint, req models.SendMessageRequest) (*models.ChatMessage, error) {
	conn, err := s.authorize(connectionID, senderID)
	if err != nil {
		return nil, err
	}
	if conn.Status != models.ConnectionAccepted {
		return nil, ErrConnectionNotAccepted
	}

	receiverID := conn.RequesterID
	if receiverID == senderID {
		receiverID = conn.RecipientID
	}

	msg := &models.ChatMessage{
		ConnectionID:   connectionID,
		SenderID:       senderID,
		ReceiverID:     receiverID,
		Message:        req.Message,
		AttachmentURL:  req.AttachmentURL,
		AttachmentType: req.AttachmentType,
	}
	if err := s.messages.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	s.hub.BroadcastNewMessage(connectionID, conn.RequesterID, conn.RecipientID)

	sender, err := s.users.GetUserByID(senderID)
	if err != nil {
		log.Printf("[chat] sender %d lookup failed, skipping notification: %v", senderID, err)
		return msg, nil
	}
	receiver, err := s.users.GetUserByID(receiverID)
	if err != nil {
		log.Printf("[chat] receiver %d lookup failed, skipping notification: %v", receiverID, err)
		return msg, nil
	}
	s.notifier.NewMessage(ctx, receiver, sender, msg.Message, connectionID)

	return msg, nil
}

// GetMessages returns the full ordered history, oldest first.
func (s *ChatService) GetMessages(ctx context.Context, connectionID, userID uint) ([]models.ChatMessage, error) {
	if _, err := s.authorize(connectionID, userID); err != nil {
		return nil, err
	}
	return s.messages.GetMessagesByConnection(ctx, connectionID)
}

// MarkRead marks every message addressed to the caller as read.
func (s *ChatService) MarkRead(ctx context.Context, connectionID, userID uint) error {
	if _, err := s.authorize(connectionID, userID); err != nil {
		return err
	}
	return s.messages.MarkMessagesRead(ctx, connectionID, userID)
}
