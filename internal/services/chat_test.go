package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/civilconnect/marketplace/backend/internal/models"
	"github.com/civilconnect/marketplace/backend/internal/repositories"
)

type fakeChatRepo struct {
	messages []models.ChatMessage
}

func (f *fakeChatRepo) CreateMessage(_ context.Context, msg *models.ChatMessage) error {
	f.messages = append(f.messages, *msg)
	return nil
}

func (f *fakeChatRepo) GetMessagesByConnection(_ context.Context, connectionID uint) ([]models.ChatMessage, error) {
	out := []models.ChatMessage{}
	for _, m := range f.messages {
		if m.ConnectionID == connectionID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeChatRepo) MarkMessagesRead(_ context.Context, connectionID, readerID uint) error {
	for i := range f.messages {
		if f.messages[i].ConnectionID == connectionID && f.messages[i].ReceiverID == readerID {
			f.messages[i].Read = true
		}
	}
	return nil
}

func (f *fakeChatRepo) CountUnread(_ context.Context, connectionID, readerID uint) (int64, error) {
	var n int64
	for _, m := range f.messages {
		if m.ConnectionID == connectionID && m.ReceiverID == readerID && !m.Read {
			n++
		}
	}
	return n, nil
}

type fakeConnectionRepo struct {
	conns map[uint]*models.Connection
}

func (f *fakeConnectionRepo) CreateConnection(conn *models.Connection) error { return nil }

func (f *fakeConnectionRepo) GetConnectionByID(id uint) (*models.Connection, error) {
	conn, ok := f.conns[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return conn, nil
}

func (f *fakeConnectionRepo) GetConnectionBetween(userA, userB uint) (*models.Connection, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeConnectionRepo) GetPendingForRecipient(userID uint) ([]models.Connection, error) {
	return nil, nil
}

func (f *fakeConnectionRepo) GetConnectionsForUser(userID uint) ([]models.Connection, error) {
	return nil, nil
}

func (f *fakeConnectionRepo) UpdateStatus(id uint, status string) error { return nil }

type fakeUserRepo struct {
	users map[uint]*models.User
}

func (f *fakeUserRepo) CreateUser(user *models.User) error { return nil }

func (f *fakeUserRepo) UpsertByFirebaseUID(user *models.User) error { return nil }

func (f *fakeUserRepo) GetUserByID(id uint) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetUserByEmail(email string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetUserByFirebaseUID(firebaseUID string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetUsers(userType, city, query string) ([]models.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) UpdateUser(user *models.User) error { return nil }

func (f *fakeUserRepo) UpdatePassword(id uint, hashed string) error { return nil }

func (f *fakeUserRepo) DeleteUser(id uint) error { return nil }

func (f *fakeUserRepo) UpsertProfessionalProfile(p *models.ProfessionalProfile) error { return nil }

func (f *fakeUserRepo) GetProfessionalProfile(profileID uint) (*models.ProfessionalProfile, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) UpsertWorkerProfile(p *models.WorkerProfile) error { return nil }

func (f *fakeUserRepo) GetWorkerProfile(profileID uint) (*models.WorkerProfile, error) {
	return nil, gorm.ErrRecordNotFound
}

var _ repositories.ChatRepository = (*fakeChatRepo)(nil)
var _ repositories.ConnectionRepository = (*fakeConnectionRepo)(nil)
var _ repositories.UserRepository = (*fakeUserRepo)(nil)

func newChatFixture(status string) (*ChatService, *fakeChatRepo, *fakeNotificationRepo) {
	chatRepo := &fakeChatRepo{}
	connRepo := &fakeConnectionRepo{conns: map[uint]*models.Connection{
		1: {ID: 1, RequesterID: 10, RecipientID: 20, Status: status},
	}}
	userRepo := &fakeUserRepo{users: map[uint]*models.User{
		10: {ID: 10, FullName: "Alice Mason"},
		20: {ID: 20, FullName: "Bob Carter"},
	}}
	notifRepo := &fakeNotificationRepo{}
	notifier := NewNotifier(notifRepo, &fakeEmailSender{}, &fakeSMSSender{})
	svc := NewChatService(chatRepo, connRepo, userRepo, notifier, NewWSHub())
	return svc, chatRepo, notifRepo
}

func TestSendMessageOnAcceptedConnection(t *testing.T) {
	svc, chatRepo, notifRepo := newChatFixture(models.ConnectionAccepted)

	msg, err := svc.SendMessage(context.Background(), 1, 10, models.SendMessageRequest{Message: "hello"})
	require.NoError(t, err)
	assert.Equal(t, uint(20), msg.ReceiverID)
	assert.Len(t, chatRepo.messages, 1)

	// Receiver gets a new-message notification.
	require.Len(t, notifRepo.rows, 1)
	assert.Equal(t, uint(20), notifRepo.rows[0].UserID)
	assert.Equal(t, models.NotificationNewMessage, notifRepo.rows[0].Type)
}

func TestSendMessageRefusedWhilePending(t *testing.T) {
	svc, chatRepo, notifRepo := newChatFixture(models.ConnectionPending)

	_, err := svc.SendMessage(context.Background(), 1, 10, models.SendMessageRequest{Message: "hello"})
	assert.ErrorIs(t, err, ErrConnectionNotAccepted)

	// Nothing persisted, nothing notified.
	assert.Empty(t, chatRepo.messages)
	assert.Empty(t, notifRepo.rows)
}

func TestSendMessageRefusedForOutsider(t *testing.T) {
	svc, chatRepo, _ := newChatFixture(models.ConnectionAccepted)

	_, err := svc.SendMessage(context.Background(), 1, 99, models.SendMessageRequest{Message: "hello"})
	assert.ErrorIs(t, err, ErrNotParticipant)
	assert.Empty(t, chatRepo.messages)
}

func TestSendMessageUnknownConnection(t *testing.T) {
	svc, _, _ := newChatFixture(models.ConnectionAccepted)

	_, err := svc.SendMessage(context.Background(), 42, 10, models.SendMessageRequest{Message: "hello"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGetMessagesRequiresParticipation(t *testing.T) {
	svc, _, _ := newChatFixture(models.ConnectionAccepted)

	_, err := svc.GetMessages(context.Background(), 1, 99)
	assert.ErrorIs(t, err, ErrNotParticipant)

	msgs, err := svc.GetMessages(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestMarkReadOnlyTouchesReceiver(t *testing.T) {
	svc, chatRepo, _ := newChatFixture(models.ConnectionAccepted)

	_, err := svc.SendMessage(context.Background(), 1, 10, models.SendMessageRequest{Message: "one"})
	require.NoError(t, err)
	_, err = svc.SendMessage(context.Background(), 1, 20, models.SendMessageRequest{Message: "two"})
	require.NoError(t, err)

	require.NoError(t, svc.MarkRead(context.Background(), 1, 20))

	unreadForBob, err := chatRepo.CountUnread(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unreadForBob)

	unreadForAlice, err := chatRepo.CountUnread(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unreadForAlice)
}
