package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civilconnect/marketplace/backend/internal/models"
)

type sentEmail struct {
	to      string
	subject string
	html    string
}

type fakeEmailSender struct {
	sent []sentEmail
	err  error
}

func (f *fakeEmailSender) SendEmail(_ context.Context, to, subject, html string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, sentEmail{to: to, subject: subject, html: html})
	return "msg_test", nil
}

type sentSMS struct {
	to   string
	body string
}

type fakeSMSSender struct {
	sent []sentSMS
	err  error
}

func (f *fakeSMSSender) SendSMS(to, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentSMS{to: to, body: body})
	return nil
}

type fakeNotificationRepo struct {
	rows []models.Notification
	err  error
}

func (f *fakeNotificationRepo) CreateNotification(n *models.Notification) error {
	if f.err != nil {
		return f.err
	}
	n.ID = uint(len(f.rows) + 1)
	f.rows = append(f.rows, *n)
	return nil
}

func (f *fakeNotificationRepo) GetByUserID(userID uint, page, limit int) ([]models.Notification, int64, error) {
	return nil, 0, nil
}
func (f *fakeNotificationRepo) GetUnreadCount(userID uint) (int64, error) { return 0, nil }

func (f *fakeNotificationRepo) MarkAsRead(notificationID, userID uint) error { return nil }

func (f *fakeNotificationRepo) MarkAllAsRead(userID uint) error { return nil }

func newTestNotifier() (*Notifier, *fakeNotificationRepo, *fakeEmailSender, *fakeSMSSender) {
	repo := &fakeNotificationRepo{}
	email := &fakeEmailSender{}
	sms := &fakeSMSSender{}
	return NewNotifier(repo, email, sms), repo, email, sms
}

func TestConnectionEventAllChannels(t *testing.T) {
	notifier, repo, email, sms := newTestNotifier()

	actor := &models.User{ID: 1, FullName: "Alice Mason"}
	recipient := &models.User{ID: 2, FullName: "Bob Carter", Email: "bob@example.com", Phone: "+15550001111"}

	notifier.ConnectionEvent(context.Background(), recipient, EventRequest, actor)

	require.Len(t, repo.rows, 1)
	row := repo.rows[0]
	assert.Equal(t, uint(2), row.UserID)
	assert.Equal(t, uint(1), row.ActorID)
	assert.Equal(t, models.NotificationConnectionRequest, row.Type)
	assert.Equal(t, "Alice Mason wants to connect with you", row.Message)
	assert.False(t, row.Read)

	require.Len(t, email.sent, 1)
	assert.Equal(t, "bob@example.com", email.sent[0].to)
	assert.Equal(t, "New Connection Request", email.sent[0].subject)

	require.Len(t, sms.sent, 1)
	assert.Equal(t, "+15550001111", sms.sent[0].to)
	assert.Contains(t, sms.sent[0].body, "Alice Mason")
}

func TestConnectionEventSkipsEmptyChannels(t *testing.T) {
	notifier, repo, email, sms := newTestNotifier()

	actor := &models.User{ID: 1, FullName: "Alice Mason"}
	recipient := &models.User{ID: 2, FullName: "Bob Carter"} // no email, no phone

	notifier.ConnectionEvent(context.Background(), recipient, EventAccepted, actor)

	// In-app always fires; outbound channels only with an address.
	assert.Len(t, repo.rows, 1)
	assert.Empty(t, email.sent)
	assert.Empty(t, sms.sent)
	assert.Equal(t, models.NotificationConnectionAccepted, repo.rows[0].Type)
	assert.Equal(t, "Alice Mason accepted your connection request", repo.rows[0].Message)
}

func TestChannelFailuresAreIsolated(t *testing.T) {
	repo := &fakeNotificationRepo{}
	email := &fakeEmailSender{err: errors.New("provider down")}
	sms := &fakeSMSSender{}
	notifier := NewNotifier(repo, email, sms)

	actor := &models.User{ID: 1, FullName: "Alice Mason"}
	recipient := &models.User{ID: 2, FullName: "Bob Carter", Email: "bob@example.com", Phone: "+15550001111"}

	notifier.ConnectionEvent(context.Background(), recipient, EventRequest, actor)

	// Email failing must not block the in-app row or the SMS.
	assert.Len(t, repo.rows, 1)
	assert.Len(t, sms.sent, 1)
}

func TestNewMessageUsesTruncatedPreview(t *testing.T) {
	notifier, repo, email, _ := newTestNotifier()

	actor := &models.User{ID: 1, FullName: "Alice Mason"}
	recipient := &models.User{ID: 2, FullName: "Bob Carter", Email: "bob@example.com"}
	body := "This is a sufficiently long message exceeding fifty characters for truncation testing"

	notifier.NewMessage(context.Background(), recipient, actor, body, 7)

	require.Len(t, repo.rows, 1)
	row := repo.rows[0]
	assert.Equal(t, models.NotificationNewMessage, row.Type)
	assert.Equal(t, "Alice Mason: This is a sufficiently long message exceeding fift...", row.Message)
	assert.Equal(t, "/chat/7", row.Link)

	// The email carries its own subject and the untruncated body.
	require.Len(t, email.sent, 1)
	assert.Equal(t, "New Message on CivilConnect", email.sent[0].subject)
	assert.Contains(t, email.sent[0].html, body)
}

func TestTruncatePreview(t *testing.T) {
	// Under the limit: untouched, no ellipsis.
	assert.Equal(t, "hello", TruncatePreview("hello"))

	// Exactly at the limit: untouched.
	exact := ""
	for i := 0; i < 50; i++ {
		exact += "a"
	}
	assert.Equal(t, exact, TruncatePreview(exact))

	// One over: cut with ellipsis.
	assert.Equal(t, exact+"...", TruncatePreview(exact+"b"))
}

func TestTruncatePreviewMultibyte(t *testing.T) {
	long := ""
	for i := 0; i < 60; i++ {
		long += "é"
	}
	got := TruncatePreview(long)
	runes := []rune(got)
	assert.Len(t, runes, 53)
	assert.Equal(t, "...", string(runes[50:]))
}
