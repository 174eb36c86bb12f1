package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civilconnect/marketplace/backend/internal/models"
)

func seedNotification(t *testing.T, repo NotificationRepository, userID uint, kind string) *models.Notification {
	t.Helper()
	n := &models.Notification{UserID: userID, Type: kind, Title: "Test", Message: "test message"}
	require.NoError(t, repo.CreateNotification(n))
	return n
}

func TestGetUnreadCount(t *testing.T) {
	repo := NewPostgresNotificationRepository(newTestDB(t))

	seedNotification(t, repo, 1, models.NotificationConnectionRequest)
	seedNotification(t, repo, 1, models.NotificationNewMessage)
	seedNotification(t, repo, 2, models.NotificationNewMessage)

	count, err := repo.GetUnreadCount(1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestMarkAsReadScopedToOwner(t *testing.T) {
	repo := NewPostgresNotificationRepository(newTestDB(t))

	n := seedNotification(t, repo, 1, models.NotificationConnectionRequest)

	// Another user cannot clear it.
	require.NoError(t, repo.MarkAsRead(n.ID, 2))
	count, err := repo.GetUnreadCount(1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// The owner can.
	require.NoError(t, repo.MarkAsRead(n.ID, 1))
	count, err = repo.GetUnreadCount(1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestMarkAllAsRead(t *testing.T) {
	repo := NewPostgresNotificationRepository(newTestDB(t))

	seedNotification(t, repo, 1, models.NotificationConnectionRequest)
	seedNotification(t, repo, 1, models.NotificationNewMessage)
	seedNotification(t, repo, 2, models.NotificationNewMessage)

	require.NoError(t, repo.MarkAllAsRead(1))

	count, err := repo.GetUnreadCount(1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// User 2 is untouched.
	count, err = repo.GetUnreadCount(2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGetByUserIDPagination(t *testing.T) {
	repo := NewPostgresNotificationRepository(newTestDB(t))

	for i := 0; i < 5; i++ {
		seedNotification(t, repo, 1, models.NotificationSystem)
	}

	page1, total, err := repo.GetByUserID(1, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, page1, 3)

	page2, total, err := repo.GetByUserID(1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, page2, 2)
}
