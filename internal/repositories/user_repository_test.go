package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civilconnect/marketplace/backend/internal/models"
)

func TestCreateUserPasswordOnlyAccounts(t *testing.T) {
	repo := NewPostgresUserRepository(newTestDB(t))

	// Local signups carry no Firebase UID; the nullable unique index
	// must not treat them as duplicates of each other.
	require.NoError(t, repo.CreateUser(&models.User{
		FullName: "Alice Mason", Email: "alice@example.com", UserType: models.RoleBuyer,
	}))
	require.NoError(t, repo.CreateUser(&models.User{
		FullName: "Bob Carter", Email: "bob@example.com", UserType: models.RoleContractor,
	}))
	require.NoError(t, repo.CreateUser(&models.User{
		FullName: "Cara Diaz", Email: "cara@example.com", UserType: models.RoleWorker,
	}))

	users, err := repo.GetUsers("", "", "")
	require.NoError(t, err)
	assert.Len(t, users, 3)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	repo := NewPostgresUserRepository(newTestDB(t))

	require.NoError(t, repo.CreateUser(&models.User{
		FullName: "Alice Mason", Email: "alice@example.com",
	}))
	err := repo.CreateUser(&models.User{
		FullName: "Impostor", Email: "alice@example.com",
	})
	assert.Error(t, err)
}

func TestUpsertByFirebaseUIDIsRetrySafe(t *testing.T) {
	repo := NewPostgresUserRepository(newTestDB(t))

	uid := "firebase-uid-1"
	require.NoError(t, repo.UpsertByFirebaseUID(&models.User{
		FullName: "Alice Mason", Email: "alice@example.com", UserType: models.RoleBuyer, FirebaseUID: &uid,
	}))
	require.NoError(t, repo.UpsertByFirebaseUID(&models.User{
		FullName: "Alice M.", Email: "alice@example.com", UserType: models.RoleBuyer, FirebaseUID: &uid,
	}))

	user, err := repo.GetUserByFirebaseUID(uid)
	require.NoError(t, err)
	assert.Equal(t, "Alice M.", user.FullName)

	users, err := repo.GetUsers("", "", "")
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestGetUsersFilters(t *testing.T) {
	repo := NewPostgresUserRepository(newTestDB(t))

	require.NoError(t, repo.CreateUser(&models.User{
		FullName: "Alice Mason", Email: "alice@example.com", UserType: models.RoleArchitect, City: "Pune",
	}))
	require.NoError(t, repo.CreateUser(&models.User{
		FullName: "Bob Carter", Email: "bob@example.com", UserType: models.RoleArchitect, City: "Mumbai",
	}))

	byCity, err := repo.GetUsers(models.RoleArchitect, "Pune", "")
	require.NoError(t, err)
	require.Len(t, byCity, 1)
	assert.Equal(t, "Alice Mason", byCity[0].FullName)

	bySearch, err := repo.GetUsers("", "", "bob")
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "Bob Carter", bySearch[0].FullName)
}
