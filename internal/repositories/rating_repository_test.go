package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civilconnect/marketplace/backend/internal/models"
)

func TestCreateRatingRejectsDuplicateTriple(t *testing.T) {
	repo := NewPostgresRatingRepository(newTestDB(t))

	rating := &models.Rating{RaterID: 1, RateeID: 2, ConnectionID: 10, Score: 5}
	require.NoError(t, repo.CreateRating(rating))

	err := repo.CreateRating(&models.Rating{RaterID: 1, RateeID: 2, ConnectionID: 10, Score: 3})
	assert.ErrorIs(t, err, ErrAlreadyRated)
}

func TestRatingsAreMutuallyIndependent(t *testing.T) {
	repo := NewPostgresRatingRepository(newTestDB(t))

	// Both directions of the same connection may rate.
	require.NoError(t, repo.CreateRating(&models.Rating{RaterID: 1, RateeID: 2, ConnectionID: 10, Score: 5}))
	require.NoError(t, repo.CreateRating(&models.Rating{RaterID: 2, RateeID: 1, ConnectionID: 10, Score: 4}))
}

func TestGetSummary(t *testing.T) {
	repo := NewPostgresRatingRepository(newTestDB(t))

	require.NoError(t, repo.CreateRating(&models.Rating{RaterID: 1, RateeID: 9, ConnectionID: 1, Score: 5}))
	require.NoError(t, repo.CreateRating(&models.Rating{RaterID: 2, RateeID: 9, ConnectionID: 2, Score: 4}))
	require.NoError(t, repo.CreateRating(&models.Rating{RaterID: 3, RateeID: 9, ConnectionID: 3, Score: 3}))

	summary, err := repo.GetSummary(9)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, summary.Average, 0.001)
	assert.Equal(t, int64(3), summary.Count)
}

func TestGetSummaryNoRatings(t *testing.T) {
	repo := NewPostgresRatingRepository(newTestDB(t))

	summary, err := repo.GetSummary(42)
	require.NoError(t, err)
	assert.Equal(t, 0.0, summary.Average)
	assert.Equal(t, int64(0), summary.Count)
}

func TestGetByRateeID(t *testing.T) {
	repo := NewPostgresRatingRepository(newTestDB(t))

	require.NoError(t, repo.CreateRating(&models.Rating{RaterID: 1, RateeID: 9, ConnectionID: 1, Score: 5, Review: "Great work"}))
	require.NoError(t, repo.CreateRating(&models.Rating{RaterID: 2, RateeID: 8, ConnectionID: 2, Score: 2}))

	ratings, err := repo.GetByRateeID(9)
	require.NoError(t, err)
	require.Len(t, ratings, 1)
	assert.Equal(t, "Great work", ratings[0].Review)
}
