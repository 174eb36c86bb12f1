package repositories

import (
	"errors"
	"fmt"

	"github.com/civilconnect/marketplace/backend/internal/models"
	"gorm.io/gorm"
)

// ErrAlreadyRated is returned when a (rater, ratee, connection) triple
// already has a rating.
var ErrAlreadyRated = errors.New("you have already rated this user")

// RatingRepository defines the interface for the append-only rating ledger
type RatingRepository interface {
	CreateRating(rating *models.Rating) error
	GetByRateeID(rateeID uint) ([]models.Rating, error)
	GetSummary(rateeID uint) (models.RatingSummary, error)
}

// PostgresRatingRepository implements RatingRepository for PostgreSQL
type PostgresRatingRepository struct {
	db *gorm.DB
}

// NewPostgresRatingRepository creates a new PostgresRatingRepository
func NewPostgresRatingRepository(db *gorm.DB) *PostgresRatingRepository {
	return &PostgresRatingRepository{db: db}
}

// CreateRating inserts a rating. Duplicates are rejected by the composite
// unique index, not by a prior read.
func (r *PostgresRatingRepository) CreateRating(rating *models.Rating) error {
	if err := r.db.Create(rating).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyRated
		}
		return fmt.Errorf("create rating: %w", err)
	}
	return nil
}

func (r *PostgresRatingRepository) GetByRateeID(rateeID uint) ([]models.Rating, error) {
	var ratings []models.Rating
	err := r.db.Where("ratee_id = ?", rateeID).Order("created_at DESC").Find(&ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

// GetSummary computes the average score and review count at read time.
// No running aggregate is stored; a user with no ratings reports 0 / 0.
func (r *PostgresRatingRepository) GetSummary(rateeID uint) (models.RatingSummary, error) {
	var summary models.RatingSummary
	err := r.db.Model(&models.Rating{}).
		Select("COALESCE(AVG(score), 0) AS average, COUNT(*) AS count").
		Where("ratee_id = ?", rateeID).
		Scan(&summary).Error
	return summary, err
}
