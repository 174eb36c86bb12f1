package repositories

import (
	"github.com/civilconnect/marketplace/backend/internal/models"
	"gorm.io/gorm"
)

// LandRepository defines the interface for land listing operations
type LandRepository interface {
	CreateListing(listing *models.LandListing) error
	GetListingByID(id uint) (*models.LandListing, error)
	GetListings(city, state, status string) ([]models.LandListing, error)
	GetListingsByOwner(ownerID uint) ([]models.LandListing, error)
	UpdateListing(listing *models.LandListing) error
	DeleteListing(id uint) error
}

// PostgresLandRepository implements LandRepository for PostgreSQL
type PostgresLandRepository struct {
	db *gorm.DB
}

// NewPostgresLandRepository creates a new PostgresLandRepository
func NewPostgresLandRepository(db *gorm.DB) *PostgresLandRepository {
	return &PostgresLandRepository{db: db}
}

func (r *PostgresLandRepository) CreateListing(listing *models.LandListing) error {
	return r.db.Create(listing).Error
}

func (r *PostgresLandRepository) GetListingByID(id uint) (*models.LandListing, error) {
	var listing models.LandListing
	if err := r.db.First(&listing, id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *PostgresLandRepository) GetListings(city, state, status string) ([]models.LandListing, error) {
	var listings []models.LandListing
	tx := r.db.Model(&models.LandListing{})
	if city != "" {
		tx = tx.Where("city = ?", city)
	}
	if state != "" {
		tx = tx.Where("state = ?", state)
	}
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	if err := tx.Order("created_at DESC").Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *PostgresLandRepository) GetListingsByOwner(ownerID uint) ([]models.LandListing, error) {
	var listings []models.LandListing
	err := r.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *PostgresLandRepository) UpdateListing(listing *models.LandListing) error {
	return r.db.Save(listing).Error
}

func (r *PostgresLandRepository) DeleteListing(id uint) error {
	return r.db.Delete(&models.LandListing{}, id).Error
}
