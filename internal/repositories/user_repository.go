package repositories

import (
	"github.com/civilconnect/marketplace/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository defines the interface for user profile data operations
type UserRepository interface {
	CreateUser(user *models.User) error
	UpsertByFirebaseUID(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByFirebaseUID(firebaseUID string) (*models.User, error)
	GetUsers(userType, city, query string) ([]models.User, error)
	UpdateUser(user *models.User) error
	UpdatePassword(id uint, hashed string) error
	DeleteUser(id uint) error

	UpsertProfessionalProfile(p *models.ProfessionalProfile) error
	GetProfessionalProfile(profileID uint) (*models.ProfessionalProfile, error)
	UpsertWorkerProfile(p *models.WorkerProfile) error
	GetWorkerProfile(profileID uint) (*models.WorkerProfile, error)
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

// UpsertByFirebaseUID creates the profile on first login and updates it
// on subsequent ones, so a retried signup never fails with a conflict.
func (r *PostgresUserRepository) UpsertByFirebaseUID(user *models.User) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "firebase_uid"}},
		DoUpdates: clause.AssignmentColumns([]string{"full_name", "email", "updated_at"}),
	}).Create(user).Error
}

func (r *PostgresUserRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUserByFirebaseUID(firebaseUID string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("firebase_uid = ?", firebaseUID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUsers lists users, optionally filtered by role, city and a
// case-insensitive name/email search. All filters compose.
func (r *PostgresUserRepository) GetUsers(userType, city, query string) ([]models.User, error) {
	var users []models.User
	tx := r.db.Model(&models.User{})
	if userType != "" {
		tx = tx.Where("user_type = ?", userType)
	}
	if city != "" {
		tx = tx.Where("city = ?", city)
	}
	if query != "" {
		like := "%" + query + "%"
		tx = tx.Where("LOWER(full_name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)", like, like)
	}
	if err := tx.Order("full_name ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *PostgresUserRepository) UpdateUser(user *models.User) error {
	return r.db.Save(user).Error
}

func (r *PostgresUserRepository) UpdatePassword(id uint, hashed string) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("password", hashed).Error
}

func (r *PostgresUserRepository) DeleteUser(id uint) error {
	return r.db.Delete(&models.User{}, id).Error
}

func (r *PostgresUserRepository) UpsertProfessionalProfile(p *models.ProfessionalProfile) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "profile_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"experience_years", "price_per_sqft", "updated_at"}),
	}).Create(p).Error
}

func (r *PostgresUserRepository) GetProfessionalProfile(profileID uint) (*models.ProfessionalProfile, error) {
	var p models.ProfessionalProfile
	if err := r.db.Where("profile_id = ?", profileID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresUserRepository) UpsertWorkerProfile(p *models.WorkerProfile) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "profile_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"skills", "experience_years", "updated_at"}),
	}).Create(p).Error
}

func (r *PostgresUserRepository) GetWorkerProfile(profileID uint) (*models.WorkerProfile, error) {
	var p models.WorkerProfile
	if err := r.db.Where("profile_id = ?", profileID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}
