package repositories

import (
	"errors"
	"time"

	"github.com/civilconnect/marketplace/backend/internal/models"
	"gorm.io/gorm"
)

// ErrInvalidResetCode covers unknown, expired and already-used codes;
// the caller gets one message for all three so codes cannot be probed.
var ErrInvalidResetCode = errors.New("invalid or expired reset code")

// ResetCodeRepository defines the interface for password reset codes
type ResetCodeRepository interface {
	CreateCode(code *models.PasswordResetCode) error
	ConsumeCode(email, code string) error
}

// PostgresResetCodeRepository implements ResetCodeRepository for PostgreSQL
type PostgresResetCodeRepository struct {
	db *gorm.DB
}

// NewPostgresResetCodeRepository creates a new PostgresResetCodeRepository
func NewPostgresResetCodeRepository(db *gorm.DB) *PostgresResetCodeRepository {
	return &PostgresResetCodeRepository{db: db}
}

func (r *PostgresResetCodeRepository) CreateCode(code *models.PasswordResetCode) error {
	return r.db.Create(code).Error
}

// ConsumeCode validates and burns a code in one step. The used flag flip
// is guarded by the same WHERE clause that validated it, so a code can
// only ever be consumed once.
func (r *PostgresResetCodeRepository) ConsumeCode(email, code string) error {
	res := r.db.Model(&models.PasswordResetCode{}).
		Where("email = ? AND code = ? AND used = false AND expires_at > ?", email, code, time.Now()).
		Update("used", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInvalidResetCode
	}
	return nil
}
