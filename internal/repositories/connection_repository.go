package repositories

import (
	"errors"
	"fmt"

	"github.com/civilconnect/marketplace/backend/internal/models"
	"gorm.io/gorm"
)

// Domain errors surfaced by the connection ledger. Handlers map these to
// specific HTTP statuses and user-facing wording.
var (
	ErrSelfConnection       = errors.New("cannot send a connection request to yourself")
	ErrConnectionPending    = errors.New("a pending connection request already exists between these users")
	ErrConnectionExists     = errors.New("these users are already connected")
	ErrConnectionNotPending = errors.New("connection request has already been responded to")
)

// ConnectionRepository defines the interface for the connection ledger
type ConnectionRepository interface {
	CreateConnection(conn *models.Connection) error
	GetConnectionByID(id uint) (*models.Connection, error)
	GetConnectionBetween(userA, userB uint) (*models.Connection, error)
	GetPendingForRecipient(userID uint) ([]models.Connection, error)
	GetConnectionsForUser(userID uint) ([]models.Connection, error)
	UpdateStatus(id uint, status string) error
}

// PostgresConnectionRepository implements ConnectionRepository for PostgreSQL
type PostgresConnectionRepository struct {
	db *gorm.DB
}

// NewPostgresConnectionRepository creates a new PostgresConnectionRepository
func NewPostgresConnectionRepository(db *gorm.DB) *PostgresConnectionRepository {
	return &PostgresConnectionRepository{db: db}
}

// CreateConnection inserts a new pending request. The unique index on the
// canonical pair key is what actually prevents duplicates; the read that
// precedes the insert only exists to word the rejection (pending vs
// already connected), and a racing insert still fails atomically.
func (r *PostgresConnectionRepository) CreateConnection(conn *models.Connection) error {
	if conn.RequesterID == conn.RecipientID {
		return ErrSelfConnection
	}

	existing, err := r.GetConnectionBetween(conn.RequesterID, conn.RecipientID)
	if err == nil {
		if existing.Status == models.ConnectionPending {
			return ErrConnectionPending
		}
		return ErrConnectionExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	conn.Status = models.ConnectionPending
	if err := r.db.Create(conn).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrConnectionPending
		}
		return fmt.Errorf("create connection: %w", err)
	}
	return nil
}

func (r *PostgresConnectionRepository) GetConnectionByID(id uint) (*models.Connection, error) {
	var conn models.Connection
	if err := r.db.First(&conn, id).Error; err != nil {
		return nil, err
	}
	return &conn, nil
}

// GetConnectionBetween finds the connection for an unordered user pair.
func (r *PostgresConnectionRepository) GetConnectionBetween(userA, userB uint) (*models.Connection, error) {
	var conn models.Connection
	if err := r.db.Where("pair_key = ?", models.PairKey(userA, userB)).First(&conn).Error; err != nil {
		return nil, err
	}
	return &conn, nil
}

func (r *PostgresConnectionRepository) GetPendingForRecipient(userID uint) ([]models.Connection, error) {
	var conns []models.Connection
	err := r.db.Where("recipient_id = ? AND status = ?", userID, models.ConnectionPending).
		Order("created_at DESC").Find(&conns).Error
	if err != nil {
		return nil, err
	}
	return conns, nil
}

func (r *PostgresConnectionRepository) GetConnectionsForUser(userID uint) ([]models.Connection, error) {
	var conns []models.Connection
	err := r.db.Where("requester_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at DESC").Find(&conns).Error
	if err != nil {
		return nil, err
	}
	return conns, nil
}

// UpdateStatus transitions a pending connection exactly once. The status
// precondition sits in the WHERE clause, so a second response finds no
// row to update and the first decision stands.
func (r *PostgresConnectionRepository) UpdateStatus(id uint, status string) error {
	res := r.db.Model(&models.Connection{}).
		Where("id = ? AND status = ?", id, models.ConnectionPending).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConnectionNotPending
	}
	return nil
}
