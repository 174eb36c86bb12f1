package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Connection statuses. The state machine is none -> pending ->
// {accepted | rejected}; both terminal states are absorbing.
const (
	ConnectionPending  = "pending"
	ConnectionAccepted = "accepted"
	ConnectionRejected = "rejected"
)

// Connection is a directed request-then-accept relationship between two
// users. Chat and rating eligibility are gated on status=accepted.
type Connection struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	RequesterID uint   `json:"requester_id" gorm:"index"`
	RecipientID uint   `json:"recipient_id" gorm:"index"`
	Status      string `json:"status" gorm:"type:varchar(20);default:'pending'"`
	Message     string `json:"message,omitempty"`
	// PairKey canonicalizes the user pair so the database enforces at
	// most one connection per unordered pair, regardless of direction.
	PairKey   string    `json:"-" gorm:"uniqueIndex;size:64"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Connection) BeforeCreate(tx *gorm.DB) error {
	c.PairKey = PairKey(c.RequesterID, c.RecipientID)
	return nil
}

// PairKey returns the canonical "minID:maxID" key for a user pair.
func PairKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

type CreateConnectionRequest struct {
	RecipientID uint   `json:"recipient_id" validate:"required"`
	Message     string `json:"message,omitempty" validate:"omitempty,max=500"`
}

type UpdateConnectionRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}

// ConnectionStatusResponse answers "are these two users connected" for
// the chat/rating gating reads.
type ConnectionStatusResponse struct {
	Status       string `json:"status"` // none, pending or accepted
	ConnectionID uint   `json:"connection_id,omitempty"`
}
