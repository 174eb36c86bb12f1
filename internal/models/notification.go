package models

import "time"

// Notification kinds.
const (
	NotificationConnectionRequest  = "connection_request"
	NotificationConnectionAccepted = "connection_accepted"
	NotificationNewMessage         = "new_message"
	NotificationSystem             = "system"
)

// Notification is the persisted in-app channel of the dispatcher. Email
// and SMS deliveries are fire-and-forget and leave no row.
type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index"`
	Type      string    `json:"type" gorm:"size:30;index"`
	ActorID   uint      `json:"actor_id" gorm:"index"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Link      string    `json:"link,omitempty"`
	Read      bool      `json:"read" gorm:"default:false;index"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}
