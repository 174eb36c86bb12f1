package models

import "time"

// Rating is an append-only 1-5 star review of one user by another,
// tied to the connection that made them eligible to rate each other.
// The composite unique index makes duplicate submissions fail at the
// database rather than relying on a prior read.
type Rating struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	RateeID      uint      `json:"ratee_id" gorm:"index;uniqueIndex:idx_rater_ratee_connection"`
	RaterID      uint      `json:"rater_id" gorm:"uniqueIndex:idx_rater_ratee_connection"`
	ConnectionID uint      `json:"connection_id" gorm:"uniqueIndex:idx_rater_ratee_connection"`
	Score        int       `json:"score"`
	Review       string    `json:"review,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type CreateRatingRequest struct {
	RateeID      uint   `json:"ratee_id" validate:"required"`
	ConnectionID uint   `json:"connection_id" validate:"required"`
	Score        int    `json:"score" validate:"required,min=1,max=5"`
	Review       string `json:"review,omitempty" validate:"omitempty,max=2000"`
}

// RatingSummary is the read-time aggregate over all ratings of a user.
// A user with no ratings reports Average 0 and Count 0 ("New").
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}
