package models

import "time"

// Land listing statuses.
const (
	LandActive  = "active"
	LandSold    = "sold"
	LandPending = "pending"
)

// LandListing is a plot put up by a land owner.
type LandListing struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	OwnerID      uint      `json:"owner_id" gorm:"index"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	City         string    `json:"city" gorm:"index"`
	State        string    `json:"state" gorm:"index"`
	Status       string    `json:"status" gorm:"type:varchar(20);default:'active';index"`
	AreaSqft     float64   `json:"area_sqft"`
	Price        float64   `json:"price"`
	PricePerSqft float64   `json:"price_per_sqft"`
	CoverImage   string    `json:"cover_image,omitempty"`
	Images       string    `json:"images,omitempty"` // comma-separated URLs
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CreateLandListingRequest struct {
	Title       string  `json:"title" validate:"required,min=3,max=200"`
	Description string  `json:"description" validate:"required,max=5000"`
	City        string  `json:"city" validate:"required"`
	State       string  `json:"state" validate:"required"`
	AreaSqft    float64 `json:"area_sqft" validate:"required,gt=0"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	CoverImage  string  `json:"cover_image,omitempty" validate:"omitempty,url"`
	Images      string  `json:"images,omitempty"`
}

type UpdateLandListingRequest struct {
	Title       string  `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
	Description string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	Status      string  `json:"status,omitempty" validate:"omitempty,oneof=active sold pending"`
	AreaSqft    float64 `json:"area_sqft,omitempty" validate:"omitempty,gt=0"`
	Price       float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	CoverImage  string  `json:"cover_image,omitempty" validate:"omitempty,url"`
	Images      string  `json:"images,omitempty"`
}
