package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User roles, matching the profile types the marketplace serves.
const (
	RoleLandOwner      = "land_owner"
	RoleBuyer          = "buyer"
	RoleArchitect      = "architect"
	RoleEngineer       = "engineer"
	RoleContractor     = "contractor"
	RoleBuilder        = "builder"
	RoleWorker         = "worker"
	RoleMaterialSeller = "material_seller"
	RoleAdmin          = "admin"
)

type User struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	FullName     string `json:"full_name"`
	Email        string `json:"email" gorm:"uniqueIndex"`
	Phone        string `json:"phone,omitempty"`
	UserType     string `json:"user_type" gorm:"type:varchar(20);index"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	Bio          string `json:"bio,omitempty"`
	ProfileImage string `json:"profile_image,omitempty"`
	Password     string `json:"-"` // bcrypt hash, never serialized
	// Nullable so password-only accounts don't collide on the unique
	// index; only Firebase-backed profiles carry a UID.
	FirebaseUID *string   `json:"firebase_uid,omitempty" gorm:"uniqueIndex"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProfessionalProfile holds role-specific details for architects,
// engineers, contractors and builders.
type ProfessionalProfile struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	ProfileID       uint      `json:"profile_id" gorm:"uniqueIndex"`
	ExperienceYears int       `json:"experience_years"`
	PricePerSqft    float64   `json:"price_per_sqft"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// WorkerProfile holds role-specific details for civil workers.
type WorkerProfile struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	ProfileID       uint      `json:"profile_id" gorm:"uniqueIndex"`
	Skills          string    `json:"skills"` // comma-separated
	ExperienceYears int       `json:"experience_years"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// UserCompact is the trimmed user shape embedded in notifications,
// connection listings and rating responses.
type UserCompact struct {
	ID           uint   `json:"id"`
	FullName     string `json:"full_name"`
	UserType     string `json:"user_type"`
	ProfileImage string `json:"profile_image,omitempty"`
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:           u.ID,
		FullName:     u.FullName,
		UserType:     u.UserType,
		ProfileImage: u.ProfileImage,
	}
}

type CreateLocalUserRequest struct {
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
	UserType string `json:"user_type" validate:"required,oneof=land_owner buyer architect engineer contractor builder worker material_seller"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
}

type UpdateUserRequest struct {
	FullName     string `json:"full_name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone        string `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	Bio          string `json:"bio,omitempty" validate:"omitempty,max=1000"`
	ProfileImage string `json:"profile_image,omitempty" validate:"omitempty,url"`
}

type UpdateProfessionalProfileRequest struct {
	ExperienceYears int     `json:"experience_years" validate:"min=0,max=80"`
	PricePerSqft    float64 `json:"price_per_sqft" validate:"min=0"`
}

type UpdateWorkerProfileRequest struct {
	Skills          string `json:"skills" validate:"required"`
	ExperienceYears int    `json:"experience_years" validate:"min=0,max=80"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   uint   `json:"user_id"`
	Email    string `json:"email"`
	UserType string `json:"user_type"`
	jwt.RegisteredClaims
}
