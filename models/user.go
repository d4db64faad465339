package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles
const (
	RoleUser       = "user"
	RoleAmbassador = "ambassador"
	RoleAdmin      = "admin"
)

// User represents a platform account. Ambassadors are regular users whose
// role grants them referral links, discounted orders and commission accrual.
type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID         uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	Email        string    `gorm:"size:255;not null;uniqueIndex:uk_users_email" json:"email"`
	FirstName    string    `gorm:"size:100;not null" json:"first_name"`
	LastName     string    `gorm:"size:100;not null" json:"last_name"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"type:varchar(20);not null;default:'user';index" json:"role"`
	IsActive     *bool     `gorm:"not null;default:true;index" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName returns the table name for User
func (User) TableName() string { return "users" }

// BeforeCreate ensures UUID is set
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UUID == uuid.Nil {
		u.UUID = uuid.New()
	}
	return nil
}

// HasRole reports whether the user holds the given role. Admins implicitly
// hold the ambassador capability.
func (u *User) HasRole(role string) bool {
	if u.Role == role {
		return true
	}
	return u.Role == RoleAdmin && role == RoleAmbassador
}

// UserFilter represents filter criteria for user queries
type UserFilter struct {
	ID            *uint      `json:"id,omitempty"`
	UUID          *uuid.UUID `json:"uuid,omitempty"`
	Email         *string    `json:"email,omitempty"`
	Role          *string    `json:"role,omitempty"`
	IsActive      *bool      `json:"is_active,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}
