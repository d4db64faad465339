package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReferralCodeLength is the fixed length of public referral codes.
const ReferralCodeLength = 8

// ReferralLink maps a public 8-character code to a (user, product) pair.
// Exactly one link exists per pair; the code is unique across the platform.
// Clicks is mutated only by the click tracking flow's accept path.
type ReferralLink struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID            uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	UserID          uint      `gorm:"not null;uniqueIndex:uk_referral_links_user_product;index" json:"user_id"`
	ProductID       uint      `gorm:"not null;uniqueIndex:uk_referral_links_user_product;index" json:"product_id"`
	Code            string    `gorm:"size:8;not null;uniqueIndex:uk_referral_links_code" json:"code"`
	Clicks          int64     `gorm:"not null;default:0" json:"clicks"`
	Conversions     int64     `gorm:"not null;default:0" json:"conversions"`
	TotalCommission float64   `gorm:"type:decimal(12,2);not null;default:0" json:"total_commission"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	User    *User    `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Product *Product `gorm:"foreignKey:ProductID;references:ID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
}

// TableName returns the table name for ReferralLink
func (ReferralLink) TableName() string { return "referral_links" }

// BeforeCreate ensures UUID is set
func (l *ReferralLink) BeforeCreate(tx *gorm.DB) error {
	if l.UUID == uuid.Nil {
		l.UUID = uuid.New()
	}
	return nil
}

// ReferralLinkFilter provides filter fields for repository queries
type ReferralLinkFilter struct {
	ID            *uint      `json:"id,omitempty"`
	UUID          *uuid.UUID `json:"uuid,omitempty"`
	UserID        *uint      `json:"user_id,omitempty"`
	ProductID     *uint      `json:"product_id,omitempty"`
	Code          *string    `json:"code,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}
