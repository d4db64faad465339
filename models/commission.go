package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommissionKind classifies how a commission row was earned.
type CommissionKind string

const (
	CommissionKindPersonalPurchase CommissionKind = "personal_purchase"
	CommissionKindClick            CommissionKind = "click"
	CommissionKindSale             CommissionKind = "sale"
)

// Valid checks if the commission kind is valid.
func (k CommissionKind) Valid() bool {
	switch k {
	case CommissionKindPersonalPurchase, CommissionKindClick, CommissionKindSale:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for CommissionKind.
func (k *CommissionKind) Scan(value any) error {
	if value == nil {
		*k = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*k = CommissionKind(v)
	case []byte:
		*k = CommissionKind(string(v))
	default:
		return fmt.Errorf("cannot scan %T into CommissionKind", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for CommissionKind.
func (k CommissionKind) Value() (driver.Value, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid CommissionKind: %s", k)
	}
	return string(k), nil
}

// CommissionStatus is the payout lifecycle of a commission row.
type CommissionStatus string

const (
	CommissionStatusPending  CommissionStatus = "pending"
	CommissionStatusApproved CommissionStatus = "approved"
	CommissionStatusPaid     CommissionStatus = "paid"
)

// Valid checks if the status is valid.
func (s CommissionStatus) Valid() bool {
	switch s {
	case CommissionStatusPending, CommissionStatusApproved, CommissionStatusPaid:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for CommissionStatus.
func (s *CommissionStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = CommissionStatus(v)
	case []byte:
		*s = CommissionStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into CommissionStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for CommissionStatus.
func (s CommissionStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid CommissionStatus: %s", s)
	}
	return string(s), nil
}

// Commission is a monetary credit owed to an ambassador, accrued from clicks
// or sales and pending admin approval before payout. Rows reference either
// the order or the referral link that produced them.
type Commission struct {
	ID             uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID           uuid.UUID        `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	UserID         uint             `gorm:"not null;index" json:"user_id"`
	OrderID        *uint            `gorm:"index" json:"order_id,omitempty"`
	ReferralLinkID *uint            `gorm:"index" json:"referral_link_id,omitempty"`
	Kind           CommissionKind   `gorm:"type:varchar(30);not null;index" json:"kind"`
	Amount         float64          `gorm:"type:decimal(12,2);not null;default:0" json:"amount"`
	Status         CommissionStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	User         *User         `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Order        *Order        `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:SET NULL" json:"order,omitempty"`
	ReferralLink *ReferralLink `gorm:"foreignKey:ReferralLinkID;references:ID;constraint:OnDelete:SET NULL" json:"referral_link,omitempty"`
}

// TableName returns the table name for Commission
func (Commission) TableName() string { return "commissions" }

// BeforeCreate ensures UUID is set
func (c *Commission) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	return nil
}

// CommissionFilter represents filter criteria for commission queries
type CommissionFilter struct {
	ID             *uint             `json:"id,omitempty"`
	UUID           *uuid.UUID        `json:"uuid,omitempty"`
	UserID         *uint             `json:"user_id,omitempty"`
	OrderID        *uint             `json:"order_id,omitempty"`
	ReferralLinkID *uint             `json:"referral_link_id,omitempty"`
	Kind           *CommissionKind   `json:"kind,omitempty"`
	Status         *CommissionStatus `json:"status,omitempty"`
	CreatedAfter   *time.Time        `json:"created_after,omitempty"`
	CreatedBefore  *time.Time        `json:"created_before,omitempty"`
}
