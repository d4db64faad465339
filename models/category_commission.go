package models

import (
	"time"
)

// CategoryCommission is the per-category fallback consulted when a product
// carries no commission value of its own.
type CategoryCommission struct {
	ID              uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Category        string         `gorm:"size:100;not null;uniqueIndex:uk_category_commissions_category" json:"category"`
	CommissionType  CommissionType `gorm:"type:varchar(20);not null;default:'percentage'" json:"commission_type"`
	CommissionValue float64        `gorm:"type:decimal(12,2);not null;default:0" json:"commission_value"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName returns the table name for CategoryCommission
func (CategoryCommission) TableName() string { return "category_commissions" }

// CategoryCommissionFilter provides filter fields for repository queries
type CategoryCommissionFilter struct {
	ID       *uint   `json:"id,omitempty"`
	Category *string `json:"category,omitempty"`
}
