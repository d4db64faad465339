package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommissionType describes how a commission value is interpreted.
type CommissionType string

const (
	CommissionTypePercentage CommissionType = "percentage"
	CommissionTypeFixed      CommissionType = "fixed"
)

// Valid checks if the commission type is valid.
func (t CommissionType) Valid() bool {
	switch t {
	case CommissionTypePercentage, CommissionTypeFixed:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for CommissionType.
func (t *CommissionType) Scan(value any) error {
	if value == nil {
		*t = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*t = CommissionType(v)
	case []byte:
		*t = CommissionType(string(v))
	default:
		return fmt.Errorf("cannot scan %T into CommissionType", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for CommissionType.
func (t CommissionType) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid CommissionType: %s", t)
	}
	return string(t), nil
}

// Product represents a sellable item. Commission fields configure the
// ambassador discount; a zero commission value defers to the product's
// category commission row.
type Product struct {
	ID              uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID            uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	Title           string         `gorm:"size:255;not null" json:"title"`
	Description     *string        `gorm:"type:text" json:"description,omitempty"`
	Price           float64        `gorm:"type:decimal(12,2);not null" json:"price"`
	CommissionType  CommissionType `gorm:"type:varchar(20);not null;default:'percentage'" json:"commission_type"`
	CommissionValue float64        `gorm:"type:decimal(12,2);not null;default:0" json:"commission_value"`
	StockQuantity   int            `gorm:"not null;default:0" json:"stock_quantity"`
	Category        string         `gorm:"size:100;not null;index" json:"category"`
	IsActive        *bool          `gorm:"not null;default:true;index" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName returns the table name for Product
func (Product) TableName() string { return "products" }

// BeforeCreate ensures UUID is set
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}
	return nil
}

// TracksStock reports whether stock enforcement applies. A zero stock value
// means the product's inventory is unlimited or untracked.
func (p *Product) TracksStock() bool {
	return p.StockQuantity > 0
}

// ProductFilter represents filter criteria for product queries
type ProductFilter struct {
	ID            *uint      `json:"id,omitempty"`
	UUID          *uuid.UUID `json:"uuid,omitempty"`
	Category      *string    `json:"category,omitempty"`
	IsActive      *bool      `json:"is_active,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}
