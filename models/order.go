package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusRefunded  OrderStatus = "refunded"
)

// Valid checks if the status is valid.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusConfirmed, OrderStatusCancelled, OrderStatusRefunded:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for OrderStatus.
func (s *OrderStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = OrderStatus(v)
	case []byte:
		*s = OrderStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into OrderStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for OrderStatus.
func (s OrderStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid OrderStatus: %s", s)
	}
	return string(s), nil
}

// Invoice is the structured pricing breakdown embedded on an order.
type Invoice struct {
	ProductID       uint           `json:"product_id"`
	ProductTitle    string         `json:"product_title"`
	Quantity        int            `json:"quantity"`
	UnitPrice       float64        `json:"unit_price"`
	CommissionType  CommissionType `json:"commission_type"`
	CommissionValue float64        `json:"commission_value"`
	DiscountPerUnit float64        `json:"discount_per_unit"`
	DiscountTotal   float64        `json:"discount_total"`
	TotalDue        float64        `json:"total_due"`
	Currency        string         `json:"currency"`
}

// Scan implements the sql.Scanner interface for Invoice (jsonb column).
func (i *Invoice) Scan(value any) error {
	if value == nil {
		*i = Invoice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, i)
	case string:
		return json.Unmarshal([]byte(v), i)
	default:
		return fmt.Errorf("cannot scan %T into Invoice", value)
	}
}

// Value implements the driver.Valuer interface for Invoice.
func (i Invoice) Value() (driver.Value, error) {
	return json.Marshal(i)
}

// Order records a discounted ambassador purchase. Pricing fields are frozen
// at creation time; only the status may change afterwards, driven by admin
// tooling outside this core.
type Order struct {
	ID              uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID            uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	UserID          uint           `gorm:"not null;index" json:"user_id"`
	ProductID       uint           `gorm:"not null;index" json:"product_id"`
	Quantity        int            `gorm:"not null" json:"quantity"`
	UnitPrice       float64        `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	CommissionType  CommissionType `gorm:"type:varchar(20);not null" json:"commission_type"`
	CommissionValue float64        `gorm:"type:decimal(12,2);not null" json:"commission_value"`
	DiscountAmount  float64        `gorm:"type:decimal(12,2);not null" json:"discount_amount"`
	TotalAmount     float64        `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Status          OrderStatus    `gorm:"type:varchar(20);not null;default:'confirmed';index" json:"status"`
	Invoice         Invoice        `gorm:"type:jsonb" json:"invoice"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	User    *User    `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Product *Product `gorm:"foreignKey:ProductID;references:ID;constraint:OnDelete:RESTRICT" json:"product,omitempty"`
}

// TableName returns the table name for Order
func (Order) TableName() string { return "orders" }

// BeforeCreate ensures UUID is set
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.UUID == uuid.Nil {
		o.UUID = uuid.New()
	}
	return nil
}

// OrderFilter represents filter criteria for order queries
type OrderFilter struct {
	ID            *uint        `json:"id,omitempty"`
	UUID          *uuid.UUID   `json:"uuid,omitempty"`
	UserID        *uint        `json:"user_id,omitempty"`
	ProductID     *uint        `json:"product_id,omitempty"`
	Status        *OrderStatus `json:"status,omitempty"`
	CreatedAfter  *time.Time   `json:"created_after,omitempty"`
	CreatedBefore *time.Time   `json:"created_before,omitempty"`
}
