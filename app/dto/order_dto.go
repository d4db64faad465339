package dto

import (
	"github.com/amberlink/ambassador-platform/models"
)

// PlaceOrderRequest creates a discounted ambassador order.
type PlaceOrderRequest struct {
	ProductID uint `json:"product_id" validate:"required,gt=0"`
	Quantity  int  `json:"quantity" validate:"required,gt=0"`

	// ReferralCode optionally attributes the sale to the referral link the
	// buyer arrived through.
	ReferralCode *string `json:"referral_code,omitempty" validate:"omitempty,len=8"`

	// UserID is set from the authenticated context, never from the body.
	UserID uint `json:"-"`
}

// OrderResponse is the created order with its frozen pricing breakdown.
type OrderResponse struct {
	ID              uint                  `json:"id"`
	ProductID       uint                  `json:"product_id"`
	Quantity        int                   `json:"quantity"`
	UnitPrice       float64               `json:"unit_price"`
	CommissionType  models.CommissionType `json:"commission_type"`
	CommissionValue float64               `json:"commission_value"`
	DiscountAmount  float64               `json:"discount_amount"`
	TotalAmount     float64               `json:"total_amount"`
	Status          models.OrderStatus    `json:"status"`
	Invoice         models.Invoice        `json:"invoice"`
	CreatedAt       string                `json:"created_at"`
}
