package dto

import (
	"github.com/amberlink/ambassador-platform/models"
)

// CommissionDTO is one accrued commission row on the ambassador dashboard.
type CommissionDTO struct {
	ID             uint                    `json:"id"`
	Kind           models.CommissionKind   `json:"kind"`
	Amount         float64                 `json:"amount"`
	Status         models.CommissionStatus `json:"status"`
	OrderID        *uint                   `json:"order_id,omitempty"`
	ReferralLinkID *uint                   `json:"referral_link_id,omitempty"`
	CreatedAt      string                  `json:"created_at"`
}
