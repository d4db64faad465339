package businessflow

import (
	"math"

	"github.com/amberlink/ambassador-platform/models"
)

// minUnitPrice is the floor for a discounted unit price. A 100%+ discount
// never produces a zero or negative price.
const minUnitPrice = 0.01

// EffectiveCommission is the commission actually applied to an order after
// resolving the product/category fallback chain.
type EffectiveCommission struct {
	Type  models.CommissionType `json:"type"`
	Value float64               `json:"value"`
}

// Quote is the full pricing breakdown for a requested quantity.
type Quote struct {
	UnitPrice           float64 `json:"unit_price"`
	DiscountPerUnit     float64 `json:"discount_per_unit"`
	DiscountedUnitPrice float64 `json:"discounted_unit_price"`
	DiscountAmount      float64 `json:"discount_amount"`
	TotalAmount         float64 `json:"total_amount"`
}

// ResolveCommission determines the effective commission for a product.
// The product's own configuration wins when its value is positive; otherwise
// the category fallback row applies when present with a positive value. When
// neither source yields a positive value the result is a zero percentage —
// a valid zero-discount outcome, not an error.
func ResolveCommission(product *models.Product, category *models.CategoryCommission) EffectiveCommission {
	if product.CommissionValue > 0 {
		return EffectiveCommission{Type: product.CommissionType, Value: product.CommissionValue}
	}
	if category != nil && category.CommissionValue > 0 {
		return EffectiveCommission{Type: category.CommissionType, Value: category.CommissionValue}
	}
	return EffectiveCommission{Type: models.CommissionTypePercentage, Value: 0}
}

// PriceOrder computes the discount and totals for a quantity at a unit price.
// Per-unit discount: percentage of the unit price, or a fixed amount capped
// at the unit price; never negative. Rounding is half-up to 2 decimals and
// applied once at the aggregate level so per-unit rounding error cannot
// compound across the quantity.
func PriceOrder(unitPrice float64, commission EffectiveCommission, quantity int) Quote {
	var discount float64
	switch commission.Type {
	case models.CommissionTypeFixed:
		discount = math.Min(unitPrice, math.Max(0, commission.Value))
	default:
		discount = unitPrice * commission.Value / 100
		if discount < 0 {
			discount = 0
		}
	}

	discountedUnit := math.Max(minUnitPrice, unitPrice-discount)

	return Quote{
		UnitPrice:           unitPrice,
		DiscountPerUnit:     discount,
		DiscountedUnitPrice: discountedUnit,
		DiscountAmount:      RoundMoney(discount * float64(quantity)),
		TotalAmount:         RoundMoney(discountedUnit * float64(quantity)),
	}
}

// RoundMoney rounds half-up to 2 decimal places.
func RoundMoney(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
