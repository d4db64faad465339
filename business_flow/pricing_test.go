package businessflow

import (
	"testing"

	"github.com/amberlink/ambassador-platform/models"
	"github.com/stretchr/testify/assert"
)

func TestResolveCommission(t *testing.T) {
	tests := []struct {
		name     string
		product  *models.Product
		category *models.CategoryCommission
		expected EffectiveCommission
	}{
		{
			name: "product percentage wins over category",
			product: &models.Product{
				CommissionType:  models.CommissionTypePercentage,
				CommissionValue: 10,
			},
			category: &models.CategoryCommission{
				CommissionType:  models.CommissionTypeFixed,
				CommissionValue: 50,
			},
			expected: EffectiveCommission{Type: models.CommissionTypePercentage, Value: 10},
		},
		{
			name: "product fixed wins over category",
			product: &models.Product{
				CommissionType:  models.CommissionTypeFixed,
				CommissionValue: 25,
			},
			category: &models.CategoryCommission{
				CommissionType:  models.CommissionTypePercentage,
				CommissionValue: 5,
			},
			expected: EffectiveCommission{Type: models.CommissionTypeFixed, Value: 25},
		},
		{
			name: "category fallback when product value is zero",
			product: &models.Product{
				CommissionType:  models.CommissionTypePercentage,
				CommissionValue: 0,
			},
			category: &models.CategoryCommission{
				CommissionType:  models.CommissionTypeFixed,
				CommissionValue: 15,
			},
			expected: EffectiveCommission{Type: models.CommissionTypeFixed, Value: 15},
		},
		{
			name: "zero default when neither configured",
			product: &models.Product{
				CommissionType:  models.CommissionTypePercentage,
				CommissionValue: 0,
			},
			category: nil,
			expected: EffectiveCommission{Type: models.CommissionTypePercentage, Value: 0},
		},
		{
			name: "zero default when category value is zero",
			product: &models.Product{
				CommissionType:  models.CommissionTypePercentage,
				CommissionValue: 0,
			},
			category: &models.CategoryCommission{
				CommissionType:  models.CommissionTypePercentage,
				CommissionValue: 0,
			},
			expected: EffectiveCommission{Type: models.CommissionTypePercentage, Value: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ResolveCommission(tt.product, tt.category)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestPriceOrder(t *testing.T) {
	tests := []struct {
		name       string
		unitPrice  float64
		commission EffectiveCommission
		quantity   int
		expected   Quote
	}{
		{
			name:       "ten percent off three units",
			unitPrice:  1000,
			commission: EffectiveCommission{Type: models.CommissionTypePercentage, Value: 10},
			quantity:   3,
			expected: Quote{
				UnitPrice:           1000,
				DiscountPerUnit:     100,
				DiscountedUnitPrice: 900,
				DiscountAmount:      300,
				TotalAmount:         2700,
			},
		},
		{
			name:       "fixed discount larger than unit price is capped",
			unitPrice:  500,
			commission: EffectiveCommission{Type: models.CommissionTypeFixed, Value: 600},
			quantity:   1,
			expected: Quote{
				UnitPrice:           500,
				DiscountPerUnit:     500,
				DiscountedUnitPrice: 0.01,
				DiscountAmount:      500,
				TotalAmount:         0.01,
			},
		},
		{
			name:       "zero commission leaves full price",
			unitPrice:  250,
			commission: EffectiveCommission{Type: models.CommissionTypePercentage, Value: 0},
			quantity:   4,
			expected: Quote{
				UnitPrice:           250,
				DiscountPerUnit:     0,
				DiscountedUnitPrice: 250,
				DiscountAmount:      0,
				TotalAmount:         1000,
			},
		},
		{
			name:       "negative fixed value is treated as zero",
			unitPrice:  100,
			commission: EffectiveCommission{Type: models.CommissionTypeFixed, Value: -50},
			quantity:   2,
			expected: Quote{
				UnitPrice:           100,
				DiscountPerUnit:     0,
				DiscountedUnitPrice: 100,
				DiscountAmount:      0,
				TotalAmount:         200,
			},
		},
		{
			name:       "hundred percent discount floors at a cent",
			unitPrice:  80,
			commission: EffectiveCommission{Type: models.CommissionTypePercentage, Value: 100},
			quantity:   5,
			expected: Quote{
				UnitPrice:           80,
				DiscountPerUnit:     80,
				DiscountedUnitPrice: 0.01,
				DiscountAmount:      400,
				TotalAmount:         0.05,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote := PriceOrder(tt.unitPrice, tt.commission, tt.quantity)
			assert.InDelta(t, tt.expected.UnitPrice, quote.UnitPrice, 0.0001)
			assert.InDelta(t, tt.expected.DiscountPerUnit, quote.DiscountPerUnit, 0.0001)
			assert.InDelta(t, tt.expected.DiscountedUnitPrice, quote.DiscountedUnitPrice, 0.0001)
			assert.InDelta(t, tt.expected.DiscountAmount, quote.DiscountAmount, 0.0001)
			assert.InDelta(t, tt.expected.TotalAmount, quote.TotalAmount, 0.0001)
		})
	}
}

func TestPriceOrderAggregateRounding(t *testing.T) {
	// 33.333...% of 9.99 per unit. Rounding must happen once on the totals,
	// not per unit, so seven units cannot accumulate per-unit rounding error.
	commission := EffectiveCommission{Type: models.CommissionTypePercentage, Value: 33.3333}
	quote := PriceOrder(9.99, commission, 7)

	rawDiscount := 9.99 * 33.3333 / 100
	assert.InDelta(t, RoundMoney(rawDiscount*7), quote.DiscountAmount, 0.0001)
	assert.InDelta(t, RoundMoney((9.99-rawDiscount)*7), quote.TotalAmount, 0.0001)
}

func TestRoundMoney(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"exact value untouched", 12.34, 12.34},
		{"half rounds up", 0.125, 0.13},
		{"below half rounds down", 0.124, 0.12},
		{"above half rounds up", 0.126, 0.13},
		{"zero", 0, 0},
		{"whole number", 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, RoundMoney(tt.input), 0.0001)
		})
	}
}
