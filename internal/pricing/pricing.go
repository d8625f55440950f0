// Package pricing derives order totals from cart lines. Checkout preview and
// order persistence both go through the same Calculator, so the amount the
// customer saw is the amount that gets stored.
package pricing

import (
	"github.com/shopspring/decimal"

	"pedefood/internal/models"
)

// Calculator computes subtotals and totals with exact decimal arithmetic.
// CourierFee is the fixed surcharge applied when delivery mode is courier;
// it comes from configuration, never from call sites.
type Calculator struct {
	CourierFee decimal.Decimal
}

// NewCalculator returns a Calculator with the given courier surcharge.
func NewCalculator(courierFee decimal.Decimal) Calculator {
	return Calculator{CourierFee: courierFee}
}

// Subtotal sums unitPrice × quantity over all lines.
func (c Calculator) Subtotal(items []models.LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return sum
}

// DeliveryFee returns the surcharge for the delivery mode: zero for pickup,
// the configured courier fee otherwise.
func (c Calculator) DeliveryFee(mode models.DeliveryMode) decimal.Decimal {
	if mode == models.DeliveryCourier {
		return c.CourierFee
	}
	return decimal.Zero
}

// Total is Subtotal plus DeliveryFee. Deterministic, no side effects.
func (c Calculator) Total(items []models.LineItem, mode models.DeliveryMode) decimal.Decimal {
	return c.Subtotal(items).Add(c.DeliveryFee(mode))
}
