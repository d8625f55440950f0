package models

import (
	"time"

	"github.com/shopspring/decimal"

	"pedefood/internal/errs"
)

// PaymentMethod is a label on the order; no settlement happens here.
type PaymentMethod string

const (
	PaymentPix  PaymentMethod = "pix"
	PaymentCard PaymentMethod = "card"
	PaymentCash PaymentMethod = "cash"
)

// ParsePaymentMethod validates an untrusted payment method string.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentPix, PaymentCard, PaymentCash:
		return PaymentMethod(s), nil
	default:
		return "", errs.Validationf("unknown payment method %q", s)
	}
}

// DeliveryMode selects pickup (no fee) or courier (fixed surcharge).
type DeliveryMode string

const (
	DeliveryPickup  DeliveryMode = "pickup"
	DeliveryCourier DeliveryMode = "courier"
)

// ParseDeliveryMode validates an untrusted delivery mode string.
func ParseDeliveryMode(s string) (DeliveryMode, error) {
	switch DeliveryMode(s) {
	case DeliveryPickup, DeliveryCourier:
		return DeliveryMode(s), nil
	default:
		return "", errs.Validationf("unknown delivery mode %q", s)
	}
}

// LineItem is one product line of a cart or of an order snapshot.
// (ProductID, Store) is the uniqueness key; Quantity is always >= 1 —
// a decrement that reaches zero removes the line instead.
type LineItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"nome"`
	UnitPrice decimal.Decimal `json:"preco"`
	Store     string          `json:"loja"`
	Quantity  int             `json:"quantidade"`
}

// Order is the authoritative record of a confirmed checkout. Items are a
// deep copy of the cart at creation time and never change afterwards;
// only Status (and CancellationReason, on cancel) is mutable.
type Order struct {
	ID                 string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CustomerID         string          `json:"cliente_id" gorm:"index;type:varchar(36)"`
	CustomerName       string          `json:"cliente"`
	Items              []LineItem      `json:"itens" gorm:"serializer:json"`
	PaymentMethod      PaymentMethod   `json:"pagamento" gorm:"type:varchar(16)"`
	DeliveryMode       DeliveryMode    `json:"entrega" gorm:"type:varchar(16)"`
	DeliveryFee        decimal.Decimal `json:"frete" gorm:"type:numeric"`
	Subtotal           decimal.Decimal `json:"subtotal" gorm:"type:numeric"`
	Total              decimal.Decimal `json:"total" gorm:"type:numeric"`
	Status             OrderStatus     `json:"status" gorm:"type:varchar(24);index"`
	CancellationReason string          `json:"motivo,omitempty"`
	CreatedAt          time.Time       `json:"criado_em"`
	UpdatedAt          time.Time       `json:"atualizado_em"`
}
