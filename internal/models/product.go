package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalog entry customers browse and add to their cart.
// The catalog itself is static content; it carries no invariants beyond
// a non-negative price.
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string          `json:"nome" validate:"required,min=2,max=100"`
	Description string          `json:"descricao" validate:"omitempty,max=500"`
	Price       decimal.Decimal `json:"preco" gorm:"type:numeric" validate:"required"`
	Store       string          `json:"loja" gorm:"index;type:varchar(100)" validate:"required"`
	gorm.Model  `json:"-"`
}

// LineItem converts the product into a one-unit cart line.
func (p Product) LineItem() LineItem {
	return LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Store:     p.Store,
		Quantity:  1,
	}
}
