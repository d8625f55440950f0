package repositories

import (
	"pedefood/internal/models"
)

// OrderRepository defines the interface for order data access.
//
// UpdateStatus is a conditional write: it applies only when the stored
// status still equals from, so racing transitions on the same order cannot
// both win. It returns errs.ErrNotFound for an unknown id and
// errs.ErrStaleStatus when the order exists but its status moved on.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	ListRecentFirst() ([]models.Order, error)
	UpdateStatus(id string, from, to models.OrderStatus, reason string) error
	Delete(id string) error
}
