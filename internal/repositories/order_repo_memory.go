package repositories

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"pedefood/internal/errs"
	"pedefood/internal/models"
)

// MemoryOrderRepository is an in-memory implementation of OrderRepository.
// It honors the same conditional-write contract as the GORM implementation,
// so lifecycle races behave identically in tests and in a wired server.
type MemoryOrderRepository struct {
	orders map[string]models.Order
	mu     sync.RWMutex
}

// NewMemoryOrderRepository creates a new instance of MemoryOrderRepository.
func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{
		orders: make(map[string]models.Order),
	}
}

// Create adds a new order.
func (r *MemoryOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	order.UpdatedAt = order.CreatedAt
	r.orders[order.ID] = *order
	return nil
}

// GetByID returns an order by its ID.
func (r *MemoryOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, errs.NotFoundf("order %s", id)
	}
	return &order, nil
}

// ListRecentFirst returns all orders, newest first.
func (r *MemoryOrderRepository) ListRecentFirst() ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		orderList = append(orderList, order)
	}
	sort.Slice(orderList, func(i, j int) bool {
		return orderList[i].CreatedAt.After(orderList[j].CreatedAt)
	})
	return orderList, nil
}

// UpdateStatus applies the status change only if the stored status still
// matches from. The map write happens under the same lock as the check,
// which is what makes this a compare-and-swap.
func (r *MemoryOrderRepository) UpdateStatus(id string, from, to models.OrderStatus, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return errs.NotFoundf("order %s", id)
	}
	if order.Status != from {
		return errs.ErrStaleStatus
	}
	order.Status = to
	if to == models.StatusCancelled {
		order.CancellationReason = reason
	}
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}

// Delete removes an order by its ID.
func (r *MemoryOrderRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[id]; !ok {
		return errs.NotFoundf("order %s", id)
	}
	delete(r.orders, id)
	return nil
}
