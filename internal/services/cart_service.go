package services

import (
	"sync"

	"pedefood/internal/models"
)

// CartService hands out the session cart of each customer. The map is
// synchronized here; each cart guards its own items, so overlapping
// requests from the same customer are safe too.
type CartService struct {
	carts map[string]*models.Cart
	mu    sync.Mutex
}

// NewCartService creates a new CartService.
func NewCartService() *CartService {
	return &CartService{
		carts: make(map[string]*models.Cart),
	}
}

// CartFor returns the customer's cart, creating an empty one on first use.
func (s *CartService) CartFor(customerID string) *models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[customerID]
	if !ok {
		cart = models.NewCart()
		s.carts[customerID] = cart
	}
	return cart
}

// Add merges one unit of item into the customer's cart.
func (s *CartService) Add(customerID string, item models.LineItem) {
	s.CartFor(customerID).Add(item)
}

// Remove decrements the matching line in the customer's cart.
func (s *CartService) Remove(customerID, productID, store string) {
	s.CartFor(customerID).Remove(productID, store)
}

// Clear empties the customer's cart.
func (s *CartService) Clear(customerID string) {
	s.CartFor(customerID).Clear()
}
