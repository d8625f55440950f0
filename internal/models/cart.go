package models

import "sync"

// Cart is the session-scoped collection of line items pending checkout.
// One customer owns one cart, but that customer's requests can overlap
// (a double-clicked add, two browser tabs), so every mutation and read
// goes through the cart's own lock.
type Cart struct {
	mu    sync.Mutex
	items []LineItem
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// Add merges one unit of item into the cart: an existing line with the same
// (ProductID, Store) key has its quantity incremented, otherwise a new line
// is appended with the given quantity (minimum 1).
func (c *Cart) Add(item LineItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if item.Quantity < 1 {
		item.Quantity = 1
	}
	for i := range c.items {
		if c.items[i].ProductID == item.ProductID && c.items[i].Store == item.Store {
			c.items[i].Quantity += item.Quantity
			return
		}
	}
	c.items = append(c.items, item)
}

// Remove decrements the quantity of the matching line by one, deleting the
// line when it reaches zero. A miss is a no-op, not an error.
func (c *Cart) Remove(productID, store string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ProductID == productID && c.items[i].Store == store {
			c.items[i].Quantity--
			if c.items[i].Quantity <= 0 {
				c.items = append(c.items[:i], c.items[i+1:]...)
			}
			return
		}
	}
}

// Clear empties the cart. Called once, right after a successful checkout.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items) == 0
}

// Len returns the number of distinct lines in the cart.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Snapshot returns a deep copy of the cart's lines. Orders are built from
// snapshots so later cart mutations never reach a placed order.
func (c *Cart) Snapshot() []LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]LineItem, len(c.items))
	copy(items, c.items)
	return items
}
