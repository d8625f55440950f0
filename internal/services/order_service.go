package services

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"pedefood/internal/errs"
	"pedefood/internal/models"
	"pedefood/internal/pricing"
	"pedefood/internal/repositories"
)

// EventPublisher fans out status-change events to interested actors.
// Delivery is best-effort: the lifecycle never waits on subscribers and a
// failed publish is logged, not propagated.
type EventPublisher interface {
	PublishStatusChanged(orderID string, status models.OrderStatus) error
}

// OrderService is the order lifecycle manager. It owns the checkout rules
// and the status state machine: every transition is checked against the
// table in models before anything is persisted, and persistence is a
// conditional write so concurrent actors cannot both move the same order.
type OrderService struct {
	orderRepo repositories.OrderRepository
	calc      pricing.Calculator
	publisher EventPublisher

	// inFlight guards against duplicate checkout submissions per customer.
	inFlight   map[string]struct{}
	inFlightMu sync.Mutex
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, calc pricing.Calculator, publisher EventPublisher) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		calc:      calc,
		publisher: publisher,
		inFlight:  make(map[string]struct{}),
	}
}

// Checkout turns the customer's cart into a pending order. The order holds
// a deep copy of the cart lines, so the cart can be mutated afterwards
// without touching the placed order; the cart is cleared only once the
// order is safely persisted. A second checkout for the same customer while
// one is in flight fails with errs.ErrCheckoutInFlight and creates nothing.
func (s *OrderService) Checkout(actor Actor, cart *models.Cart, payment models.PaymentMethod, delivery models.DeliveryMode) (*models.Order, error) {
	if actor.Role != models.RoleCustomer {
		return nil, fmt.Errorf("%w: only customers can place orders", errs.ErrForbidden)
	}
	if cart == nil || cart.IsEmpty() {
		return nil, errs.ErrEmptyCart
	}

	s.inFlightMu.Lock()
	if _, busy := s.inFlight[actor.UserID]; busy {
		s.inFlightMu.Unlock()
		return nil, errs.ErrCheckoutInFlight
	}
	s.inFlight[actor.UserID] = struct{}{}
	s.inFlightMu.Unlock()

	defer func() {
		s.inFlightMu.Lock()
		delete(s.inFlight, actor.UserID)
		s.inFlightMu.Unlock()
	}()

	items := cart.Snapshot()
	subtotal := s.calc.Subtotal(items)
	fee := s.calc.DeliveryFee(delivery)

	order := &models.Order{
		ID:            uuid.New().String(),
		CustomerID:    actor.UserID,
		CustomerName:  actor.Name,
		Items:         items,
		PaymentMethod: payment,
		DeliveryMode:  delivery,
		DeliveryFee:   fee,
		Subtotal:      subtotal,
		Total:         subtotal.Add(fee),
		Status:        models.StatusPending,
		CreatedAt:     time.Now(),
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	cart.Clear()
	s.publish(order.ID, order.Status)
	return order, nil
}

// Accept moves a pending order to accepted. Owner only.
func (s *OrderService) Accept(actor Actor, orderID string) (*models.Order, error) {
	return s.transition(actor, orderID, models.EventAccept, "")
}

// Dispatch moves an accepted order to out_for_delivery. Courier only.
func (s *OrderService) Dispatch(actor Actor, orderID string) (*models.Order, error) {
	return s.transition(actor, orderID, models.EventDispatch, "")
}

// Deliver moves an out_for_delivery order to delivered. Courier only.
func (s *OrderService) Deliver(actor Actor, orderID string) (*models.Order, error) {
	return s.transition(actor, orderID, models.EventDeliver, "")
}

// Cancel moves a pending order to cancelled. Customer only, and only while
// the order is still pending; the reason must come from the predefined set.
func (s *OrderService) Cancel(actor Actor, orderID string, reason string) (*models.Order, error) {
	if !models.ValidCancellationReason(reason) {
		return nil, errs.Validationf("unknown cancellation reason %q", reason)
	}
	return s.transition(actor, orderID, models.EventCancel, reason)
}

// transition runs the full lifecycle step: load, check the state machine
// and the actor's role, persist with a conditional write, publish. Losing a
// status race surfaces as ErrStaleStatus; nothing partial is ever stored.
func (s *OrderService) transition(actor Actor, orderID string, event models.Event, reason string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}

	if event == models.EventCancel && order.CustomerID != actor.UserID {
		return nil, fmt.Errorf("%w: only the order's customer may cancel it", errs.ErrForbidden)
	}

	next, err := order.Status.Apply(event, actor.Role)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.UpdateStatus(orderID, order.Status, next, reason); err != nil {
		return nil, err
	}

	order.Status = next
	if next == models.StatusCancelled {
		order.CancellationReason = reason
	}
	s.publish(orderID, next)
	return order, nil
}

// ListOrders returns orders newest first. Customers see only their own;
// owner and courier see everything.
func (s *OrderService) ListOrders(actor Actor) ([]models.Order, error) {
	orders, err := s.orderRepo.ListRecentFirst()
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleCustomer {
		return orders, nil
	}
	own := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.CustomerID == actor.UserID {
			own = append(own, o)
		}
	}
	return own, nil
}

// GetOrder retrieves a single order by its ID.
func (s *OrderService) GetOrder(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// DeleteOrder removes an order record. Administrative operation, owner only.
func (s *OrderService) DeleteOrder(actor Actor, orderID string) error {
	if actor.Role != models.RoleOwner {
		return fmt.Errorf("%w: only the owner may delete orders", errs.ErrForbidden)
	}
	return s.orderRepo.Delete(orderID)
}

func (s *OrderService) publish(orderID string, status models.OrderStatus) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishStatusChanged(orderID, status); err != nil {
		log.Printf("Warning: failed to publish status event for order %s: %v", orderID, err)
	}
}
