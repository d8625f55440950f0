package services_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pedefood/internal/errs"
	"pedefood/internal/models"
	"pedefood/internal/pricing"
	"pedefood/internal/repositories"
	"pedefood/internal/services"
)

// recordingPublisher captures published status events. Safe for concurrent
// use because lifecycle races publish from multiple goroutines.
type recordingPublisher struct {
	mu     sync.Mutex
	events []models.OrderStatus
}

func (p *recordingPublisher) PublishStatusChanged(orderID string, status models.OrderStatus) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, status)
	return nil
}

func (p *recordingPublisher) Events() []models.OrderStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.OrderStatus, len(p.events))
	copy(out, p.events)
	return out
}

var (
	customer = services.Actor{UserID: "cust-1", Name: "Maria", Role: models.RoleCustomer}
	owner    = services.Actor{UserID: "own-1", Name: "Carlos", Role: models.RoleOwner}
	courier  = services.Actor{UserID: "cour-1", Name: "João", Role: models.RoleCourier}
)

func newOrderService() (*services.OrderService, *repositories.MemoryOrderRepository, *recordingPublisher) {
	repo := repositories.NewMemoryOrderRepository()
	pub := &recordingPublisher{}
	svc := services.NewOrderService(repo, pricing.NewCalculator(decimal.NewFromInt(8)), pub)
	return svc, repo, pub
}

func cartWith(items ...models.LineItem) *models.Cart {
	cart := models.NewCart()
	for _, item := range items {
		cart.Add(item)
	}
	return cart
}

func soda(qty int) models.LineItem {
	return models.LineItem{
		ProductID: "prod-1",
		Name:      "Refrigerante 2L",
		UnitPrice: decimal.NewFromFloat(9.99),
		Store:     "Bebidas",
		Quantity:  qty,
	}
}

func TestOrderService_Checkout(t *testing.T) {
	svc, repo, pub := newOrderService()
	cart := cartWith(soda(2))

	order, err := svc.Checkout(customer, cart, models.PaymentPix, models.DeliveryCourier)
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, customer.UserID, order.CustomerID)
	assert.Equal(t, "Maria", order.CustomerName)
	assert.True(t, order.Subtotal.Equal(decimal.NewFromFloat(19.98)))
	assert.True(t, order.DeliveryFee.Equal(decimal.NewFromInt(8)))
	assert.True(t, order.Total.Equal(decimal.NewFromFloat(27.98)))
	assert.True(t, cart.IsEmpty(), "cart must be cleared after a successful checkout")
	assert.Equal(t, []models.OrderStatus{models.StatusPending}, pub.Events())

	stored, err := repo.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, stored.ID)
}

func TestOrderService_Checkout_PickupHasNoFee(t *testing.T) {
	svc, _, _ := newOrderService()

	order, err := svc.Checkout(customer, cartWith(soda(2)), models.PaymentCash, models.DeliveryPickup)
	require.NoError(t, err)
	assert.True(t, order.DeliveryFee.IsZero())
	assert.True(t, order.Total.Equal(order.Subtotal))
}

func TestOrderService_Checkout_EmptyCart(t *testing.T) {
	svc, repo, pub := newOrderService()

	_, err := svc.Checkout(customer, models.NewCart(), models.PaymentPix, models.DeliveryPickup)
	assert.ErrorIs(t, err, errs.ErrEmptyCart)

	orders, _ := repo.ListRecentFirst()
	assert.Empty(t, orders, "no order may be constructed from an empty cart")
	assert.Empty(t, pub.Events())
}

func TestOrderService_Checkout_NonCustomer(t *testing.T) {
	svc, _, _ := newOrderService()

	_, err := svc.Checkout(owner, cartWith(soda(1)), models.PaymentPix, models.DeliveryPickup)
	assert.ErrorIs(t, err, errs.ErrForbidden)
}

func TestOrderService_Checkout_SnapshotImmuneToCartMutation(t *testing.T) {
	svc, repo, _ := newOrderService()
	cart := cartWith(soda(2))

	order, err := svc.Checkout(customer, cart, models.PaymentPix, models.DeliveryPickup)
	require.NoError(t, err)

	// The cart was cleared; refill and mutate it heavily.
	cart.Add(soda(5))
	cart.Add(models.LineItem{ProductID: "prod-2", Name: "Pizza", UnitPrice: decimal.NewFromInt(50), Store: "Fast Food", Quantity: 1})

	stored, err := repo.GetByID(order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 2, stored.Items[0].Quantity, "placed order must not see later cart mutations")
}

// blockingOrderRepo stalls Create until released, to hold a checkout in
// flight while a duplicate submission arrives.
type blockingOrderRepo struct {
	*repositories.MemoryOrderRepository
	entered chan struct{}
	release chan struct{}
}

func (r *blockingOrderRepo) Create(order *models.Order) error {
	close(r.entered)
	<-r.release
	return r.MemoryOrderRepository.Create(order)
}

func TestOrderService_Checkout_DuplicateSubmissionIsRejected(t *testing.T) {
	repo := &blockingOrderRepo{
		MemoryOrderRepository: repositories.NewMemoryOrderRepository(),
		entered:               make(chan struct{}),
		release:               make(chan struct{}),
	}
	svc := services.NewOrderService(repo, pricing.NewCalculator(decimal.NewFromInt(8)), &recordingPublisher{})

	first := make(chan error, 1)
	go func() {
		_, err := svc.Checkout(customer, cartWith(soda(1)), models.PaymentPix, models.DeliveryPickup)
		first <- err
	}()

	<-repo.entered // first checkout is now persisting

	_, err := svc.Checkout(customer, cartWith(soda(1)), models.PaymentPix, models.DeliveryPickup)
	assert.ErrorIs(t, err, errs.ErrCheckoutInFlight)

	close(repo.release)
	require.NoError(t, <-first)

	orders, _ := repo.ListRecentFirst()
	assert.Len(t, orders, 1, "a double submission must not create a second order")
}

func placePendingOrder(t *testing.T, svc *services.OrderService) *models.Order {
	t.Helper()
	order, err := svc.Checkout(customer, cartWith(soda(2)), models.PaymentPix, models.DeliveryCourier)
	require.NoError(t, err)
	return order
}

func TestOrderService_FullDeliveryChain(t *testing.T) {
	svc, _, pub := newOrderService()
	order := placePendingOrder(t, svc)

	accepted, err := svc.Accept(owner, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, accepted.Status)

	dispatched, err := svc.Dispatch(courier, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOutForDelivery, dispatched.Status)

	delivered, err := svc.Deliver(courier, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, delivered.Status)

	// Events for the same order arrive in transition order.
	assert.Equal(t, []models.OrderStatus{
		models.StatusPending,
		models.StatusAccepted,
		models.StatusOutForDelivery,
		models.StatusDelivered,
	}, pub.Events())
}

func TestOrderService_Accept_WrongRole(t *testing.T) {
	svc, repo, _ := newOrderService()
	order := placePendingOrder(t, svc)

	_, err := svc.Accept(customer, order.ID)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	stored, _ := repo.GetByID(order.ID)
	assert.Equal(t, models.StatusPending, stored.Status, "failed transition must not mutate the order")
}

func TestOrderService_Dispatch_FromPending(t *testing.T) {
	svc, repo, _ := newOrderService()
	order := placePendingOrder(t, svc)

	_, err := svc.Dispatch(courier, order.ID)
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)

	stored, _ := repo.GetByID(order.ID)
	assert.Equal(t, models.StatusPending, stored.Status)
}

func TestOrderService_Cancel(t *testing.T) {
	svc, repo, _ := newOrderService()
	order := placePendingOrder(t, svc)

	cancelled, err := svc.Cancel(customer, order.ID, "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	assert.Equal(t, "changed my mind", cancelled.CancellationReason)

	stored, _ := repo.GetByID(order.ID)
	assert.Equal(t, "changed my mind", stored.CancellationReason)
}

func TestOrderService_Cancel_InvalidReason(t *testing.T) {
	svc, repo, _ := newOrderService()
	order := placePendingOrder(t, svc)

	_, err := svc.Cancel(customer, order.ID, "just because")
	assert.ErrorIs(t, err, errs.ErrValidation)

	stored, _ := repo.GetByID(order.ID)
	assert.Equal(t, models.StatusPending, stored.Status)
}

func TestOrderService_Cancel_AfterAccept(t *testing.T) {
	svc, repo, _ := newOrderService()
	order := placePendingOrder(t, svc)

	_, err := svc.Accept(owner, order.ID)
	require.NoError(t, err)

	_, err = svc.Cancel(customer, order.ID, "changed my mind")
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)

	stored, _ := repo.GetByID(order.ID)
	assert.Equal(t, models.StatusAccepted, stored.Status, "cancel after accept must leave the order accepted")
}

func TestOrderService_Cancel_OtherCustomersOrder(t *testing.T) {
	svc, _, _ := newOrderService()
	order := placePendingOrder(t, svc)

	stranger := services.Actor{UserID: "cust-2", Name: "Ana", Role: models.RoleCustomer}
	_, err := svc.Cancel(stranger, order.ID, "changed my mind")
	assert.ErrorIs(t, err, errs.ErrForbidden)
}

// Concurrent accept and cancel on the same pending order: exactly one may
// win; the loser observes a stale-state rejection.
func TestOrderService_AcceptCancelRace(t *testing.T) {
	for i := 0; i < 50; i++ {
		svc, repo, _ := newOrderService()
		order := placePendingOrder(t, svc)

		var wg sync.WaitGroup
		results := make([]error, 2)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, results[0] = svc.Accept(owner, order.ID)
		}()
		go func() {
			defer wg.Done()
			_, results[1] = svc.Cancel(customer, order.ID, "changed my mind")
		}()
		wg.Wait()

		var successes int
		for _, err := range results {
			if err == nil {
				successes++
				continue
			}
			if !errors.Is(err, errs.ErrStaleStatus) && !errors.Is(err, errs.ErrInvalidTransition) {
				t.Fatalf("unexpected race loser error: %v", err)
			}
		}
		require.Equal(t, 1, successes, "exactly one of accept/cancel may win")

		stored, err := repo.GetByID(order.ID)
		require.NoError(t, err)
		assert.Contains(t, []models.OrderStatus{models.StatusAccepted, models.StatusCancelled}, stored.Status)
	}
}

func TestOrderService_ListOrders(t *testing.T) {
	svc, _, _ := newOrderService()

	first := placePendingOrder(t, svc)
	other := services.Actor{UserID: "cust-2", Name: "Ana", Role: models.RoleCustomer}
	_, err := svc.Checkout(other, cartWith(soda(1)), models.PaymentCard, models.DeliveryPickup)
	require.NoError(t, err)

	own, err := svc.ListOrders(customer)
	require.NoError(t, err)
	require.Len(t, own, 1, "customers see only their own orders")
	assert.Equal(t, first.ID, own[0].ID)

	all, err := svc.ListOrders(owner)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestOrderService_TransitionOnMissingOrder(t *testing.T) {
	svc, _, _ := newOrderService()

	_, err := svc.Accept(owner, "no-such-order")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestOrderService_DeleteOrder(t *testing.T) {
	svc, repo, _ := newOrderService()
	order := placePendingOrder(t, svc)

	err := svc.DeleteOrder(customer, order.ID)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	err = svc.DeleteOrder(owner, order.ID)
	require.NoError(t, err)

	_, err = repo.GetByID(order.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
