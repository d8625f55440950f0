package models

import (
	"fmt"

	"pedefood/internal/errs"
)

// OrderStatus is the lifecycle state of an order.
//
//	pending ──> accepted ──> out_for_delivery ──> delivered
//	   │
//	   └──> cancelled
//
// delivered and cancelled are terminal; accepted and out_for_delivery only
// move forward along the delivery chain.
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusAccepted       OrderStatus = "accepted"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

// ParseOrderStatus validates an untrusted status string.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case StatusPending, StatusAccepted, StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return OrderStatus(s), nil
	default:
		return "", errs.Validationf("unknown order status %q", s)
	}
}

// Event names a lifecycle transition an actor can request.
type Event string

const (
	EventAccept   Event = "accept"
	EventDispatch Event = "dispatch"
	EventDeliver  Event = "deliver"
	EventCancel   Event = "cancel"
)

// transition binds an event to its required pre-state, its result state and
// the only role allowed to fire it.
type transition struct {
	From OrderStatus
	To   OrderStatus
	Role Role
}

var transitions = map[Event]transition{
	EventAccept:   {From: StatusPending, To: StatusAccepted, Role: RoleOwner},
	EventDispatch: {From: StatusAccepted, To: StatusOutForDelivery, Role: RoleCourier},
	EventDeliver:  {From: StatusOutForDelivery, To: StatusDelivered, Role: RoleCourier},
	EventCancel:   {From: StatusPending, To: StatusCancelled, Role: RoleCustomer},
}

// Apply checks that event is legal from the current status and permitted for
// the actor's role, returning the resulting status. The order itself is not
// touched; callers persist the result with a conditional write keyed on the
// pre-state.
func (s OrderStatus) Apply(event Event, role Role) (OrderStatus, error) {
	t, ok := transitions[event]
	if !ok {
		return "", fmt.Errorf("%w: unknown event %q", errs.ErrInvalidTransition, event)
	}
	if role != t.Role {
		return "", fmt.Errorf("%w: role %s may not %s an order", errs.ErrForbidden, role, event)
	}
	if s != t.From {
		return "", fmt.Errorf("%w: cannot %s an order in status %s", errs.ErrInvalidTransition, event, s)
	}
	return t.To, nil
}

// EventFor maps a desired target status onto the event that produces it.
// This backs the legacy PUT /pedido/:id endpoint, which carries the target
// status rather than an event name.
func EventFor(target OrderStatus) (Event, error) {
	for e, t := range transitions {
		if t.To == target {
			return e, nil
		}
	}
	return "", fmt.Errorf("%w: no transition leads to status %s", errs.ErrInvalidTransition, target)
}

// CancellationReasons is the closed set of reasons a customer may give when
// cancelling a pending order.
var CancellationReasons = []string{
	"price too high",
	"delivery time too long",
	"wrong address",
	"duplicate order",
	"changed my mind",
	"wrong payment method",
	"card problem",
	"wrong product",
	"wrong quantity",
	"no longer needed",
	"personal problem",
	"incomplete address",
	"found it cheaper",
	"technical problem in the app",
	"delivery too expensive",
	"confirmation took too long",
	"other reason",
}

// ValidCancellationReason reports whether reason belongs to the closed set.
func ValidCancellationReason(reason string) bool {
	for _, r := range CancellationReasons {
		if r == reason {
			return true
		}
	}
	return false
}
