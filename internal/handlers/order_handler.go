package handlers

import (
	"log"

	"pedefood/internal/errs"
	"pedefood/internal/middleware"
	"pedefood/internal/models"
	"pedefood/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	orderService   *services.OrderService
	cartService    *services.CartService
	productService *services.ProductService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *services.OrderService, cartService *services.CartService, productService *services.ProductService) *OrderHandler {
	return &OrderHandler{
		orderService:   orderService,
		cartService:    cartService,
		productService: productService,
	}
}

// RegisterRoutes registers the order routes, legacy paths preserved.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/pedido", h.HandleCreateOrder)
	router.Get("/pedidos", h.HandleListOrders)
	router.Put("/pedido/:id", h.HandleUpdateStatus)
	router.Delete("/pedido/:id", h.HandleDeleteOrder)
}

// CreateOrderRequest is the checkout payload: the canonical rich shape.
// Itens may be omitted, in which case the server-held session cart is used.
// Each item only references a catalog product; name, price and store are
// resolved server-side, never taken from the client.
type CreateOrderRequest struct {
	Itens     []CheckoutItem `json:"itens"`
	Pagamento string         `json:"pagamento"`
	Entrega   string         `json:"entrega"`
}

// CheckoutItem references a catalog product at a given quantity.
type CheckoutItem struct {
	ProdutoID  string `json:"product_id"`
	Quantidade int    `json:"quantidade"`
}

// HandleCreateOrder turns the customer's cart into a pending order.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"erro": "token not provided"})
	}

	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing checkout request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"erro": "invalid request body"})
	}

	payment, err := models.ParsePaymentMethod(req.Pagamento)
	if err != nil {
		return respondError(c, err)
	}
	delivery, err := models.ParseDeliveryMode(req.Entrega)
	if err != nil {
		return respondError(c, err)
	}

	// A submitted item list is resolved against the catalog and run through
	// the cart aggregator, so duplicate product lines merge the same way an
	// interactive cart would and client-asserted prices never enter an order.
	cart := h.cartService.CartFor(actor.UserID)
	if len(req.Itens) > 0 {
		cart = models.NewCart()
		for _, item := range req.Itens {
			if item.ProdutoID == "" {
				return respondError(c, errs.Validationf("every item needs a product_id"))
			}
			if item.Quantidade < 0 {
				return respondError(c, errs.Validationf("quantidade must be at least 1"))
			}
			product, err := h.productService.GetProductByID(item.ProdutoID)
			if err != nil {
				return respondError(c, err)
			}
			line := product.LineItem()
			line.Quantity = item.Quantidade
			cart.Add(line)
		}
	}

	order, err := h.orderService.Checkout(actor, cart, payment, delivery)
	if err != nil {
		log.Printf("Error creating order for %s: %v", actor.UserID, err)
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleListOrders returns orders newest first, scoped by the actor's role.
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"erro": "token not provided"})
	}

	orders, err := h.orderService.ListOrders(actor)
	if err != nil {
		log.Printf("Error listing orders: %v", err)
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// UpdateStatusRequest carries the desired target status, legacy shape.
// Motivo is required only when the target is cancelled.
type UpdateStatusRequest struct {
	Status string `json:"status"`
	Motivo string `json:"motivo"`
}

// HandleUpdateStatus applies a lifecycle transition. Unlike the legacy
// endpoint, the desired status is mapped to a transition event and run
// through the state machine, so an actor can no longer assert an arbitrary
// status string.
func (h *OrderHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"erro": "token not provided"})
	}
	orderID := c.Params("id")

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing status update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"erro": "invalid request body"})
	}
	if req.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"erro": "status is required"})
	}

	target, err := models.ParseOrderStatus(req.Status)
	if err != nil {
		return respondError(c, err)
	}
	event, err := models.EventFor(target)
	if err != nil {
		return respondError(c, err)
	}

	var order *models.Order
	switch event {
	case models.EventAccept:
		order, err = h.orderService.Accept(actor, orderID)
	case models.EventDispatch:
		order, err = h.orderService.Dispatch(actor, orderID)
	case models.EventDeliver:
		order, err = h.orderService.Deliver(actor, orderID)
	case models.EventCancel:
		order, err = h.orderService.Cancel(actor, orderID, req.Motivo)
	}
	if err != nil {
		log.Printf("Error updating status of order %s: %v", orderID, err)
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"mensagem": "status updated",
		"pedido":   order,
	})
}

// HandleDeleteOrder removes an order record. Owner only.
func (h *OrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"erro": "token not provided"})
	}
	orderID := c.Params("id")

	if err := h.orderService.DeleteOrder(actor, orderID); err != nil {
		log.Printf("Error deleting order %s: %v", orderID, err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"mensagem": "order removed"})
}
