package handlers

import (
	"log"

	"pedefood/internal/middleware"
	"pedefood/internal/models"
	"pedefood/internal/pricing"
	"pedefood/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the session cart.
type CartHandler struct {
	cartService    *services.CartService
	productService *services.ProductService
	calc           pricing.Calculator
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cartService *services.CartService, productService *services.ProductService, calc pricing.Calculator) *CartHandler {
	return &CartHandler{
		cartService:    cartService,
		productService: productService,
		calc:           calc,
	}
}

// RegisterRoutes registers the cart routes.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/carrinho", h.HandleGetCart)
	router.Post("/carrinho/item", h.HandleAddItem)
	router.Delete("/carrinho/item", h.HandleRemoveItem)
}

// HandleGetCart returns the cart with a checkout preview. The preview uses
// the same pricing calculator as order persistence, so the displayed total
// is the total that gets stored. The delivery mode for the preview comes
// from the `entrega` query parameter and defaults to pickup.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"erro": "token not provided"})
	}

	mode := models.DeliveryPickup
	if q := c.Query("entrega"); q != "" {
		parsed, err := models.ParseDeliveryMode(q)
		if err != nil {
			return respondError(c, err)
		}
		mode = parsed
	}

	items := h.cartService.CartFor(actor.UserID).Snapshot()
	return c.JSON(fiber.Map{
		"itens":    items,
		"subtotal": h.calc.Subtotal(items),
		"frete":    h.calc.DeliveryFee(mode),
		"total":    h.calc.Total(items, mode),
	})
}

// AddItemRequest references a catalog product. Name and price are resolved
// server-side so a client cannot assert its own prices.
type AddItemRequest struct {
	ProdutoID string `json:"produto_id"`
}

// HandleAddItem merges one unit of a catalog product into the cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"erro": "token not provided"})
	}

	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing add-item body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"erro": "invalid request body"})
	}
	if req.ProdutoID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"erro": "produto_id is required"})
	}

	product, err := h.productService.GetProductByID(req.ProdutoID)
	if err != nil {
		return respondError(c, err)
	}

	h.cartService.Add(actor.UserID, product.LineItem())
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"mensagem": "item added",
		"itens":    h.cartService.CartFor(actor.UserID).Snapshot(),
	})
}

// RemoveItemRequest identifies the cart line to decrement.
type RemoveItemRequest struct {
	ProdutoID string `json:"produto_id"`
	Loja      string `json:"loja"`
}

// HandleRemoveItem decrements the matching cart line. A miss is still 200:
// removal is a no-op, not an error.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"erro": "token not provided"})
	}

	var req RemoveItemRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing remove-item body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"erro": "invalid request body"})
	}

	h.cartService.Remove(actor.UserID, req.ProdutoID, req.Loja)
	return c.JSON(fiber.Map{
		"mensagem": "item removed",
		"itens":    h.cartService.CartFor(actor.UserID).Snapshot(),
	})
}
