package handlers

import (
	"errors"
	"fmt"
	"log"

	"pedefood/internal/errs"
	"pedefood/internal/models"
	"pedefood/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for registration and login.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes. The paths keep the
// legacy API surface: POST /register and POST /login at the root.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/register", h.HandleRegister)
	router.Post("/login", h.HandleLogin)
}

// RegisterRequest is the registration payload, legacy field names.
type RegisterRequest struct {
	Nome  string `json:"nome" validate:"required,min=2,max=100"`
	Email string `json:"email" validate:"required,email"`
	Senha string `json:"senha" validate:"required,min=6"`
	Tipo  string `json:"tipo" validate:"required"`
}

// HandleRegister handles new user registration. Duplicate email answers
// 400 like the legacy API, not 409.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"erro": "invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"erro":   "validation failed",
			"campos": errorMessages,
		})
	}

	role, err := models.ParseRole(req.Tipo)
	if err != nil {
		return respondError(c, err)
	}

	user := models.User{
		Name:     req.Nome,
		Email:    req.Email,
		Password: req.Senha,
		Role:     role,
	}
	if err := h.authService.RegisterUser(&user); err != nil {
		log.Printf("Error registering user: %v", err)
		if errors.Is(err, errs.ErrConflict) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"erro": "email already registered",
			})
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"mensagem": "user created",
		"id":       user.ID,
	})
}

// LoginRequest is the login payload, legacy field names.
type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
	Senha string `json:"senha" validate:"required"`
}

// HandleLogin authenticates a user and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"erro": "invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"erro": "email and senha are required",
		})
	}

	token, user, err := h.authService.LoginUser(req.Email, req.Senha)
	if err != nil {
		log.Printf("Error during login for %s: %v", req.Email, err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"erro": "invalid credentials",
		})
	}

	return c.JSON(fiber.Map{
		"token": token,
		"nome":  user.Name,
		"tipo":  user.Role,
		"email": user.Email,
	})
}
