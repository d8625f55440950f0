package middleware

import (
	"log"
	"strings"

	"pedefood/internal/services"

	"github.com/gofiber/fiber/v2"
)

// actorKey is the fiber.Ctx locals key holding the verified Actor.
const actorKey = "actor"

// AuthRequired is the access gate for authenticated routes. A missing or
// malformed Authorization header is 401; a credential that is present but
// invalid or expired is 403, matching the legacy API contract.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"erro": "token not provided",
			})
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"erro": "authorization header must be 'Bearer <token>'",
			})
		}

		actor, err := authService.ValidateToken(parts[1])
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"erro": "invalid or expired token",
			})
		}

		c.Locals(actorKey, actor)
		return c.Next()
	}
}

// ActorFrom extracts the Actor stored by AuthRequired. The second return is
// false on routes that skipped the gate.
func ActorFrom(c *fiber.Ctx) (services.Actor, bool) {
	actor, ok := c.Locals(actorKey).(*services.Actor)
	if !ok || actor == nil {
		return services.Actor{}, false
	}
	return *actor, true
}
