package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"contactbook/internal/auth"
	"contactbook/internal/models"
	"contactbook/internal/repositories"
)

const userLocalKey = "current_user"

// AuthRequired is a Fiber middleware that checks for a valid bearer token,
// loads the user named by its subject claim and attaches it to the request
// context. Requests failing any step are rejected with 401 before reaching
// business logic.
func AuthRequired(creds *auth.Credentials, userRepo repositories.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		username, err := creds.Subject(parts[1])
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		user, err := userRepo.GetByUsername(username)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not load user",
			})
		}
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		c.Locals(userLocalKey, user)
		return c.Next()
	}
}

// RequireRole enforces a minimum role on routes already behind
// AuthRequired. Roles are ordered user < moderator < admin.
func RequireRole(min models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := UserFromCtx(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authentication required",
			})
		}
		if !user.Role.AtLeast(min) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Insufficient permissions",
			})
		}
		return c.Next()
	}
}

// UserFromCtx returns the authenticated user attached by AuthRequired, or
// nil when the request was not authenticated.
func UserFromCtx(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocalKey).(*models.User)
	return user
}
