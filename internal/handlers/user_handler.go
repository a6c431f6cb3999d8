package handlers

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"contactbook/internal/middleware"
	"contactbook/internal/services"
)

// UserHandler handles HTTP requests for the authenticated user's profile.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// RegisterRoutes registers the user profile routes. The router must
// already be behind AuthRequired.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	// No more than 10 requests per minute on /me.
	userRoutes.Get("/me", limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Minute,
	}), h.HandleMe)
	userRoutes.Patch("/avatar", h.HandleUpdateAvatar)
}

// HandleMe returns the authenticated user.
func (h *UserHandler) HandleMe(c *fiber.Ctx) error {
	return c.JSON(middleware.UserFromCtx(c))
}

// HandleUpdateAvatar uploads a new avatar image from a multipart form
// field named "file" and returns the updated user.
func (h *UserHandler) HandleUpdateAvatar(c *fiber.Ctx) error {
	user := middleware.UserFromCtx(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "A 'file' form field is required",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return internalError(c, "opening uploaded avatar", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return internalError(c, "reading uploaded avatar", err)
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	updated, err := h.userService.UpdateAvatar(c.Context(), user, fileHeader.Filename, contentType, data)
	if err != nil {
		return internalError(c, "updating avatar", err)
	}
	return c.JSON(updated)
}
