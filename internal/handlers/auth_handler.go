package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"contactbook/internal/auth"
	"contactbook/internal/middleware"
	"contactbook/internal/models"
	"contactbook/internal/services"
)

// AuthHandler handles HTTP requests for registration, login, email
// confirmation and password resets.
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

// RegisterRoutes registers the authentication routes. authRequired guards
// the role-gated demo routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Get("/confirmed_email/:token", h.HandleConfirmEmail)
	authRoutes.Post("/request_email", h.HandleRequestEmail)
	authRoutes.Post("/request-password-reset", h.HandleRequestPasswordReset)
	authRoutes.Get("/reset-password/:token", h.HandleVerifyResetToken)
	authRoutes.Post("/reset-password/:token", h.HandleResetPassword)

	authRoutes.Get("/public", h.HandlePublic)
	authRoutes.Get("/moderator", authRequired, middleware.RequireRole(models.RoleModerator), h.HandleModerator)
	authRoutes.Get("/admin", authRequired, middleware.RequireRole(models.RoleAdmin), h.HandleAdmin)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	user, err := h.authService.Register(req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) || errors.Is(err, services.ErrUsernameTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": err.Error(),
			})
		}
		log.Printf("Error registering user: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not register user",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// LoginRequest represents the form-encoded login request.
type LoginRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// HandleLogin authenticates a user and issues an access token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	token, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailNotConfirmed) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Email address is not confirmed",
			})
		}
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Incorrect username or password",
			})
		}
		log.Printf("Error during login for user %s: %v", req.Username, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Authentication failed",
		})
	}

	return c.JSON(fiber.Map{
		"access_token": token,
		"token_type":   "bearer",
	})
}

// HandleConfirmEmail verifies the email address named by the link token.
// Confirming an already-confirmed email is an idempotent success.
func (h *AuthHandler) HandleConfirmEmail(c *fiber.Ctx) error {
	already, err := h.authService.ConfirmEmail(c.Params("token"))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Verification error",
			})
		}
		log.Printf("Error confirming email: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not confirm email",
		})
	}
	if already {
		return c.JSON(fiber.Map{"message": "Your email is already confirmed"})
	}
	return c.JSON(fiber.Map{"message": "Email confirmed"})
}

// RequestEmailRequest carries the email address for resend and reset
// requests.
type RequestEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// HandleRequestEmail re-sends the verification email.
func (h *AuthHandler) HandleRequestEmail(c *fiber.Ctx) error {
	var req RequestEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	already, err := h.authService.RequestEmail(req.Email)
	if err != nil {
		log.Printf("Error requesting verification email: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not send verification email",
		})
	}
	if already {
		return c.JSON(fiber.Map{"message": "Your email is already confirmed"})
	}
	return c.JSON(fiber.Map{"message": "Check your email for confirmation"})
}

// HandleRequestPasswordReset queues a password-reset email.
func (h *AuthHandler) HandleRequestPasswordReset(c *fiber.Ctx) error {
	var req RequestEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	if err := h.authService.RequestPasswordReset(req.Email); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
			})
		}
		log.Printf("Error requesting password reset: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not send password reset email",
		})
	}
	return c.JSON(fiber.Map{"message": "Password reset email sent"})
}

// HandleVerifyResetToken checks a reset link before the client shows the
// new-password form.
func (h *AuthHandler) HandleVerifyResetToken(c *fiber.Ctx) error {
	email, err := h.authService.VerifyResetToken(c.Params("token"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid or expired token",
		})
	}
	return c.JSON(fiber.Map{
		"message": "Token is valid",
		"email":   email,
	})
}

// ResetPasswordRequest carries the replacement password.
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// HandleResetPassword overwrites the password for the user named by the
// reset token.
func (h *AuthHandler) HandleResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	if err := h.authService.ResetPassword(c.Params("token"), req.NewPassword); err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
			})
		}
		log.Printf("Error resetting password: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not reset password",
		})
	}
	return c.JSON(fiber.Map{"message": "Password has been reset successfully"})
}

// HandlePublic is open to everyone.
func (h *AuthHandler) HandlePublic(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "This is a public route, open to everyone"})
}

// HandleModerator is open to moderators and administrators.
func (h *AuthHandler) HandleModerator(c *fiber.Ctx) error {
	user := middleware.UserFromCtx(c)
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Welcome, %s! This route is for moderators and administrators", user.Username),
	})
}

// HandleAdmin is open to administrators only.
func (h *AuthHandler) HandleAdmin(c *fiber.Ctx) error {
	user := middleware.UserFromCtx(c)
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Welcome, %s! This is an administrative route", user.Username),
	})
}
