package handlers

import (
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"contactbook/internal/middleware"
	"contactbook/internal/models"
	"contactbook/internal/repositories"
	"contactbook/internal/services"
)

const birthdayLayout = "2006-01-02"

// ContactHandler handles HTTP requests for the authenticated user's
// contacts.
type ContactHandler struct {
	contactService *services.ContactService
	validate       *validator.Validate
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(contactService *services.ContactService) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the contact routes. The router must already be
// behind AuthRequired.
func (h *ContactHandler) RegisterRoutes(router fiber.Router) {
	contactRoutes := router.Group("/contacts")
	contactRoutes.Get("/contacts/search", h.HandleSearch)
	contactRoutes.Get("/contacts/upcoming_birthdays", h.HandleUpcomingBirthdays)
	contactRoutes.Get("/", h.HandleList)
	contactRoutes.Post("/", h.HandleCreate)
	contactRoutes.Get("/:id", h.HandleGet)
	contactRoutes.Put("/:id", h.HandleUpdate)
	contactRoutes.Patch("/:id", h.HandleUpdateStatus)
	contactRoutes.Delete("/:id", h.HandleDelete)
}

// ContactRequest represents the request body for creating a contact.
type ContactRequest struct {
	FirstName      string `json:"first_name" validate:"required,max=100"`
	LastName       string `json:"last_name" validate:"required,max=100"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone" validate:"required,max=50"`
	Birthday       string `json:"birthday" validate:"required,datetime=2006-01-02"`
	AdditionalInfo string `json:"additional_info" validate:"omitempty,max=500"`
	Done           bool   `json:"done"`
}

// ContactUpdateRequest represents a partial update. Absent fields are left
// untouched.
type ContactUpdateRequest struct {
	FirstName      *string `json:"first_name" validate:"omitempty,max=100"`
	LastName       *string `json:"last_name" validate:"omitempty,max=100"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Phone          *string `json:"phone" validate:"omitempty,max=50"`
	Birthday       *string `json:"birthday" validate:"omitempty,datetime=2006-01-02"`
	AdditionalInfo *string `json:"additional_info" validate:"omitempty,max=500"`
	Done           *bool   `json:"done"`
}

// ContactStatusRequest represents a status-only update.
type ContactStatusRequest struct {
	Done *bool `json:"done" validate:"required"`
}

func contactID(c *fiber.Ctx) (uint, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

func contactNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"message": "Contact not found",
	})
}

func internalError(c *fiber.Ctx, action string, err error) error {
	log.Printf("Error %s: %v", action, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Internal server error",
	})
}

// HandleList returns a page of the caller's contacts.
func (h *ContactHandler) HandleList(c *fiber.Ctx) error {
	user := middleware.UserFromCtx(c)
	skip := c.QueryInt("skip", 0)
	limit := c.QueryInt("limit", 100)
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	contacts, err := h.contactService.List(user, skip, limit)
	if err != nil {
		return internalError(c, "listing contacts", err)
	}
	return c.JSON(contacts)
}

// HandleGet returns a single contact owned by the caller.
func (h *ContactHandler) HandleGet(c *fiber.Ctx) error {
	user := middleware.UserFromCtx(c)
	id, ok := contactID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid contact id"})
	}

	contact, err := h.contactService.Get(user, id)
	if err != nil {
		return internalError(c, "getting contact", err)
	}
	if contact == nil {
		return contactNotFound(c)
	}
	return c.JSON(contact)
}

// HandleCreate stores a new contact owned by the caller.
func (h *ContactHandler) HandleCreate(c *fiber.Ctx) error {
	user := middleware.UserFromCtx(c)

	var req ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}
	birthday, _ := time.Parse(birthdayLayout, req.Birthday)

	contact := &models.Contact{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		Birthday:       birthday,
		AdditionalInfo: req.AdditionalInfo,
		Done:           req.Done,
	}
	if err := h.contactService.Create(user, contact); err != nil {
		return internalError(c, "creating contact", err)
	}
	return c.Status(fiber.StatusCreated).JSON(contact)
}

// HandleUpdate applies a partial update to a contact owned by the caller.
func (h *ContactHandler) HandleUpdate(c *fiber.Ctx) error {
	user := middleware.UserFromCtx(c)
	id, ok := contactID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid contact id"})
	}

	var req ContactUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	update := &models.ContactUpdate{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		AdditionalInfo: req.AdditionalInfo,
		Done:           req.Done,
	}
	if req.Birthday != nil {
		birthday, _ := time.Parse(birthdayLayout, *req.Birthday)
		update.Birthday = &birthday
	}

	contact, err := h.contactService.Update(user, id, update)
	if err != nil {
		return internalError(c, "updating contact", err)
	}
	if contact == nil {
		return contactNotFound(c)
	}
	return c.JSON(contact)
}

// HandleUpdateStatus sets the done flag on a contact owned by the caller.
func (h *ContactHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	user := middleware.UserFromCtx(c)
	id, ok := contactID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid contact id"})
	}

	var req ContactStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	contact, err := h.contactService.UpdateStatus(user, id, *req.Done)
	if err != nil {
		return internalError(c, "updating contact status", err)
	}
	if contact == nil {
		return contactNotFound(c)
	}
	return c.JSON(contact)
}

// HandleDelete permanently removes a contact owned by the caller.
func (h *ContactHandler) HandleDelete(c *fiber.Ctx) error {
	user := middleware.UserFromCtx(c)
	id, ok := contactID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid contact id"})
	}

	contact, err := h.contactService.Delete(user, id)
	if err != nil {
		return internalError(c, "deleting contact", err)
	}
	if contact == nil {
		return contactNotFound(c)
	}
	return c.JSON(contact)
}

// HandleSearch returns the caller's contacts matching the given filters.
// Filters are optional, case-insensitive substrings, AND-combined.
func (h *ContactHandler) HandleSearch(c *fiber.Ctx) error {
	user := middleware.UserFromCtx(c)
	filter := repositories.SearchFilter{
		FirstName: c.Query("first_name"),
		LastName:  c.Query("last_name"),
		Email:     c.Query("email"),
	}

	contacts, err := h.contactService.Search(user, filter)
	if err != nil {
		return internalError(c, "searching contacts", err)
	}
	return c.JSON(contacts)
}

// HandleUpcomingBirthdays returns the caller's contacts whose birthday
// falls within the next 7 days.
func (h *ContactHandler) HandleUpcomingBirthdays(c *fiber.Ctx) error {
	user := middleware.UserFromCtx(c)

	contacts, err := h.contactService.UpcomingBirthdays(user, time.Now())
	if err != nil {
		return internalError(c, "loading upcoming birthdays", err)
	}
	return c.JSON(contacts)
}
