package handlers

import (
	"fmt"

	"lapak/internal/middleware"
	"lapak/internal/models"
	"lapak/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// StoreHandler handles the vendor-side store and analytics endpoints.
type StoreHandler struct {
	sync     *services.SyncService
	validate *validator.Validate
}

// NewStoreHandler creates a new StoreHandler.
func NewStoreHandler(sync *services.SyncService) *StoreHandler {
	return &StoreHandler{
		sync:     sync,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the store routes with the Fiber app.
func (h *StoreHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/store", h.HandleGetStore)
	router.Put("/store", h.HandleSaveStore)
	router.Delete("/store/data", h.HandleClearData)
	router.Get("/analytics", h.HandleGetAnalytics)
}

// HandleGetStore returns the vendor's store, bootstrapping from the document
// store (or cache) on first access.
func (h *StoreHandler) HandleGetStore(c *fiber.Ctx) error {
	ownerID := middleware.OwnerID(c)
	if !h.sync.Loaded(ownerID) {
		h.sync.Bootstrap(ownerID)
	}
	return c.JSON(fiber.Map{
		"store":    h.sync.StoreSnapshot(ownerID),
		"products": h.sync.ProductsSnapshot(ownerID),
	})
}

// HandleSaveStore merges a partial store update.
func (h *StoreHandler) HandleSaveStore(c *fiber.Ctx) error {
	var changes models.StoreChanges
	if err := c.BodyParser(&changes); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(changes); err != nil {
		return validationError(c, err)
	}

	store, err := h.sync.SaveStore(middleware.OwnerID(c), changes)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "Store save failed remotely; local copy was kept",
			"store":   store,
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"store": store})
}

// HandleClearData wipes the vendor's device-local state. The remote store is
// untouched.
func (h *StoreHandler) HandleClearData(c *fiber.Ctx) error {
	if err := h.sync.ClearAllData(middleware.OwnerID(c)); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not clear data",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Local data cleared"})
}

// HandleGetAnalytics returns the derived analytics snapshot.
func (h *StoreHandler) HandleGetAnalytics(c *fiber.Ctx) error {
	ownerID := middleware.OwnerID(c)
	if !h.sync.Loaded(ownerID) {
		h.sync.Bootstrap(ownerID)
	}
	return c.JSON(fiber.Map{"analytics": h.sync.AnalyticsSnapshot(ownerID)})
}

// validationError renders validator errors the same way for every handler.
func validationError(c *fiber.Ctx, err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
