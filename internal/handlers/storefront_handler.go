package handlers

import (
	"lapak/internal/repositories"
	"lapak/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// StorefrontHandler handles the public buyer-facing endpoints resolved by the
// store's username slug. No authentication; these are the shared-link pages.
type StorefrontHandler struct {
	storefront *services.StorefrontService
	sync       *services.SyncService
	validate   *validator.Validate
}

// NewStorefrontHandler creates a new StorefrontHandler.
func NewStorefrontHandler(storefront *services.StorefrontService, sync *services.SyncService) *StorefrontHandler {
	return &StorefrontHandler{
		storefront: storefront,
		sync:       sync,
		validate:   validator.New(),
	}
}

// RegisterRoutes registers the public storefront routes.
func (h *StorefrontHandler) RegisterRoutes(router fiber.Router) {
	front := router.Group("/storefront")
	front.Get("/:username", h.HandleGetStorefront)
	front.Post("/:username/order", h.HandleOrder)
	front.Post("/:username/rating", h.HandleRate)
}

// HandleGetStorefront returns the public store page and counts the visit as
// a click for the vendor's analytics.
func (h *StorefrontHandler) HandleGetStorefront(c *fiber.Ctx) error {
	front, err := h.storefront.GetStorefront(c.Params("username"))
	if err != nil {
		if repositories.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Store not found",
			})
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "Store is unavailable right now",
		})
	}

	// Best effort; a failed counter never hides the storefront.
	h.sync.IncrementClicks(front.Store.ID)

	return c.JSON(front)
}

// OrderRequest asks for the WhatsApp link for one product.
type OrderRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

// HandleOrder returns the WhatsApp chat link for a product and counts the
// order intent. The actual checkout happens entirely inside WhatsApp.
func (h *StorefrontHandler) HandleOrder(c *fiber.Ctx) error {
	var req OrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	username := c.Params("username")
	link, err := h.storefront.OrderLink(username, req.ProductID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Store or product not found",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not build order link",
			"error":   err.Error(),
		})
	}

	if store, serr := h.storefront.GetStoreByUsername(username); serr == nil {
		h.sync.IncrementOrders(store.ID)
	}

	return c.JSON(fiber.Map{"whatsappUrl": link})
}

// RatingRequest is a buyer's star rating for a store.
type RatingRequest struct {
	Rating float64 `json:"rating" validate:"required,gte=1,lte=5"`
}

// HandleRate folds a buyer rating into the store's running average.
func (h *StorefrontHandler) HandleRate(c *fiber.Ctx) error {
	var req RatingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	store, err := h.storefront.GetStoreByUsername(c.Params("username"))
	if err != nil {
		if repositories.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Store not found",
			})
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "Store is unavailable right now",
		})
	}

	updated, err := h.sync.UpdateStoreRating(store.ID, req.Rating)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not record rating",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"storeRating":      updated.StoreRating,
		"storeRatingCount": updated.StoreRatingCount,
	})
}
