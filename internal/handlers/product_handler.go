package handlers

import (
	"lapak/internal/middleware"
	"lapak/internal/models"
	"lapak/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles the vendor-side product endpoints.
type ProductHandler struct {
	sync     *services.SyncService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(sync *services.SyncService) *ProductHandler {
	return &ProductHandler{
		sync:     sync,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/products", h.HandleListProducts)
	router.Post("/products", h.HandleAddProduct)
	router.Put("/products/:id", h.HandleUpdateProduct)
	router.Delete("/products/:id", h.HandleDeleteProduct)
}

// HandleListProducts returns the vendor's products, newest first.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	ownerID := middleware.OwnerID(c)
	if !h.sync.Loaded(ownerID) {
		h.sync.Bootstrap(ownerID)
	}
	return c.JSON(fiber.Map{"products": h.sync.ProductsSnapshot(ownerID)})
}

// HandleAddProduct creates a product. The response carries the sync origin so
// a client can tell a confirmed record from a local-fallback shell.
func (h *ProductHandler) HandleAddProduct(c *fiber.Ctx) error {
	var input models.ProductInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(input); err != nil {
		return validationError(c, err)
	}

	result, err := h.sync.AddProduct(middleware.OwnerID(c), input)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not add product",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"product": result.Value,
		"origin":  result.Origin,
	})
}

// HandleUpdateProduct merges a partial product update.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var changes models.ProductChanges
	if err := c.BodyParser(&changes); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(changes); err != nil {
		return validationError(c, err)
	}

	result, err := h.sync.UpdateProduct(middleware.OwnerID(c), c.Params("id"), changes)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Could not update product",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"product": result.Value,
		"origin":  result.Origin,
	})
}

// HandleDeleteProduct removes a product from the vendor's storefront.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	origin, err := h.sync.DeleteProduct(middleware.OwnerID(c), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not delete product",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Product deleted",
		"origin":  origin,
	})
}
