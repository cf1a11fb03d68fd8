package repositories

import "lapak/internal/models"

// ProductRepository is the typed client for the products collection. Ids are
// assigned by the store on creation, never by the caller.
type ProductRepository interface {
	// ListByStoreID returns the store's products sorted newest-createdAt
	// first; products with a missing or unparseable createdAt sort last.
	ListByStoreID(storeID string) ([]models.Product, error)

	// GetByID returns the product, or ErrNotFound.
	GetByID(id string) (*models.Product, error)

	// Create assigns an id, stamps storeId/createdAt/updatedAt and persists
	// the product, mutating it in place.
	Create(product *models.Product) error

	// Update merges changes into the product, stamps updatedAt and returns
	// the merged document.
	Update(id string, changes models.ProductChanges) (*models.Product, error)

	// Delete hard-deletes the product.
	Delete(id string) error
}
