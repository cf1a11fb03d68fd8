package repositories

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"lapak/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{db: db}
}

// ListByStoreID retrieves the store's products, newest first.
func (r *GORMProductRepository) ListByStoreID(storeID string) ([]models.Product, error) {
	if storeID == "" {
		return []models.Product{}, nil
	}
	var products []models.Product
	if err := r.db.Find(&products, "store_id = ?", storeID).Error; err != nil {
		return nil, fmt.Errorf("failed to list products for store %s: %w", storeID, err)
	}
	SortNewestFirst(products)
	return products, nil
}

// GetByID retrieves a single product by its id.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}
	return &product, nil
}

// Create persists a new product, assigning its id and timestamps.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.StoreID == "" {
		return fmt.Errorf("store id is required")
	}
	product.ID = uuid.New().String()
	now := time.Now().UTC().Format(time.RFC3339)
	product.CreatedAt = now
	product.UpdatedAt = now
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update merges changes into an existing product and returns the result.
func (r *GORMProductRepository) Update(id string, changes models.ProductChanges) (*models.Product, error) {
	product, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	changes.Apply(product)
	product.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	if err := r.db.Save(product).Error; err != nil {
		return nil, fmt.Errorf("failed to update product %s: %w", id, err)
	}
	return product, nil
}

// Delete removes a product by its id.
func (r *GORMProductRepository) Delete(id string) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SortNewestFirst orders products by descending createdAt. Timestamps are
// RFC3339 strings; anything unparseable counts as epoch zero and sorts last.
func SortNewestFirst(products []models.Product) {
	sort.SliceStable(products, func(i, j int) bool {
		return createdAtMillis(products[i]) > createdAtMillis(products[j])
	})
}

func createdAtMillis(p models.Product) int64 {
	if p.CreatedAt == "" {
		return 0
	}
	t, err := time.Parse(time.RFC3339, p.CreatedAt)
	if err != nil {
		return 0
	}
	return t.UnixMilli()
}
