package repositories

import (
	"sync"
	"time"

	"lapak/internal/models"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
// Setting Fail makes every operation return that error.
type MockProductRepository struct {
	mu       sync.RWMutex
	products map[string]models.Product

	Fail error
}

// NewMockProductRepository creates an empty MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{products: make(map[string]models.Product)}
}

func (r *MockProductRepository) ListByStoreID(storeID string) ([]models.Product, error) {
	if r.Fail != nil {
		return nil, r.Fail
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if p.StoreID == storeID {
			list = append(list, p)
		}
	}
	SortNewestFirst(list)
	return list, nil
}

func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	if r.Fail != nil {
		return nil, r.Fail
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &product, nil
}

func (r *MockProductRepository) Create(product *models.Product) error {
	if r.Fail != nil {
		return r.Fail
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	product.ID = uuid.New().String()
	now := time.Now().UTC().Format(time.RFC3339)
	product.CreatedAt = now
	product.UpdatedAt = now
	r.products[product.ID] = *product
	return nil
}

func (r *MockProductRepository) Update(id string, changes models.ProductChanges) (*models.Product, error) {
	if r.Fail != nil {
		return nil, r.Fail
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	changes.Apply(&product)
	product.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	r.products[id] = product
	return &product, nil
}

func (r *MockProductRepository) Delete(id string) error {
	if r.Fail != nil {
		return r.Fail
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return ErrNotFound
	}
	delete(r.products, id)
	return nil
}
