package repositories

import (
	"sync"
	"time"

	"lapak/internal/models"
	"lapak/internal/slug"
)

// MockStoreRepository is an in-memory implementation of StoreRepository. The
// Fail field, when set, is returned by every operation, which makes offline
// and backend-failure paths reproducible in tests.
type MockStoreRepository struct {
	mu        sync.RWMutex
	stores    map[string]models.Store
	usernames *slug.Allocator

	Fail error
}

// NewMockStoreRepository creates an empty MockStoreRepository.
func NewMockStoreRepository() *MockStoreRepository {
	r := &MockStoreRepository{stores: make(map[string]models.Store)}
	r.usernames = slug.NewAllocator(r.isUsernameAvailable)
	return r
}

func (r *MockStoreRepository) GetByOwnerID(ownerID string) (*models.Store, error) {
	if r.Fail != nil {
		return nil, r.Fail
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	store, ok := r.stores[ownerID]
	if !ok {
		return nil, ErrNotFound
	}
	return &store, nil
}

func (r *MockStoreRepository) GetByUsername(username string) (*models.Store, error) {
	if r.Fail != nil {
		return nil, r.Fail
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, store := range r.stores {
		if store.Username == username {
			s := store
			return &s, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MockStoreRepository) Upsert(ownerID string, changes models.StoreChanges) (*models.Store, error) {
	if r.Fail != nil {
		return nil, r.Fail
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	merged, exists := r.stores[ownerID]
	if !exists {
		merged = models.Store{ID: ownerID, CreatedAt: now}
	}
	prevName := merged.StoreName
	changes.Apply(&merged)
	merged.ID = ownerID
	merged.UpdatedAt = now

	explicit := changes.Username != nil && *changes.Username != ""
	renamed := changes.StoreName != nil && *changes.StoreName != prevName
	if !explicit && changes.StoreName != nil && (!exists || merged.Username == "" || renamed) {
		username, err := r.usernames.EnsureUnique(*changes.StoreName, ownerID)
		if err != nil {
			return nil, err
		}
		if username != "" {
			merged.Username = username
		}
	}

	r.stores[ownerID] = merged
	return &merged, nil
}

func (r *MockStoreRepository) isUsernameAvailable(candidate, excludeOwnerID string) (bool, error) {
	for id, store := range r.stores {
		if store.Username == candidate && id != excludeOwnerID {
			return false, nil
		}
	}
	return true, nil
}
