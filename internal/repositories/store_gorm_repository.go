package repositories

import (
	"errors"
	"fmt"
	"time"

	"lapak/internal/models"
	"lapak/internal/slug"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GORMStoreRepository is a GORM implementation of StoreRepository.
type GORMStoreRepository struct {
	db        *gorm.DB
	usernames *slug.Allocator
	log       *zap.Logger
}

// NewGORMStoreRepository creates a new GORMStoreRepository.
func NewGORMStoreRepository(db *gorm.DB, log *zap.Logger) *GORMStoreRepository {
	if log == nil {
		log = zap.NewNop()
	}
	r := &GORMStoreRepository{db: db, log: log}
	r.usernames = slug.NewAllocator(r.isUsernameAvailable)
	return r
}

// GetByOwnerID retrieves the store keyed by ownerID.
func (r *GORMStoreRepository) GetByOwnerID(ownerID string) (*models.Store, error) {
	if ownerID == "" {
		return nil, ErrNotFound
	}
	var store models.Store
	if err := r.db.First(&store, "id = ?", ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get store %s: %w", ownerID, err)
	}
	return &store, nil
}

// GetByUsername retrieves the first store with the given username.
func (r *GORMStoreRepository) GetByUsername(username string) (*models.Store, error) {
	if username == "" {
		return nil, ErrNotFound
	}
	var store models.Store
	if err := r.db.First(&store, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get store by username %s: %w", username, err)
	}
	return &store, nil
}

// Upsert merges changes into the store for ownerID (read-modify-write). A
// connectivity failure on the existence read does not abort the write: the
// store is treated as new and the write is left to the backend's own
// queueing, mirroring how an offline-capable document store behaves.
func (r *GORMStoreRepository) Upsert(ownerID string, changes models.StoreChanges) (*models.Store, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("owner id is required")
	}

	existing, err := r.GetByOwnerID(ownerID)
	switch {
	case err == nil:
	case IsNotFound(err):
		existing = nil
	case IsUnavailable(err):
		r.log.Warn("store existence check unavailable, proceeding as new write",
			zap.String("ownerID", ownerID), zap.Error(err))
		existing = nil
	default:
		return nil, err
	}

	username, err := r.resolveUsername(ownerID, existing, changes)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	merged := models.Store{ID: ownerID, CreatedAt: now}
	if existing != nil {
		merged = *existing
	}
	changes.Apply(&merged)
	merged.ID = ownerID
	merged.Username = username
	merged.UpdatedAt = now

	if err := r.db.Save(&merged).Error; err != nil {
		return nil, fmt.Errorf("failed to save store %s: %w", ownerID, err)
	}
	return &merged, nil
}

// resolveUsername decides the username for an upsert: an explicit value wins,
// a new store with a name gets a fresh allocation, a renamed store without an
// explicit value gets reallocated, and everything else keeps what is stored.
// An unavailable allocator never fails the save; the existing name (possibly
// empty) is kept for a later retry.
func (r *GORMStoreRepository) resolveUsername(ownerID string, existing *models.Store, changes models.StoreChanges) (string, error) {
	if changes.Username != nil && *changes.Username != "" {
		return *changes.Username, nil
	}

	var current string
	if existing != nil {
		current = existing.Username
	}

	if changes.StoreName == nil || *changes.StoreName == "" {
		return current, nil
	}

	needsAllocation := existing == nil ||
		current == "" ||
		existing.StoreName != *changes.StoreName
	if !needsAllocation {
		return current, nil
	}

	username, err := r.usernames.EnsureUnique(*changes.StoreName, ownerID)
	if err != nil {
		if IsUnavailable(err) {
			r.log.Warn("skipping username generation, allocator unavailable",
				zap.String("ownerID", ownerID), zap.Error(err))
			return current, nil
		}
		return "", err
	}
	if username == "" {
		return current, nil
	}
	return username, nil
}

func (r *GORMStoreRepository) isUsernameAvailable(candidate, excludeOwnerID string) (bool, error) {
	store, err := r.GetByUsername(candidate)
	if err != nil {
		if IsNotFound(err) {
			return true, nil
		}
		return false, err
	}
	return excludeOwnerID != "" && store.ID == excludeOwnerID, nil
}
