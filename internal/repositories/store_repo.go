package repositories

import "lapak/internal/models"

// StoreRepository is the typed client for the stores collection. Stores are
// keyed by owner id; Upsert carries the username-allocation policy so every
// write path assigns usernames the same way.
type StoreRepository interface {
	// GetByOwnerID returns the store keyed by ownerID, or ErrNotFound.
	GetByOwnerID(ownerID string) (*models.Store, error)

	// GetByUsername returns the first store whose username matches, or
	// ErrNotFound.
	GetByUsername(username string) (*models.Store, error)

	// Upsert merges changes into the store for ownerID, creating it on first
	// write. It stamps createdAt on creation and updatedAt always, and
	// regenerates the username when the store is new with a name and no
	// explicit username, or when storeName changed without an explicit
	// username. When the existence read hits the unavailable class the write
	// proceeds as if the store were new.
	Upsert(ownerID string, changes models.StoreChanges) (*models.Store, error)
}
