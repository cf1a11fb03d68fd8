package services

import (
	"fmt"

	"lapak/internal/models"
	"lapak/internal/repositories"
	"lapak/pkg/whatsapp"

	"go.uber.org/zap"
)

// Storefront is the public view of a store: the document a buyer sees when
// opening a shared link, plus the newest-first product list.
type Storefront struct {
	Store    models.Store     `json:"store"`
	Products []models.Product `json:"products"`
}

// StorefrontService serves the buyer-facing read path. It is stateless: every
// lookup goes to the document store, resolved by the public username slug.
type StorefrontService struct {
	stores   repositories.StoreRepository
	products repositories.ProductRepository
	log      *zap.Logger
}

// NewStorefrontService creates a StorefrontService.
func NewStorefrontService(stores repositories.StoreRepository, products repositories.ProductRepository, log *zap.Logger) *StorefrontService {
	if log == nil {
		log = zap.NewNop()
	}
	return &StorefrontService{stores: stores, products: products, log: log}
}

// GetStoreByUsername resolves a store by its public username.
func (s *StorefrontService) GetStoreByUsername(username string) (*models.Store, error) {
	return s.stores.GetByUsername(username)
}

// GetStorefront resolves a store by username and loads its products. A
// product listing failure degrades to an empty list rather than hiding the
// store itself.
func (s *StorefrontService) GetStorefront(username string) (*Storefront, error) {
	store, err := s.stores.GetByUsername(username)
	if err != nil {
		return nil, err
	}

	products, err := s.products.ListByStoreID(store.ID)
	if err != nil {
		s.log.Warn("failed to list storefront products",
			zap.String("storeId", store.ID), zap.Error(err))
		products = []models.Product{}
	}

	return &Storefront{Store: *store, Products: products}, nil
}

// OrderLink builds the WhatsApp chat URL for ordering a product from the
// store resolved by username.
func (s *StorefrontService) OrderLink(username, productID string) (string, error) {
	store, err := s.stores.GetByUsername(username)
	if err != nil {
		return "", err
	}
	if store.WhatsappNumber == "" {
		return "", fmt.Errorf("store %s has no WhatsApp number", username)
	}

	product, err := s.products.GetByID(productID)
	if err != nil {
		return "", err
	}
	if product.StoreID != store.ID {
		return "", repositories.ErrNotFound
	}

	message := whatsapp.OrderMessage(product.Title, product.Price)
	return whatsapp.ChatURL(store.WhatsappNumber, message), nil
}
