package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"lapak/internal/assets"
	"lapak/internal/cache"
	"lapak/internal/models"
	"lapak/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrOwnerIDRequired is raised when a mutating operation is called
	// without an owner id. This is the one hard precondition; everything
	// else degrades instead of failing.
	ErrOwnerIDRequired = errors.New("owner id is required")

	// ErrRatingOutOfRange is raised for ratings outside [1, 5].
	ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")
)

// Origin tells a caller whether a mutation was confirmed by the document
// store or only applied to local state.
type Origin string

const (
	OriginRemote        Origin = "remote"
	OriginLocalFallback Origin = "local-fallback"
)

// SyncResult pairs an operation's value with where it came from, so
// provisional local state is observable instead of silently identical to
// confirmed state.
type SyncResult[T any] struct {
	Value  T
	Origin Origin
}

// EventPublisher mirrors sync events to a broker, best effort. A nil
// publisher disables mirroring.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// vendorState is the in-memory state for one owner. The SyncService is its
// single writer; everything handed outward is a copy.
type vendorState struct {
	store     models.Store
	products  []models.Product
	analytics models.Analytics
	loaded    bool
}

// SyncService reconciles the remote document store with the local cache
// tiers. The document store is the source of truth whenever reachable; the
// cache holds a shadow copy for offline bootstrap, and every successful state
// mutation is written through to it regardless of the remote outcome.
type SyncService struct {
	stores   repositories.StoreRepository
	products repositories.ProductRepository
	cache    *cache.Chained
	uploader *assets.Uploader
	events   EventPublisher
	log      *zap.Logger

	mu    sync.RWMutex
	state map[string]*vendorState
}

// NewSyncService creates a SyncService. events may be nil.
func NewSyncService(
	stores repositories.StoreRepository,
	products repositories.ProductRepository,
	cacheStore *cache.Chained,
	uploader *assets.Uploader,
	events EventPublisher,
	log *zap.Logger,
) *SyncService {
	if log == nil {
		log = zap.NewNop()
	}
	return &SyncService{
		stores:   stores,
		products: products,
		cache:    cacheStore,
		uploader: uploader,
		events:   events,
		log:      log,
		state:    make(map[string]*vendorState),
	}
}

func storeKey(ownerID string) string     { return "storeData:" + ownerID }
func productsKey(ownerID string) string  { return "products:" + ownerID }
func analyticsKey(ownerID string) string { return "analytics:" + ownerID }

func defaultStore(ownerID string) models.Store {
	return models.Store{ID: ownerID, StoreName: "My Store"}
}

// Bootstrap populates the owner's state: remote first with write-through to
// the cache, cached shadow copy on remote failure, defaults when neither has
// data. It never raises; a cold start with no connectivity and no cache is a
// valid (empty) outcome.
func (s *SyncService) Bootstrap(ownerID string) {
	if ownerID == "" {
		return
	}

	store := defaultStore(ownerID)
	if remote, err := s.stores.GetByOwnerID(ownerID); err == nil {
		store = *remote
		if err := s.cache.SetJSON(storeKey(ownerID), store); err != nil {
			s.log.Warn("failed to cache store", zap.String("ownerID", ownerID), zap.Error(err))
		}
	} else {
		if !repositories.IsNotFound(err) && !repositories.IsUnavailable(err) {
			s.log.Warn("store fetch failed, falling back to cache",
				zap.String("ownerID", ownerID), zap.Error(err))
		}
		var cached models.Store
		if tier, cerr := s.cache.GetJSON(storeKey(ownerID), &cached); cerr == nil {
			s.log.Info("store loaded from local cache",
				zap.String("ownerID", ownerID), zap.String("tier", tier))
			store = cached
		}
	}

	var products []models.Product
	if remote, err := s.products.ListByStoreID(ownerID); err == nil {
		products = remote
		if err := s.cache.SetJSON(productsKey(ownerID), products); err != nil {
			s.log.Warn("failed to cache products", zap.String("ownerID", ownerID), zap.Error(err))
		}
	} else {
		var cached []models.Product
		if tier, cerr := s.cache.GetJSON(productsKey(ownerID), &cached); cerr == nil {
			s.log.Info("products loaded from local cache",
				zap.String("ownerID", ownerID), zap.String("tier", tier))
			products = cached
		} else {
			products = []models.Product{}
		}
	}

	var analytics models.Analytics
	if _, err := s.cache.GetJSON(analyticsKey(ownerID), &analytics); err != nil {
		analytics = models.Analytics{}
	}
	analytics.TotalProducts = len(products)
	analytics.ConversionRate = conversionRate(analytics.TotalClicks, analytics.TotalOrders)

	s.mu.Lock()
	s.state[ownerID] = &vendorState{
		store:     store,
		products:  products,
		analytics: analytics,
		loaded:    true,
	}
	s.mu.Unlock()
}

// SaveStore merges changes into the owner's store. Local banner/logo assets
// are uploaded best effort first; the merged store is written through to the
// cache regardless of the remote outcome. An unavailable document store
// degrades to a local merge; any other backend error is returned to the
// caller, but only after the local write-through.
func (s *SyncService) SaveStore(ownerID string, changes models.StoreChanges) (*models.Store, error) {
	if ownerID == "" {
		return nil, ErrOwnerIDRequired
	}

	if changes.BannerImage != nil && assets.IsLocalAsset(*changes.BannerImage) {
		uploaded := s.uploader.StoreBanner(ownerID, *changes.BannerImage)
		changes.BannerImage = &uploaded
	}
	if changes.Logo != nil && assets.IsLocalAsset(*changes.Logo) {
		uploaded := s.uploader.StoreLogo(ownerID, *changes.Logo)
		changes.Logo = &uploaded
	}

	merged, err := s.stores.Upsert(ownerID, changes)
	var saveErr error
	if err != nil {
		if repositories.IsUnavailable(err) {
			s.log.Warn("store save degraded to local merge, document store unavailable",
				zap.String("ownerID", ownerID), zap.Error(err))
		} else {
			s.log.Error("store save failed remotely, local state still advances",
				zap.String("ownerID", ownerID), zap.Error(err))
			saveErr = err
		}
		merged = nil
	}

	s.mu.Lock()
	st := s.ensureState(ownerID)
	if merged != nil {
		st.store = *merged
	} else {
		changes.Apply(&st.store)
		st.store.ID = ownerID
		st.store.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	result := st.store
	s.mu.Unlock()

	if err := s.cache.SetJSON(storeKey(ownerID), result); err != nil {
		s.log.Warn("failed to cache store", zap.String("ownerID", ownerID), zap.Error(err))
	}

	if saveErr != nil {
		return &result, saveErr
	}
	s.publish("store.saved", map[string]any{"storeId": ownerID, "username": result.Username})
	return &result, nil
}

// AddProduct creates a product for the owner. Once validation passes the
// operation never fails: a repository failure produces a local-fallback shell
// with a client-generated id, tagged LocalOnly, that the next successful
// Bootstrap replaces with remote truth.
func (s *SyncService) AddProduct(ownerID string, input models.ProductInput) (SyncResult[models.Product], error) {
	if ownerID == "" {
		return SyncResult[models.Product]{}, ErrOwnerIDRequired
	}

	category := input.Category
	if category == "" {
		category = "General"
	}

	product := models.Product{
		StoreID:      ownerID,
		Title:        input.Title,
		Price:        input.Price,
		Description:  input.Description,
		Category:     category,
		Image:        s.uploader.ProductImage(ownerID, "", input.Image),
		PreviewVideo: s.uploader.ProductVideo(ownerID, "", input.PreviewVideo),
	}

	origin := OriginRemote
	if err := s.products.Create(&product); err != nil {
		s.log.Warn("product create failed remotely, keeping local-fallback record",
			zap.String("ownerID", ownerID), zap.Error(err))
		now := time.Now().UTC().Format(time.RFC3339)
		product.ID = "local-" + uuid.New().String()
		product.CreatedAt = now
		product.UpdatedAt = now
		product.LocalOnly = true
		origin = OriginLocalFallback
	}

	s.mu.Lock()
	st := s.ensureState(ownerID)
	st.products = append([]models.Product{product}, st.products...)
	s.recomputeAnalytics(st)
	products := copyProducts(st.products)
	analytics := st.analytics
	s.mu.Unlock()

	s.writeThroughProducts(ownerID, products, analytics)
	s.publish("product.created", map[string]any{
		"storeId": ownerID, "productId": product.ID, "origin": string(origin),
	})
	return SyncResult[models.Product]{Value: product, Origin: origin}, nil
}

// UpdateProduct merges changes into a product. Remote failure is logged and
// local state still advances, reported as a local-fallback result. It fails
// only when the product is unknown both remotely and locally.
func (s *SyncService) UpdateProduct(ownerID, productID string, changes models.ProductChanges) (SyncResult[models.Product], error) {
	if ownerID == "" {
		return SyncResult[models.Product]{}, ErrOwnerIDRequired
	}

	if changes.Image != nil && assets.IsLocalAsset(*changes.Image) {
		uploaded := s.uploader.ProductImage(ownerID, productID, *changes.Image)
		changes.Image = &uploaded
	}
	if changes.PreviewVideo != nil && assets.IsLocalAsset(*changes.PreviewVideo) {
		uploaded := s.uploader.ProductVideo(ownerID, productID, *changes.PreviewVideo)
		changes.PreviewVideo = &uploaded
	}

	merged, err := s.products.Update(productID, changes)
	origin := OriginRemote
	if err != nil {
		s.log.Warn("product update failed remotely, merging locally",
			zap.String("productId", productID), zap.Error(err))
		origin = OriginLocalFallback
	}

	s.mu.Lock()
	st := s.ensureState(ownerID)
	var result *models.Product
	for i := range st.products {
		if st.products[i].ID != productID {
			continue
		}
		if merged != nil {
			merged.LocalOnly = st.products[i].LocalOnly
			st.products[i] = *merged
		} else {
			changes.Apply(&st.products[i])
			st.products[i].UpdatedAt = time.Now().UTC().Format(time.RFC3339)
		}
		result = &st.products[i]
		break
	}
	if result == nil && merged != nil {
		st.products = append([]models.Product{*merged}, st.products...)
		result = merged
	}
	s.recomputeAnalytics(st)
	products := copyProducts(st.products)
	analytics := st.analytics
	s.mu.Unlock()

	if result == nil {
		return SyncResult[models.Product]{}, fmt.Errorf("failed to update product %s: %w", productID, err)
	}

	s.writeThroughProducts(ownerID, products, analytics)
	s.publish("product.updated", map[string]any{
		"storeId": ownerID, "productId": productID, "origin": string(origin),
	})
	return SyncResult[models.Product]{Value: *result, Origin: origin}, nil
}

// DeleteProduct removes a product. The remote delete is attempted first, but
// its failure is logged and swallowed: the product disappears from memory and
// cache regardless, and the origin tells the caller whether the remote side
// confirmed.
func (s *SyncService) DeleteProduct(ownerID, productID string) (Origin, error) {
	if ownerID == "" {
		return "", ErrOwnerIDRequired
	}

	origin := OriginRemote
	if err := s.products.Delete(productID); err != nil {
		s.log.Warn("product delete failed remotely, removing locally anyway",
			zap.String("productId", productID), zap.Error(err))
		origin = OriginLocalFallback
	}

	s.mu.Lock()
	st := s.ensureState(ownerID)
	kept := st.products[:0]
	for _, p := range st.products {
		if p.ID != productID {
			kept = append(kept, p)
		}
	}
	st.products = kept
	s.recomputeAnalytics(st)
	products := copyProducts(st.products)
	analytics := st.analytics
	s.mu.Unlock()

	s.writeThroughProducts(ownerID, products, analytics)
	s.publish("product.deleted", map[string]any{
		"storeId": ownerID, "productId": productID, "origin": string(origin),
	})
	return origin, nil
}

// ClearAllData resets the owner's in-memory state to defaults and removes the
// cached entries from every tier. The remote document store is untouched;
// this is a device-local reset only.
func (s *SyncService) ClearAllData(ownerID string) error {
	if ownerID == "" {
		return ErrOwnerIDRequired
	}

	s.mu.Lock()
	s.state[ownerID] = &vendorState{
		store:    defaultStore(ownerID),
		products: []models.Product{},
		loaded:   true,
	}
	s.mu.Unlock()

	s.cache.RemoveMany([]string{storeKey(ownerID), productsKey(ownerID), analyticsKey(ownerID)})
	return nil
}

// IncrementClicks bumps the click counter and recomputes the conversion
// rate. Pure local mutation; no remote call.
func (s *SyncService) IncrementClicks(ownerID string) (models.Analytics, error) {
	return s.bumpCounter(ownerID, func(a *models.Analytics) { a.TotalClicks++ })
}

// IncrementOrders bumps the order counter and recomputes the conversion
// rate. Pure local mutation; no remote call.
func (s *SyncService) IncrementOrders(ownerID string) (models.Analytics, error) {
	return s.bumpCounter(ownerID, func(a *models.Analytics) { a.TotalOrders++ })
}

func (s *SyncService) bumpCounter(ownerID string, bump func(*models.Analytics)) (models.Analytics, error) {
	if ownerID == "" {
		return models.Analytics{}, ErrOwnerIDRequired
	}

	// A counter can tick before Bootstrap ran for this owner (a buyer opening
	// the storefront link); seed from the cached snapshot so counts survive
	// restarts.
	var cached models.Analytics
	if !s.Loaded(ownerID) {
		if _, err := s.cache.GetJSON(analyticsKey(ownerID), &cached); err != nil {
			cached = models.Analytics{}
		}
	}

	s.mu.Lock()
	st := s.ensureState(ownerID)
	if !st.loaded && st.analytics == (models.Analytics{}) {
		st.analytics = cached
	}
	bump(&st.analytics)
	s.recomputeAnalytics(st)
	analytics := st.analytics
	s.mu.Unlock()

	if err := s.cache.SetJSON(analyticsKey(ownerID), analytics); err != nil {
		s.log.Warn("failed to cache analytics", zap.String("ownerID", ownerID), zap.Error(err))
	}
	return analytics, nil
}

// UpdateStoreRating folds a new rating into the running average, rounded
// half-up to one decimal, and persists through the SaveStore path.
func (s *SyncService) UpdateStoreRating(ownerID string, rating float64) (*models.Store, error) {
	if ownerID == "" {
		return nil, ErrOwnerIDRequired
	}
	if rating < 1 || rating > 5 {
		return nil, ErrRatingOutOfRange
	}

	s.mu.RLock()
	st, ok := s.state[ownerID]
	var oldAvg float64
	var oldCount int
	if ok {
		oldAvg = st.store.StoreRating
		oldCount = st.store.StoreRatingCount
	}
	loaded := ok && st.loaded
	s.mu.RUnlock()

	if !loaded {
		if remote, err := s.stores.GetByOwnerID(ownerID); err == nil {
			oldAvg = remote.StoreRating
			oldCount = remote.StoreRatingCount
		}
	}

	newCount := oldCount + 1
	newAvg := roundHalfUp1((oldAvg*float64(oldCount) + rating) / float64(newCount))
	return s.SaveStore(ownerID, models.StoreChanges{
		StoreRating:      &newAvg,
		StoreRatingCount: &newCount,
	})
}

// StoreSnapshot returns a copy of the owner's store.
func (s *SyncService) StoreSnapshot(ownerID string) models.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if st, ok := s.state[ownerID]; ok {
		return st.store
	}
	return defaultStore(ownerID)
}

// ProductsSnapshot returns a copy of the owner's product list.
func (s *SyncService) ProductsSnapshot(ownerID string) []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if st, ok := s.state[ownerID]; ok {
		return copyProducts(st.products)
	}
	return []models.Product{}
}

// AnalyticsSnapshot returns a copy of the owner's analytics.
func (s *SyncService) AnalyticsSnapshot(ownerID string) models.Analytics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if st, ok := s.state[ownerID]; ok {
		return st.analytics
	}
	return models.Analytics{}
}

// Loaded reports whether Bootstrap has populated state for the owner.
func (s *SyncService) Loaded(ownerID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.state[ownerID]
	return ok && st.loaded
}

// ensureState returns the owner's state, creating defaults if Bootstrap has
// not run. Callers must hold s.mu.
func (s *SyncService) ensureState(ownerID string) *vendorState {
	st, ok := s.state[ownerID]
	if !ok {
		st = &vendorState{
			store:    defaultStore(ownerID),
			products: []models.Product{},
		}
		s.state[ownerID] = st
	}
	return st
}

// recomputeAnalytics refreshes the derived fields. Callers must hold s.mu.
func (s *SyncService) recomputeAnalytics(st *vendorState) {
	st.analytics.TotalProducts = len(st.products)
	st.analytics.ConversionRate = conversionRate(st.analytics.TotalClicks, st.analytics.TotalOrders)
	st.analytics.LastUpdated = time.Now().UTC().Format(time.RFC3339)
}

func (s *SyncService) writeThroughProducts(ownerID string, products []models.Product, analytics models.Analytics) {
	if err := s.cache.SetJSON(productsKey(ownerID), products); err != nil {
		s.log.Warn("failed to cache products", zap.String("ownerID", ownerID), zap.Error(err))
	}
	if err := s.cache.SetJSON(analyticsKey(ownerID), analytics); err != nil {
		s.log.Warn("failed to cache analytics", zap.String("ownerID", ownerID), zap.Error(err))
	}
}

func (s *SyncService) publish(routingKey string, payload map[string]any) {
	if s.events == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		s.log.Warn("failed to encode sync event", zap.String("event", routingKey), zap.Error(err))
		return
	}
	if err := s.events.Publish(routingKey, body); err != nil {
		s.log.Warn("failed to publish sync event", zap.String("event", routingKey), zap.Error(err))
	}
}

func conversionRate(clicks, orders int) float64 {
	if clicks == 0 {
		return 0
	}
	return roundHalfUp1(float64(orders) / float64(clicks) * 100)
}

// roundHalfUp1 rounds to one decimal, half away from zero (4.25 -> 4.3).
func roundHalfUp1(x float64) float64 {
	return math.Floor(x*10+0.5) / 10
}

func copyProducts(products []models.Product) []models.Product {
	out := make([]models.Product, len(products))
	copy(out, products)
	return out
}
