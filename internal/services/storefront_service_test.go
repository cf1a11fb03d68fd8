package services_test

import (
	"errors"
	"testing"

	"lapak/internal/models"
	"lapak/internal/repositories"
	"lapak/internal/services"

	"github.com/stretchr/testify/assert"
)

func seedStorefront(t *testing.T) (*repositories.MockStoreRepository, *repositories.MockProductRepository, models.Product) {
	t.Helper()

	stores := repositories.NewMockStoreRepository()
	products := repositories.NewMockProductRepository()

	_, err := stores.Upsert("owner-1", models.StoreChanges{
		StoreName:      strPtr("Acme"),
		WhatsappNumber: strPtr("+1 (555) 010-0099"),
	})
	assert.NoError(t, err)

	p := models.Product{StoreID: "owner-1", Title: "Laptop", Price: 1200, Category: "General"}
	assert.NoError(t, products.Create(&p))
	return stores, products, p
}

func TestGetStorefront(t *testing.T) {
	stores, products, _ := seedStorefront(t)
	svc := services.NewStorefrontService(stores, products, nil)

	sf, err := svc.GetStorefront("acme")
	assert.NoError(t, err)
	assert.Equal(t, "Acme", sf.Store.StoreName)
	assert.Len(t, sf.Products, 1)
	assert.Equal(t, "Laptop", sf.Products[0].Title)
}

func TestGetStorefront_UnknownUsername(t *testing.T) {
	stores, products, _ := seedStorefront(t)
	svc := services.NewStorefrontService(stores, products, nil)

	_, err := svc.GetStorefront("nobody")
	assert.True(t, repositories.IsNotFound(err))
}

func TestGetStorefront_ProductFailureDegradesToEmptyList(t *testing.T) {
	stores, products, _ := seedStorefront(t)
	products.Fail = errors.New("listing backend down")
	svc := services.NewStorefrontService(stores, products, nil)

	sf, err := svc.GetStorefront("acme")
	assert.NoError(t, err, "the store page must still render")
	assert.Empty(t, sf.Products)
}

func TestOrderLink(t *testing.T) {
	stores, products, p := seedStorefront(t)
	svc := services.NewStorefrontService(stores, products, nil)

	link, err := svc.OrderLink("acme", p.ID)
	assert.NoError(t, err)
	assert.Contains(t, link, "https://wa.me/15550100099?text=")
	assert.Contains(t, link, "Laptop")
}

func TestOrderLink_ProductFromAnotherStore(t *testing.T) {
	stores, products, _ := seedStorefront(t)
	other := models.Product{StoreID: "owner-2", Title: "Intruder", Price: 1}
	assert.NoError(t, products.Create(&other))
	svc := services.NewStorefrontService(stores, products, nil)

	_, err := svc.OrderLink("acme", other.ID)
	assert.True(t, repositories.IsNotFound(err))
}

func TestOrderLink_NoWhatsappNumber(t *testing.T) {
	stores := repositories.NewMockStoreRepository()
	products := repositories.NewMockProductRepository()
	_, err := stores.Upsert("owner-1", models.StoreChanges{StoreName: strPtr("Silent")})
	assert.NoError(t, err)
	p := models.Product{StoreID: "owner-1", Title: "Laptop", Price: 1200}
	assert.NoError(t, products.Create(&p))
	svc := services.NewStorefrontService(stores, products, nil)

	_, err = svc.OrderLink("silent", p.ID)
	assert.Error(t, err)
}
