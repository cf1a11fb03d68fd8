package repositories_test

import (
	"testing"

	"lapak/internal/models"
	"lapak/internal/repositories"

	"github.com/stretchr/testify/assert"
)

func TestProductCreateAndList(t *testing.T) {
	repo := repositories.NewGORMProductRepository(openTestDB(t))

	p := models.Product{StoreID: "owner-1", Title: "Laptop", Price: 1200, Category: "General"}
	assert.NoError(t, repo.Create(&p))
	assert.NotEmpty(t, p.ID, "the store assigns the id")
	assert.NotEmpty(t, p.CreatedAt)

	list, err := repo.ListByStoreID("owner-1")
	assert.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, "Laptop", list[0].Title)

	other, err := repo.ListByStoreID("owner-2")
	assert.NoError(t, err)
	assert.Empty(t, other)
}

func TestProductCreate_RequiresStoreID(t *testing.T) {
	repo := repositories.NewGORMProductRepository(openTestDB(t))

	err := repo.Create(&models.Product{Title: "Orphan", Price: 1})
	assert.Error(t, err)
}

func TestProductUpdate_PartialMerge(t *testing.T) {
	repo := repositories.NewGORMProductRepository(openTestDB(t))

	p := models.Product{StoreID: "owner-1", Title: "Keyboard", Price: 75, Description: "Mechanical"}
	assert.NoError(t, repo.Create(&p))

	newPrice := 60.0
	merged, err := repo.Update(p.ID, models.ProductChanges{Price: &newPrice})
	assert.NoError(t, err)
	assert.Equal(t, 60.0, merged.Price)
	assert.Equal(t, "Keyboard", merged.Title, "unspecified fields must survive the merge")
	assert.Equal(t, "Mechanical", merged.Description)
}

func TestProductUpdate_NotFound(t *testing.T) {
	repo := repositories.NewGORMProductRepository(openTestDB(t))

	title := "Ghost"
	_, err := repo.Update("missing", models.ProductChanges{Title: &title})
	assert.True(t, repositories.IsNotFound(err))
}

func TestProductDelete(t *testing.T) {
	repo := repositories.NewGORMProductRepository(openTestDB(t))

	p := models.Product{StoreID: "owner-1", Title: "Mouse", Price: 25}
	assert.NoError(t, repo.Create(&p))

	assert.NoError(t, repo.Delete(p.ID))
	_, err := repo.GetByID(p.ID)
	assert.True(t, repositories.IsNotFound(err))

	assert.True(t, repositories.IsNotFound(repo.Delete(p.ID)))
}

func TestSortNewestFirst(t *testing.T) {
	products := []models.Product{
		{ID: "b", CreatedAt: "2024-03-01T10:00:00Z"},
		{ID: "d", CreatedAt: ""},
		{ID: "a", CreatedAt: "2024-05-01T10:00:00Z"},
		{ID: "e", CreatedAt: "not-a-timestamp"},
		{ID: "c", CreatedAt: "2024-01-01T10:00:00Z"},
	}

	repositories.SortNewestFirst(products)

	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	// Strictly descending createdAt; missing/unparseable timestamps sort last.
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids)
}

func TestIsUnavailable(t *testing.T) {
	assert.True(t, repositories.IsUnavailable(repositories.ErrUnavailable))
	assert.True(t, repositories.IsUnavailable(assertErr("dial tcp: connection refused")))
	assert.True(t, repositories.IsUnavailable(assertErr("client is offline")))
	assert.True(t, repositories.IsUnavailable(assertErr("Failed to get document")))
	assert.False(t, repositories.IsUnavailable(nil))
	assert.False(t, repositories.IsUnavailable(assertErr("permission denied")))
	assert.False(t, repositories.IsUnavailable(repositories.ErrNotFound))
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
