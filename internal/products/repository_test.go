package product

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/loyafu/storefront-backend/pkg/db/models"
	"github.com/loyafu/storefront-backend/pkg/enums"
	"github.com/loyafu/storefront-backend/pkg/pagination"
	"github.com/loyafu/storefront-backend/pkg/types"
)

func seedProduct(t *testing.T, repo *Repository, id, name, category, price string, createdAt time.Time) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:          id,
		Name:        name,
		Description: "descripcion de " + name,
		Category:    category,
		PriceUSD:    decimal.RequireFromString(price),
		Colors:      types.StringList{"Rojo"},
		IsActive:    true,
		CreatedAt:   createdAt,
	}
	created, err := repo.Create(context.Background(), product)
	require.NoError(t, err)
	return created
}

func seedCatalog(t *testing.T, repo *Repository) {
	t.Helper()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	seedProduct(t, repo, "prod_1", "Labial Rojo", "labiales", "10", base)
	seedProduct(t, repo, "prod_2", "Base Mate", "rostro", "25.5", base.Add(time.Minute))
	seedProduct(t, repo, "prod_3", "Aceite Capilar", "cabello", "7.25", base.Add(2*time.Minute))
	seedProduct(t, repo, "prod_4", "Brillo Labial", "labiales", "12", base.Add(3*time.Minute))
}

func TestRepositoryFindByIDAndColors(t *testing.T) {
	repo := NewRepository(setupProductsTestDB(t))
	ctx := context.Background()
	seedCatalog(t, repo)

	found, err := repo.FindByID(ctx, "prod_1")
	require.NoError(t, err)
	assert.Equal(t, "Labial Rojo", found.Name)
	assert.Equal(t, types.StringList{"Rojo"}, found.Colors)
	assert.True(t, found.PriceUSD.Equal(decimal.NewFromInt(10)))

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListFiltersAndSorts(t *testing.T) {
	repo := NewRepository(setupProductsTestDB(t))
	ctx := context.Background()
	seedCatalog(t, repo)

	rows, total, err := repo.List(ctx, listQuery{Categories: []string{"labiales"}, Sort: enums.ProductSortPriceDesc})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, rows, 2)
	assert.Equal(t, "prod_4", rows[0].ID)

	rows, total, err = repo.List(ctx, listQuery{Search: "LABIAL", Sort: enums.ProductSortNameAsc})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, []string{"prod_4", "prod_1"}, []string{rows[0].ID, rows[1].ID})

	rows, _, err = repo.List(ctx, listQuery{Sort: enums.ProductSortPriceAsc})
	require.NoError(t, err)
	assert.Equal(t, "prod_3", rows[0].ID)

	rows, total, err = repo.List(ctx, listQuery{Page: pagination.PageParams{Page: 2, PageSize: 3}})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "prod_4", rows[0].ID)
}

func TestRepositoryListHidesInactive(t *testing.T) {
	repo := NewRepository(setupProductsTestDB(t))
	ctx := context.Background()
	seedCatalog(t, repo)

	hidden, err := repo.FindByID(ctx, "prod_2")
	require.NoError(t, err)
	hidden.IsActive = false
	_, err = repo.Update(ctx, hidden)
	require.NoError(t, err)

	_, total, err := repo.List(ctx, listQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)

	_, total, err = repo.List(ctx, listQuery{IncludeInactive: true})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)

	rows, err := repo.FindByIDs(ctx, []string{"prod_2", "prod_3", "nope"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "prod_3", rows[0].ID)
}

func TestRepositorySearchEscapesWildcards(t *testing.T) {
	repo := NewRepository(setupProductsTestDB(t))
	seedCatalog(t, repo)

	_, total, err := repo.List(context.Background(), listQuery{Search: "%"})
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}

func TestRepositoryDelete(t *testing.T) {
	repo := NewRepository(setupProductsTestDB(t))
	ctx := context.Background()
	seedCatalog(t, repo)

	require.NoError(t, repo.Delete(ctx, "prod_1"))
	assert.ErrorIs(t, repo.Delete(ctx, "prod_1"), gorm.ErrRecordNotFound)
}
