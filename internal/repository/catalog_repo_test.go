package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amazighishop/shop_api/internal/models"
	"github.com/amazighishop/shop_api/internal/repository"
	"github.com/amazighishop/shop_api/internal/utils"
)

var productCols = []string{"id", "label", "description", "image", "quantity", "unit", "currency",
	"type_produit_id", "created_at", "updated_at", "type_name", "price"}

func TestPaymentMethodRepository_GetByID_Counts(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewPaymentMethodRepository(db)
	now := time.Now()

	mock.ExpectQuery(`FROM payment_methodes pm WHERE pm.id = \$1`).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "methode_name", "created_at", "updated_at", "prices_count", "orders_count"}).
			AddRow(2, "D17", now, now, 4, 1))

	pm, err := repo.GetByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "D17", pm.MethodeName)
	assert.Equal(t, 4, pm.PricesCount)
	assert.Equal(t, 1, pm.OrdersCount)
}

func TestPaymentMethodRepository_Delete_Restricted(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewPaymentMethodRepository(db)

	mock.ExpectExec(`DELETE FROM payment_methodes WHERE id = \$1`).
		WithArgs(2).
		WillReturnError(&pq.Error{Code: "23503", Constraint: "produit_prices_price_methode_id_fkey"})

	err := repo.Delete(context.Background(), 2)
	assert.True(t, repository.IsForeignKeyViolation(err, ""))
}

func TestProductTypeRepository_DetachProducts(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewProductTypeRepository(db)

	mock.ExpectExec(`UPDATE produits SET type_produit_id = NULL`).WithArgs(5).WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DetachProducts(context.Background(), db, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestProductTypeRepository_List(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewProductTypeRepository(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM product_types pt`).WithArgs("gem").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`ORDER BY pt.name LIMIT \$2 OFFSET \$3`).WithArgs("gem", 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at", "products_count", "ordered_count"}).
			AddRow(1, "Gems", now, now, 6, 2))

	types, total, err := repo.List(context.Background(), "gem", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, 6, types[0].ProductsCount)
	assert.Equal(t, 2, types[0].OrderedCount)
}

func TestProductRepository_Catalog_AllFilters(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewProductRepository(db)
	now := time.Now()
	minPrice, maxPrice := decimal.NewFromInt(1), decimal.NewFromInt(10)

	mock.ExpectQuery(`SELECT COUNT\(\*\)\s+FROM produits p\s+JOIN produit_prices pp ON pp.produit_id = p.id AND pp.price_methode_id = \$1`+
		`.*p.label ILIKE \$2 OR p.description ILIKE \$2.*p.type_produit_id = ANY\(\$3\).*pp.price >= \$4.*pp.price <= \$5`).
		WithArgs(3, "%gems%", sqlmock.AnyArg(), minPrice, maxPrice).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`pp.price\s+FROM produits p.*LIMIT \$6 OFFSET \$7`).
		WithArgs(3, "%gems%", sqlmock.AnyArg(), minPrice, maxPrice, 12, 0).
		WillReturnRows(sqlmock.NewRows(productCols).
			AddRow(8, "1000 gems", "Free Fire gems", "products/a.png", 1000, "gems", "TND", 2, now, now, "Gems", "7.500"))

	products, total, err := repo.Catalog(context.Background(), repository.CatalogFilter{
		MethodID: 3,
		Search:   "gems",
		TypeIDs:  []int{2, 5},
		MinPrice: &minPrice,
		MaxPrice: &maxPrice,
		Page:     1,
		Limit:    12,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, products, 1)
	require.True(t, products[0].Price.Valid)
	assert.True(t, decimal.RequireFromString("7.5").Equal(products[0].Price.Decimal))
	assert.Equal(t, "Gems", *products[0].TypeName)
}

func TestProductRepository_CatalogProduct_Unpriced(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewProductRepository(db)

	mock.ExpectQuery(`WHERE p.id = \$1`).WithArgs(8, 4).WillReturnRows(sqlmock.NewRows(productCols))

	_, err := repo.CatalogProduct(context.Background(), 8, 4)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestProductRepository_PriceBounds(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewProductRepository(db)

	mock.ExpectQuery(`COALESCE\(MIN\(price\), 0\)`).WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"min_price", "max_price"}).AddRow("0.500", "45.000"))

	b, err := repo.PriceBounds(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "0.5", b.Min.String())
	assert.Equal(t, "45", b.Max.String())
}

func TestProductRepository_PricedForMethod_NoIDs(t *testing.T) {
	db, _ := newMock(t)
	repo := repository.NewProductRepository(db)

	got, err := repo.PricedForMethod(context.Background(), 3, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestProductRepository_ReplacePrices(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewProductRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM produit_prices WHERE produit_id = \$1 AND NOT`).
		WithArgs(8, sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO produit_prices`).
		WithArgs(8, 1, decimal.RequireFromString("7.5")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO produit_prices`).
		WithArgs(8, 2, decimal.RequireFromString("8")).WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	tx, err := db.Beginx()
	require.NoError(t, err)
	err = repo.ReplacePrices(context.Background(), tx, 8, []models.ProduitPrice{
		{PriceMethodeID: 1, Price: decimal.RequireFromString("7.5")},
		{PriceMethodeID: 2, Price: decimal.RequireFromString("8")},
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
}

func TestProductRepository_SaveContact_EmptyDeletes(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewProductRepository(db)

	mock.ExpectExec(`DELETE FROM contact_social_media WHERE produit_id = \$1`).WithArgs(8).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.SaveContact(context.Background(), db, 8, &models.ContactSocialMedia{}))
}
