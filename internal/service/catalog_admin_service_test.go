package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amazighishop/shop_api/internal/repository"
	"github.com/amazighishop/shop_api/internal/utils"
)

var typeCols = []string{"id", "name", "created_at", "updated_at", "products_count", "ordered_count"}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate(context.Context) error {
	c.calls++
	return nil
}

func TestProductTypeService_Delete_DetachesProducts(t *testing.T) {
	db, mock := newMockDB(t)
	inv := &countingInvalidator{}
	svc := NewProductTypeService(db, repository.NewProductTypeRepository(db), inv)
	now := time.Now()

	mock.ExpectQuery(`FROM product_types pt WHERE pt.id = \$1`).WithArgs(2).
		WillReturnRows(sqlmock.NewRows(typeCols).AddRow(2, "Gems", now, now, 3, 0))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE produits SET type_produit_id = NULL`).WithArgs(2).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM product_types WHERE id = \$1`).WithArgs(2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, svc.Delete(context.Background(), 2))
	assert.Equal(t, 1, inv.calls)
}

func TestProductTypeService_Delete_OrderedProductsBlock(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewProductTypeService(db, repository.NewProductTypeRepository(db), nil)
	now := time.Now()

	mock.ExpectQuery(`FROM product_types pt`).WithArgs(2).
		WillReturnRows(sqlmock.NewRows(typeCols).AddRow(2, "Gems", now, now, 3, 1))

	err := svc.Delete(context.Background(), 2)
	var inUse *utils.InUseError
	require.True(t, errors.As(err, &inUse))
	assert.Equal(t, 1, inUse.Orders)
	assert.ErrorIs(t, err, utils.ErrProductTypeInUse)
}

func TestProductTypeService_Create_DuplicateName(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewProductTypeService(db, repository.NewProductTypeRepository(db), nil)

	mock.ExpectQuery(`INSERT INTO product_types`).WithArgs("Gems").
		WillReturnError(&pq.Error{Code: "23505", Constraint: repository.ProductTypeUniqueName})

	_, err := svc.Create(context.Background(), "  Gems ")
	var fe utils.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "validation.unique", fe["name"])
}

func TestPaymentMethodService_Delete(t *testing.T) {
	t.Run("prices and orders block the deletion", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := NewPaymentMethodService(repository.NewPaymentMethodRepository(db), nil)
		now := time.Now()

		mock.ExpectQuery(`FROM payment_methodes pm WHERE pm.id = \$1`).WithArgs(3).
			WillReturnRows(sqlmock.NewRows(methodCols).AddRow(3, "D17", now, now, 4, 2))

		err := svc.Delete(context.Background(), 3)
		var inUse *utils.InUseError
		require.True(t, errors.As(err, &inUse))
		assert.Equal(t, 4, inUse.Prices)
		assert.Equal(t, 2, inUse.Orders)
		assert.ErrorIs(t, err, utils.ErrPaymentMethodInUse)
	})

	t.Run("unused method is deleted", func(t *testing.T) {
		db, mock := newMockDB(t)
		inv := &countingInvalidator{}
		svc := NewPaymentMethodService(repository.NewPaymentMethodRepository(db), inv)
		now := time.Now()

		mock.ExpectQuery(`FROM payment_methodes pm`).WithArgs(3).
			WillReturnRows(sqlmock.NewRows(methodCols).AddRow(3, "D17", now, now, 0, 0))
		mock.ExpectExec(`DELETE FROM payment_methodes`).WithArgs(3).WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, svc.Delete(context.Background(), 3))
		assert.Equal(t, 1, inv.calls)
	})

	t.Run("price added concurrently", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := NewPaymentMethodService(repository.NewPaymentMethodRepository(db), nil)
		now := time.Now()

		mock.ExpectQuery(`FROM payment_methodes pm`).WithArgs(3).
			WillReturnRows(sqlmock.NewRows(methodCols).AddRow(3, "D17", now, now, 0, 0))
		mock.ExpectExec(`DELETE FROM payment_methodes`).WithArgs(3).
			WillReturnError(&pq.Error{Code: "23503"})
		mock.ExpectQuery(`FROM payment_methodes pm`).WithArgs(3).
			WillReturnRows(sqlmock.NewRows(methodCols).AddRow(3, "D17", now, now, 1, 0))

		err := svc.Delete(context.Background(), 3)
		var inUse *utils.InUseError
		require.True(t, errors.As(err, &inUse))
		assert.Equal(t, 1, inUse.Prices)
	})
}
