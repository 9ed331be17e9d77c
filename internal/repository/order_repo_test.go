package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amazighishop/shop_api/internal/models"
	"github.com/amazighishop/shop_api/internal/repository"
	"github.com/amazighishop/shop_api/internal/utils"
)

var orderCols = []string{"id", "user_id", "statut", "date_commande", "date_confirmation", "total_amount",
	"payment_methode_id", "payment_method_name", "client_facebook", "client_instagram",
	"notes_client", "notes_admin", "created_at", "updated_at"}

func TestOrderRepository_Create_WritesLines(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewOrderRepository(db)
	now := time.Now()
	methodID := 3

	order := &models.Commande{
		UserID:            5,
		Statut:            models.OrderPending,
		PaymentMethodeID:  &methodID,
		PaymentMethodName: "D17",
		NotesClient:       "merci",
	}
	order.Lines = []models.CommandeProduit{
		models.NewOrderLine(&models.Produit{ID: 8, Label: "1000 gems", Currency: "TND"}, decimal.RequireFromString("7.5"), 2),
	}
	order.RecomputeTotal()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO commandes`).
		WithArgs(5, models.OrderPending, decimal.RequireFromString("15"), 3, "D17", "", "", "merci").
		WillReturnRows(sqlmock.NewRows(orderCols).
			AddRow(41, 5, "en_attente", now, nil, "15.000", 3, "D17", "", "", "merci", "", now, now))
	mock.ExpectQuery(`INSERT INTO commande_produits`).
		WithArgs(41, 8, "1000 gems", "", 0, "", "TND", 2, decimal.RequireFromString("7.5"), decimal.RequireFromString("15")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(90, now))
	mock.ExpectCommit()

	tx, err := db.Beginx()
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), tx, order))
	require.NoError(t, tx.Commit())

	assert.Equal(t, 41, order.ID)
	assert.Equal(t, 41, order.Lines[0].CommandeID)
	assert.Equal(t, 90, order.Lines[0].ID)
}

func TestOrderRepository_Transition(t *testing.T) {
	t.Run("pending order is confirmed", func(t *testing.T) {
		db, mock := newMock(t)
		repo := repository.NewOrderRepository(db)

		mock.ExpectExec(`UPDATE commandes SET statut = \$2`).
			WithArgs(41, models.OrderConfirmed, true).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Transition(context.Background(), 41, models.OrderConfirmed))
	})

	t.Run("terminal order is rejected", func(t *testing.T) {
		db, mock := newMock(t)
		repo := repository.NewOrderRepository(db)

		mock.ExpectExec(`UPDATE commandes`).
			WithArgs(41, models.OrderCancelled, false).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT EXISTS`).WithArgs(41).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		assert.ErrorIs(t, repo.Transition(context.Background(), 41, models.OrderCancelled), utils.ErrOrderFinalized)
	})

	t.Run("missing order", func(t *testing.T) {
		db, mock := newMock(t)
		repo := repository.NewOrderRepository(db)

		mock.ExpectExec(`UPDATE commandes`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT EXISTS`).WithArgs(99).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		assert.ErrorIs(t, repo.Transition(context.Background(), 99, models.OrderConfirmed), utils.ErrNotFound)
	})
}

func TestOrderRepository_List_NumericSearchMatchesID(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewOrderRepository(db)
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM commandes c JOIN users u ON u.id = c.user_id WHERE 1=1 `+
		`AND \(c.id = \$1 OR u.name ILIKE \$2 OR u.email ILIKE \$2\) AND c.statut = \$3 AND c.date_commande >= \$4`).
		WithArgs(41, "%41%", "en_attente", from).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`LIMIT \$5 OFFSET \$6`).
		WithArgs(41, "%41%", "en_attente", from, 10, 0).
		WillReturnRows(sqlmock.NewRows(append(orderCols, "user_name", "user_email", "user_phone")))

	orders, total, err := repo.List(context.Background(), repository.OrderFilter{
		Search: "41", Statut: "en_attente", DateFrom: &from, Page: 1, Limit: 10,
	})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, orders)
}

func TestOrderRepository_List_ByUserAndDateTo(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewOrderRepository(db)
	userID := 5
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`WHERE 1=1 AND c.user_id = \$1 AND c.date_commande < \$2`).
		WithArgs(5, to.AddDate(0, 0, 1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`LIMIT \$3 OFFSET \$4`).
		WithArgs(5, to.AddDate(0, 0, 1), 10, 10).
		WillReturnRows(sqlmock.NewRows(append(orderCols, "user_name", "user_email", "user_phone")))

	_, _, err := repo.List(context.Background(), repository.OrderFilter{UserID: &userID, DateTo: &to, Page: 2, Limit: 10})
	require.NoError(t, err)
}

func TestOrderRepository_Stats(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewOrderRepository(db)

	mock.ExpectQuery(`COUNT\(\*\) FILTER`).
		WillReturnRows(sqlmock.NewRows([]string{"total", "pending", "confirmed", "cancelled", "revenue", "today_orders"}).
			AddRow(10, 3, 6, 1, "120.500", 2))

	s, err := repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, s.Total)
	assert.Equal(t, 3, s.Pending)
	assert.Equal(t, "120.5", s.Revenue.String())
	assert.Equal(t, 2, s.TodayOrders)
}

func TestOrderRepository_UpdateNotes(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewOrderRepository(db)

	mock.ExpectExec(`UPDATE commandes SET notes_admin = \$2`).WithArgs(41, "appelé").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.UpdateNotes(context.Background(), 41, "appelé"))
}
