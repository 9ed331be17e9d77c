package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/amazighishop/shop_api/internal/models"
	"github.com/amazighishop/shop_api/internal/utils"
)

const orderColumns = `c.id, c.user_id, c.statut, c.date_commande, c.date_confirmation, c.total_amount,
	c.payment_methode_id, c.payment_method_name, c.client_facebook, c.client_instagram,
	c.notes_client, c.notes_admin, c.created_at, c.updated_at,
	u.name AS user_name, u.email AS user_email, u.phone AS user_phone`

const orderFrom = ` FROM commandes c JOIN users u ON u.id = c.user_id`

// OrderFilter narrows order lists. DateTo is inclusive of the whole day.
type OrderFilter struct {
	Search   string
	Statut   string
	DateFrom *time.Time
	DateTo   *time.Time
	UserID   *int
	Page     int
	Limit    int
}

type OrderRepository struct {
	db *sqlx.DB
}

func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts the order and its lines. It must run inside a transaction.
func (r *OrderRepository) Create(ctx context.Context, tx sqlx.ExtContext, order *models.Commande) error {
	err := sqlx.GetContext(ctx, tx, order, `
		INSERT INTO commandes (user_id, statut, total_amount, payment_methode_id, payment_method_name,
			client_facebook, client_instagram, notes_client)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, user_id, statut, date_commande, date_confirmation, total_amount, payment_methode_id,
			payment_method_name, client_facebook, client_instagram, notes_client, notes_admin,
			created_at, updated_at
	`, order.UserID, order.Statut, order.TotalAmount, order.PaymentMethodeID, order.PaymentMethodName,
		order.ClientFacebook, order.ClientInstagram, order.NotesClient)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range order.Lines {
		line := &order.Lines[i]
		line.CommandeID = order.ID
		err := tx.QueryRowxContext(ctx, `
			INSERT INTO commande_produits (commande_id, produit_id, label, image, quantity, unit, currency,
				quantite_commandee, prix_unitaire, sous_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id, created_at
		`, line.CommandeID, line.ProduitID, line.Label, line.Image, line.Quantity, line.Unit, line.Currency,
			line.QuantiteCommandee, line.PrixUnitaire, line.SousTotal,
		).Scan(&line.ID, &line.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert order line %d: %w", i, err)
		}
	}
	return nil
}

// GetByID returns the order with its client columns, without lines.
func (r *OrderRepository) GetByID(ctx context.Context, id int) (*models.Commande, error) {
	var order models.Commande
	err := r.db.GetContext(ctx, &order, `SELECT `+orderColumns+orderFrom+` WHERE c.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) GetLines(ctx context.Context, orderID int) ([]models.CommandeProduit, error) {
	lines := []models.CommandeProduit{}
	err := r.db.SelectContext(ctx, &lines, `
		SELECT id, commande_id, produit_id, label, image, quantity, unit, currency,
			quantite_commandee, prix_unitaire, sous_total, created_at
		FROM commande_produits
		WHERE commande_id = $1
		ORDER BY id
	`, orderID)
	return lines, err
}

// List returns a page of orders, newest first.
func (r *OrderRepository) List(ctx context.Context, filter OrderFilter) ([]models.Commande, int, error) {
	baseQ := orderFrom + ` WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.UserID != nil {
		baseQ += fmt.Sprintf(" AND c.user_id = $%d", argIdx)
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.Search != "" {
		if id, err := strconv.Atoi(filter.Search); err == nil {
			baseQ += fmt.Sprintf(" AND (c.id = $%d OR u.name ILIKE $%d OR u.email ILIKE $%d)", argIdx, argIdx+1, argIdx+1)
			args = append(args, id, "%"+filter.Search+"%")
			argIdx += 2
		} else {
			baseQ += fmt.Sprintf(" AND (u.name ILIKE $%d OR u.email ILIKE $%d)", argIdx, argIdx)
			args = append(args, "%"+filter.Search+"%")
			argIdx++
		}
	}
	if filter.Statut != "" {
		baseQ += fmt.Sprintf(" AND c.statut = $%d", argIdx)
		args = append(args, filter.Statut)
		argIdx++
	}
	if filter.DateFrom != nil {
		baseQ += fmt.Sprintf(" AND c.date_commande >= $%d", argIdx)
		args = append(args, *filter.DateFrom)
		argIdx++
	}
	if filter.DateTo != nil {
		baseQ += fmt.Sprintf(" AND c.date_commande < $%d", argIdx)
		args = append(args, filter.DateTo.AddDate(0, 0, 1))
		argIdx++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*)`+baseQ, args...); err != nil {
		return nil, 0, err
	}

	selectQ := fmt.Sprintf(`SELECT %s%s ORDER BY c.date_commande DESC, c.id DESC LIMIT $%d OFFSET $%d`,
		orderColumns, baseQ, argIdx, argIdx+1)
	args = append(args, filter.Limit, utils.Offset(filter.Page, filter.Limit))

	orders := []models.Commande{}
	if err := r.db.SelectContext(ctx, &orders, selectQ, args...); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// Transition moves a pending order to status. It returns ErrOrderFinalized
// when the order exists but is no longer pending.
func (r *OrderRepository) Transition(ctx context.Context, id int, status models.OrderStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE commandes
		SET statut = $2,
			date_confirmation = CASE WHEN $3 THEN NOW() ELSE date_confirmation END,
			updated_at = NOW()
		WHERE id = $1 AND statut = 'en_attente'
	`, id, status, status == models.OrderConfirmed)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}

	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM commandes WHERE id = $1)`, id); err != nil {
		return err
	}
	if !exists {
		return utils.ErrNotFound
	}
	return utils.ErrOrderFinalized
}

func (r *OrderRepository) UpdateNotes(ctx context.Context, id int, notes string) error {
	return execOne(ctx, r.db, `UPDATE commandes SET notes_admin = $2, updated_at = NOW() WHERE id = $1`, id, notes)
}

// Stats aggregates order counts and confirmed revenue.
func (r *OrderRepository) Stats(ctx context.Context) (models.OrderStats, error) {
	var s models.OrderStats
	err := r.db.GetContext(ctx, &s, `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE statut = 'en_attente') AS pending,
			COUNT(*) FILTER (WHERE statut = 'confirme') AS confirmed,
			COUNT(*) FILTER (WHERE statut = 'annuler') AS cancelled,
			COALESCE(SUM(total_amount) FILTER (WHERE statut = 'confirme'), 0) AS revenue,
			COUNT(*) FILTER (WHERE date_commande >= date_trunc('day', NOW())) AS today_orders
		FROM commandes
	`)
	return s, err
}

// DailyTrend returns one point per day for the last days days, oldest first,
// including days without orders.
func (r *OrderRepository) DailyTrend(ctx context.Context, days int) ([]models.DailyOrders, error) {
	points := []models.DailyOrders{}
	err := r.db.SelectContext(ctx, &points, `
		SELECT d.day,
			COUNT(c.id) AS orders,
			COALESCE(SUM(c.total_amount) FILTER (WHERE c.statut = 'confirme'), 0) AS revenue
		FROM generate_series(date_trunc('day', NOW()) - ($1::int - 1) * INTERVAL '1 day', date_trunc('day', NOW()), INTERVAL '1 day') AS d(day)
		LEFT JOIN commandes c ON date_trunc('day', c.date_commande) = d.day
		GROUP BY d.day
		ORDER BY d.day
	`, days)
	return points, err
}
