package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/amazighishop/shop_api/internal/models"
	"github.com/amazighishop/shop_api/internal/utils"
)

// PaymentMethodUniqueName is the constraint guarding method names.
const PaymentMethodUniqueName = "payment_methodes_methode_name_key"

const paymentMethodSelect = `
	SELECT pm.id, pm.methode_name, pm.created_at, pm.updated_at,
		(SELECT COUNT(*) FROM produit_prices pp WHERE pp.price_methode_id = pm.id) AS prices_count,
		(SELECT COUNT(*) FROM commandes c WHERE c.payment_methode_id = pm.id) AS orders_count
	FROM payment_methodes pm`

type PaymentMethodRepository struct {
	db *sqlx.DB
}

func NewPaymentMethodRepository(db *sqlx.DB) *PaymentMethodRepository {
	return &PaymentMethodRepository{db: db}
}

// List returns a page of methods with their dependent counts.
func (r *PaymentMethodRepository) List(ctx context.Context, search string, page, limit int) ([]models.PaymentMethode, int, error) {
	where := ` WHERE ($1 = '' OR pm.methode_name ILIKE '%' || $1 || '%')`

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM payment_methodes pm`+where, search); err != nil {
		return nil, 0, err
	}

	methods := []models.PaymentMethode{}
	q := paymentMethodSelect + where + ` ORDER BY pm.methode_name LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &methods, q, search, limit, utils.Offset(page, limit)); err != nil {
		return nil, 0, err
	}
	return methods, total, nil
}

// All returns every method, for the client selection page.
func (r *PaymentMethodRepository) All(ctx context.Context) ([]models.PaymentMethode, error) {
	methods := []models.PaymentMethode{}
	err := r.db.SelectContext(ctx, &methods,
		`SELECT id, methode_name, created_at, updated_at FROM payment_methodes ORDER BY methode_name`)
	return methods, err
}

func (r *PaymentMethodRepository) GetByID(ctx context.Context, id int) (*models.PaymentMethode, error) {
	var pm models.PaymentMethode
	if err := r.db.GetContext(ctx, &pm, paymentMethodSelect+` WHERE pm.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &pm, nil
}

func (r *PaymentMethodRepository) Create(ctx context.Context, pm *models.PaymentMethode) error {
	return r.db.QueryRowxContext(ctx,
		`INSERT INTO payment_methodes (methode_name) VALUES ($1) RETURNING id, created_at, updated_at`, pm.MethodeName,
	).Scan(&pm.ID, &pm.CreatedAt, &pm.UpdatedAt)
}

func (r *PaymentMethodRepository) Update(ctx context.Context, pm *models.PaymentMethode) error {
	err := r.db.QueryRowxContext(ctx,
		`UPDATE payment_methodes SET methode_name = $1, updated_at = NOW() WHERE id = $2 RETURNING created_at, updated_at`,
		pm.MethodeName, pm.ID,
	).Scan(&pm.CreatedAt, &pm.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return utils.ErrNotFound
	}
	return err
}

// Delete removes a method. Dependent prices or orders make the RESTRICT
// foreign keys fail, which callers see through IsForeignKeyViolation.
func (r *PaymentMethodRepository) Delete(ctx context.Context, id int) error {
	return execOne(ctx, r.db, `DELETE FROM payment_methodes WHERE id = $1`, id)
}
