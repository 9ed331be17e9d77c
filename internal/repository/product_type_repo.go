package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/amazighishop/shop_api/internal/models"
	"github.com/amazighishop/shop_api/internal/utils"
)

// ProductTypeUniqueName is the constraint guarding type names.
const ProductTypeUniqueName = "product_types_name_key"

const productTypeSelect = `
	SELECT pt.id, pt.name, pt.created_at, pt.updated_at,
		(SELECT COUNT(*) FROM produits p WHERE p.type_produit_id = pt.id) AS products_count,
		(SELECT COUNT(DISTINCT p.id) FROM produits p
			JOIN commande_produits cp ON cp.produit_id = p.id
			WHERE p.type_produit_id = pt.id) AS ordered_count
	FROM product_types pt`

type ProductTypeRepository struct {
	db *sqlx.DB
}

func NewProductTypeRepository(db *sqlx.DB) *ProductTypeRepository {
	return &ProductTypeRepository{db: db}
}

// List returns a page of types with their product counts.
func (r *ProductTypeRepository) List(ctx context.Context, search string, page, limit int) ([]models.ProductType, int, error) {
	where := ` WHERE ($1 = '' OR pt.name ILIKE '%' || $1 || '%')`

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM product_types pt`+where, search); err != nil {
		return nil, 0, err
	}

	types := []models.ProductType{}
	q := productTypeSelect + where + ` ORDER BY pt.name LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &types, q, search, limit, utils.Offset(page, limit)); err != nil {
		return nil, 0, err
	}
	return types, total, nil
}

// All returns every type, for filters and select boxes.
func (r *ProductTypeRepository) All(ctx context.Context) ([]models.ProductType, error) {
	types := []models.ProductType{}
	err := r.db.SelectContext(ctx, &types, `SELECT id, name, created_at, updated_at FROM product_types ORDER BY name`)
	return types, err
}

func (r *ProductTypeRepository) GetByID(ctx context.Context, id int) (*models.ProductType, error) {
	var pt models.ProductType
	if err := r.db.GetContext(ctx, &pt, productTypeSelect+` WHERE pt.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &pt, nil
}

func (r *ProductTypeRepository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM product_types WHERE id = $1)`, id)
	return exists, err
}

func (r *ProductTypeRepository) Create(ctx context.Context, pt *models.ProductType) error {
	return r.db.QueryRowxContext(ctx,
		`INSERT INTO product_types (name) VALUES ($1) RETURNING id, created_at, updated_at`, pt.Name,
	).Scan(&pt.ID, &pt.CreatedAt, &pt.UpdatedAt)
}

func (r *ProductTypeRepository) Update(ctx context.Context, pt *models.ProductType) error {
	err := r.db.QueryRowxContext(ctx,
		`UPDATE product_types SET name = $1, updated_at = NOW() WHERE id = $2 RETURNING created_at, updated_at`,
		pt.Name, pt.ID,
	).Scan(&pt.CreatedAt, &pt.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return utils.ErrNotFound
	}
	return err
}

// DetachProducts clears the type of its products and returns how many were
// touched.
func (r *ProductTypeRepository) DetachProducts(ctx context.Context, tx sqlx.ExecerContext, id int) (int64, error) {
	res, err := tx.ExecContext(ctx, `UPDATE produits SET type_produit_id = NULL, updated_at = NOW() WHERE type_produit_id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("detach products: %w", err)
	}
	return res.RowsAffected()
}

func (r *ProductTypeRepository) Delete(ctx context.Context, tx sqlx.ExecerContext, id int) error {
	return execOne(ctx, tx, `DELETE FROM product_types WHERE id = $1`, id)
}
