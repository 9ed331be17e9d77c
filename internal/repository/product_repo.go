package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/amazighishop/shop_api/internal/models"
	"github.com/amazighishop/shop_api/internal/utils"
)

const productColumns = `p.id, p.label, p.description, p.image, p.quantity, p.unit, p.currency,
	p.type_produit_id, p.created_at, p.updated_at, pt.name AS type_name`

// ProductFilter narrows the admin product list.
type ProductFilter struct {
	Search string
	TypeID *int
	Page   int
	Limit  int
}

// CatalogFilter narrows the client catalog. Only products priced for
// MethodID are ever returned.
type CatalogFilter struct {
	MethodID int
	Search   string
	TypeIDs  []int
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Page     int
	Limit    int
}

type ProductRepository struct {
	db *sqlx.DB
}

func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// List returns a page of products for the back-office.
func (r *ProductRepository) List(ctx context.Context, filter ProductFilter) ([]models.Produit, int, error) {
	baseQ := ` FROM produits p LEFT JOIN product_types pt ON pt.id = p.type_produit_id WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.Search != "" {
		baseQ += fmt.Sprintf(" AND (p.label ILIKE $%d OR p.description ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}
	if filter.TypeID != nil {
		baseQ += fmt.Sprintf(" AND p.type_produit_id = $%d", argIdx)
		args = append(args, *filter.TypeID)
		argIdx++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*)`+baseQ, args...); err != nil {
		return nil, 0, err
	}

	selectQ := fmt.Sprintf(`SELECT %s%s ORDER BY p.created_at DESC, p.id DESC LIMIT $%d OFFSET $%d`,
		productColumns, baseQ, argIdx, argIdx+1)
	args = append(args, filter.Limit, utils.Offset(filter.Page, filter.Limit))

	products := []models.Produit{}
	if err := r.db.SelectContext(ctx, &products, selectQ, args...); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// GetByID returns the product with its type name, without prices or contact.
func (r *ProductRepository) GetByID(ctx context.Context, id int) (*models.Produit, error) {
	var p models.Produit
	err := r.db.GetContext(ctx, &p, `
		SELECT `+productColumns+`
		FROM produits p
		LEFT JOIN product_types pt ON pt.id = p.type_produit_id
		WHERE p.id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetPrices returns every price of a product with its method name.
func (r *ProductRepository) GetPrices(ctx context.Context, productID int) ([]models.ProduitPrice, error) {
	prices := []models.ProduitPrice{}
	err := r.db.SelectContext(ctx, &prices, `
		SELECT pp.id, pp.produit_id, pp.price_methode_id, pp.price, pm.methode_name
		FROM produit_prices pp
		JOIN payment_methodes pm ON pm.id = pp.price_methode_id
		WHERE pp.produit_id = $1
		ORDER BY pm.methode_name
	`, productID)
	return prices, err
}

// GetContact returns the social links of a product, or nil when it has none.
func (r *ProductRepository) GetContact(ctx context.Context, productID int) (*models.ContactSocialMedia, error) {
	var c models.ContactSocialMedia
	err := r.db.GetContext(ctx, &c, `
		SELECT id, produit_id, instagram, facebook, whatsapp, tiktok
		FROM contact_social_media
		WHERE produit_id = $1
	`, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *ProductRepository) Create(ctx context.Context, tx sqlx.QueryerContext, p *models.Produit) error {
	query := `
		INSERT INTO produits (label, description, image, quantity, unit, currency, type_produit_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	return tx.QueryRowxContext(ctx, query,
		p.Label, p.Description, p.Image, p.Quantity, p.Unit, p.Currency, p.TypeProduitID,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// Update saves the scalar fields. The image is changed through SetImage.
func (r *ProductRepository) Update(ctx context.Context, tx sqlx.QueryerContext, p *models.Produit) error {
	query := `
		UPDATE produits
		SET label = $1, description = $2, quantity = $3, unit = $4, currency = $5,
			type_produit_id = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING image, created_at, updated_at
	`
	err := tx.QueryRowxContext(ctx, query,
		p.Label, p.Description, p.Quantity, p.Unit, p.Currency, p.TypeProduitID, p.ID,
	).Scan(&p.Image, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return utils.ErrNotFound
	}
	return err
}

// ReplacePrices makes the product's price rows exactly prices.
func (r *ProductRepository) ReplacePrices(ctx context.Context, tx sqlx.ExtContext, productID int, prices []models.ProduitPrice) error {
	methodIDs := make([]int64, 0, len(prices))
	for _, pr := range prices {
		methodIDs = append(methodIDs, int64(pr.PriceMethodeID))
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM produit_prices WHERE produit_id = $1 AND NOT (price_methode_id = ANY($2))`,
		productID, pq.Array(methodIDs),
	); err != nil {
		return fmt.Errorf("prune prices: %w", err)
	}

	for _, pr := range prices {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO produit_prices (produit_id, price_methode_id, price)
			VALUES ($1, $2, $3)
			ON CONFLICT (produit_id, price_methode_id)
			DO UPDATE SET price = EXCLUDED.price, updated_at = NOW()
		`, productID, pr.PriceMethodeID, pr.Price); err != nil {
			return fmt.Errorf("upsert price for method %d: %w", pr.PriceMethodeID, err)
		}
	}
	return nil
}

// SaveContact upserts the social links, or removes them when c is nil or empty.
func (r *ProductRepository) SaveContact(ctx context.Context, tx sqlx.ExecerContext, productID int, c *models.ContactSocialMedia) error {
	if c == nil || c.Empty() {
		_, err := tx.ExecContext(ctx, `DELETE FROM contact_social_media WHERE produit_id = $1`, productID)
		return err
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO contact_social_media (produit_id, instagram, facebook, whatsapp, tiktok)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (produit_id)
		DO UPDATE SET instagram = EXCLUDED.instagram, facebook = EXCLUDED.facebook,
			whatsapp = EXCLUDED.whatsapp, tiktok = EXCLUDED.tiktok, updated_at = NOW()
	`, productID, c.Instagram, c.Facebook, c.Whatsapp, c.Tiktok)
	return err
}

// SetImage stores the new relative image path and returns the previous one.
func (r *ProductRepository) SetImage(ctx context.Context, id int, image string) (string, error) {
	var previous string
	err := r.db.GetContext(ctx, &previous, `
		WITH old AS (SELECT image FROM produits WHERE id = $1)
		UPDATE produits SET image = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING (SELECT image FROM old)
	`, id, image)
	if errors.Is(err, sql.ErrNoRows) {
		return "", utils.ErrNotFound
	}
	return previous, err
}

// Delete removes the product. Prices and contact rows cascade; order lines
// keep their snapshot with a NULL product reference.
func (r *ProductRepository) Delete(ctx context.Context, id int) (string, error) {
	var image string
	err := r.db.GetContext(ctx, &image, `DELETE FROM produits WHERE id = $1 RETURNING image`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", utils.ErrNotFound
	}
	return image, err
}

// ImageInUse reports whether an order line snapshot still points at image.
func (r *ProductRepository) ImageInUse(ctx context.Context, image string) (bool, error) {
	var used bool
	err := r.db.GetContext(ctx, &used, `SELECT EXISTS(SELECT 1 FROM commande_produits WHERE image = $1)`, image)
	return used, err
}

func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM produits`)
	return n, err
}

// Catalog returns the page of products priced for filter.MethodID, each
// carrying that method's price.
func (r *ProductRepository) Catalog(ctx context.Context, filter CatalogFilter) ([]models.Produit, int, error) {
	baseQ := `
		FROM produits p
		JOIN produit_prices pp ON pp.produit_id = p.id AND pp.price_methode_id = $1
		LEFT JOIN product_types pt ON pt.id = p.type_produit_id
		WHERE 1=1`
	args := []interface{}{filter.MethodID}
	argIdx := 2

	if filter.Search != "" {
		baseQ += fmt.Sprintf(" AND (p.label ILIKE $%d OR p.description ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}
	if len(filter.TypeIDs) > 0 {
		ids := make([]int64, len(filter.TypeIDs))
		for i, id := range filter.TypeIDs {
			ids[i] = int64(id)
		}
		baseQ += fmt.Sprintf(" AND p.type_produit_id = ANY($%d)", argIdx)
		args = append(args, pq.Array(ids))
		argIdx++
	}
	if filter.MinPrice != nil {
		baseQ += fmt.Sprintf(" AND pp.price >= $%d", argIdx)
		args = append(args, *filter.MinPrice)
		argIdx++
	}
	if filter.MaxPrice != nil {
		baseQ += fmt.Sprintf(" AND pp.price <= $%d", argIdx)
		args = append(args, *filter.MaxPrice)
		argIdx++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*)`+baseQ, args...); err != nil {
		return nil, 0, err
	}

	selectQ := fmt.Sprintf(`SELECT %s, pp.price%s ORDER BY p.label, p.id LIMIT $%d OFFSET $%d`,
		productColumns, baseQ, argIdx, argIdx+1)
	args = append(args, filter.Limit, utils.Offset(filter.Page, filter.Limit))

	products := []models.Produit{}
	if err := r.db.SelectContext(ctx, &products, selectQ, args...); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// CatalogProduct returns one product with its price for methodID.
// utils.ErrNotFound covers both a missing product and a missing price.
func (r *ProductRepository) CatalogProduct(ctx context.Context, id, methodID int) (*models.Produit, error) {
	var p models.Produit
	err := r.db.GetContext(ctx, &p, `
		SELECT `+productColumns+`, pp.price
		FROM produits p
		JOIN produit_prices pp ON pp.produit_id = p.id AND pp.price_methode_id = $2
		LEFT JOIN product_types pt ON pt.id = p.type_produit_id
		WHERE p.id = $1
	`, id, methodID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// PricedForMethod loads the listed products with their methodID price.
// Products without a price for the method are left out of the result.
func (r *ProductRepository) PricedForMethod(ctx context.Context, methodID int, ids []int) (map[int]models.Produit, error) {
	return r.PricedForMethodTx(ctx, r.db, methodID, ids)
}

// PricedForMethodTx is PricedForMethod on q, typically an open transaction.
func (r *ProductRepository) PricedForMethodTx(ctx context.Context, q sqlx.QueryerContext, methodID int, ids []int) (map[int]models.Produit, error) {
	out := make(map[int]models.Produit, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	pids := make([]int64, len(ids))
	for i, id := range ids {
		pids[i] = int64(id)
	}

	var rows []models.Produit
	err := sqlx.SelectContext(ctx, q, &rows, `
		SELECT `+productColumns+`, pp.price
		FROM produits p
		JOIN produit_prices pp ON pp.produit_id = p.id AND pp.price_methode_id = $1
		LEFT JOIN product_types pt ON pt.id = p.type_produit_id
		WHERE p.id = ANY($2)
	`, methodID, pq.Array(pids))
	if err != nil {
		return nil, err
	}
	for _, p := range rows {
		out[p.ID] = p
	}
	return out, nil
}

// PriceBounds returns the cheapest and dearest price for methodID, both zero
// when the method prices nothing.
func (r *ProductRepository) PriceBounds(ctx context.Context, methodID int) (models.PriceBounds, error) {
	var b models.PriceBounds
	err := r.db.GetContext(ctx, &b, `
		SELECT COALESCE(MIN(price), 0) AS min_price, COALESCE(MAX(price), 0) AS max_price
		FROM produit_prices
		WHERE price_methode_id = $1
	`, methodID)
	return b, err
}
