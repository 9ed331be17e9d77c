package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/amazighishop/shop_api/internal/cache"
	"github.com/amazighishop/shop_api/internal/cart"
	"github.com/amazighishop/shop_api/internal/models"
	"github.com/amazighishop/shop_api/internal/repository"
	"github.com/amazighishop/shop_api/internal/storage"
	"github.com/amazighishop/shop_api/internal/utils"
)

// CatalogPerPage is the client catalog page size.
const CatalogPerPage = 12

type boundsCache interface {
	Bounds(ctx context.Context, methodID int) (*models.PriceBounds, error)
	SetBounds(ctx context.Context, methodID int, b *models.PriceBounds) error
}

// CatalogPage is what the catalog page hydrates from.
type CatalogPage struct {
	Method   *models.PaymentMethode
	Products []models.Produit
	Total    int
	Types    []models.ProductType
	Bounds   models.PriceBounds
}

// CartPreview is a browser cart re-priced from the catalog.
type CartPreview struct {
	Cart     cart.Cart `json:"items"`
	Total    string    `json:"total"`
	Count    int       `json:"count"`
	Currency string    `json:"currency"`
	// Removed lists product ids dropped because they are gone or have no
	// price for the selected method.
	Removed []int `json:"removed"`
	// Corrupt is set when the stored cart could not be read entirely.
	Corrupt bool `json:"corrupt"`
}

// CatalogService serves the client shopping pages. Every price it returns
// is the one of the selected payment method.
type CatalogService struct {
	products *repository.ProductRepository
	types    *repository.ProductTypeRepository
	methods  *repository.PaymentMethodRepository
	bounds   boundsCache
	images   storage.ImageStore
}

func NewCatalogService(
	products *repository.ProductRepository,
	types *repository.ProductTypeRepository,
	methods *repository.PaymentMethodRepository,
	bounds boundsCache,
	images storage.ImageStore,
) *CatalogService {
	return &CatalogService{products: products, types: types, methods: methods, bounds: bounds, images: images}
}

func (s *CatalogService) PaymentMethods(ctx context.Context) ([]models.PaymentMethode, error) {
	return s.methods.All(ctx)
}

// SelectMethod checks that methodID exists and returns the selection the
// browser should persist.
func (s *CatalogService) SelectMethod(ctx context.Context, methodID int) (*cart.PaymentSelection, error) {
	pm, err := s.methods.GetByID(ctx, methodID)
	if err != nil {
		return nil, err
	}
	return &cart.PaymentSelection{ID: pm.ID, MethodeName: pm.MethodeName}, nil
}

// Browse returns one catalog page for filter.MethodID.
func (s *CatalogService) Browse(ctx context.Context, filter repository.CatalogFilter) (*CatalogPage, error) {
	method, err := s.methods.GetByID(ctx, filter.MethodID)
	if err != nil {
		return nil, err
	}
	if filter.Limit <= 0 {
		filter.Limit = CatalogPerPage
	}

	products, total, err := s.products.Catalog(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range products {
		products[i].Image = s.images.URL(products[i].Image)
	}

	types, err := s.types.All(ctx)
	if err != nil {
		return nil, err
	}
	bounds, err := s.Bounds(ctx, filter.MethodID)
	if err != nil {
		return nil, err
	}

	return &CatalogPage{Method: method, Products: products, Total: total, Types: types, Bounds: bounds}, nil
}

// Product returns one product priced for methodID, with its contact links.
func (s *CatalogService) Product(ctx context.Context, id, methodID int) (*models.Produit, error) {
	p, err := s.products.CatalogProduct(ctx, id, methodID)
	if err != nil {
		return nil, err
	}
	if p.Contact, err = s.products.GetContact(ctx, id); err != nil {
		return nil, err
	}
	p.Image = s.images.URL(p.Image)
	return p, nil
}

// Bounds returns the price slider range of methodID, from cache when
// possible. Cache failures fall back to the database.
func (s *CatalogService) Bounds(ctx context.Context, methodID int) (models.PriceBounds, error) {
	if s.bounds != nil {
		b, err := s.bounds.Bounds(ctx, methodID)
		if err == nil {
			return *b, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			log.Warn().Err(err).Int("method_id", methodID).Msg("Price bounds cache read failed")
		}
	}

	b, err := s.products.PriceBounds(ctx, methodID)
	if err != nil {
		return models.PriceBounds{}, err
	}
	if s.bounds != nil {
		if err := s.bounds.SetBounds(ctx, methodID, &b); err != nil {
			log.Warn().Err(err).Int("method_id", methodID).Msg("Price bounds cache write failed")
		}
	}
	return b, nil
}

// CartAction is one change the shopping pages make to the stored cart.
type CartAction string

const (
	CartAdd       CartAction = "add"
	CartIncrement CartAction = "increment"
	CartDecrement CartAction = "decrement"
	CartRemove    CartAction = "remove"
	CartClear     CartAction = "clear"
)

// CartUpdate is a change to apply to a stored cart. Quantity is only read by
// CartAdd, where it defaults to one (the catalog button) and the detail page
// passes the chosen amount.
type CartUpdate struct {
	Action    CartAction
	ProductID int
	Quantity  int
}

// PreviewCart decodes a stored cart and re-prices every line for methodID.
// Client supplied labels and prices are replaced by the catalog's.
func (s *CatalogService) PreviewCart(ctx context.Context, methodID int, raw []byte) (*CartPreview, error) {
	if _, err := s.methods.GetByID(ctx, methodID); err != nil {
		return nil, err
	}
	c, ok := cart.Decode(raw)
	return s.reprice(ctx, methodID, c, !ok)
}

// UpdateCart applies u to the stored cart and returns the result re-priced
// for methodID, ready for the browser to store back.
func (s *CatalogService) UpdateCart(ctx context.Context, methodID int, raw []byte, u CartUpdate) (*CartPreview, error) {
	if u.Action != CartClear && u.ProductID <= 0 {
		return nil, utils.FieldErrors{"product_id": "validation.required"}
	}
	if _, err := s.methods.GetByID(ctx, methodID); err != nil {
		return nil, err
	}
	c, ok := cart.Decode(raw)

	switch u.Action {
	case CartAdd:
		qty := u.Quantity
		if qty <= 0 {
			qty = 1
		}
		c.Add(cart.Item{ID: u.ProductID}, qty)
	case CartIncrement:
		c.Increment(u.ProductID)
	case CartDecrement:
		c.Decrement(u.ProductID)
	case CartRemove:
		c.Remove(u.ProductID)
	case CartClear:
		c.Clear()
	default:
		return nil, utils.FieldErrors{"action": "validation.oneof"}
	}
	return s.reprice(ctx, methodID, c, !ok)
}

// reprice swaps every line's details and price for the catalog's. Lines the
// method cannot price are dropped and listed in Removed.
func (s *CatalogService) reprice(ctx context.Context, methodID int, c cart.Cart, corrupt bool) (*CartPreview, error) {
	priced, err := s.products.PricedForMethod(ctx, methodID, c.IDs())
	if err != nil {
		return nil, err
	}

	removed := []int{}
	currency := defaultCurrency
	for i := range c {
		p, found := priced[c[i].ID]
		if !found || !p.Price.Valid {
			removed = append(removed, c[i].ID)
			continue
		}
		c[i].Label = p.Label
		c[i].Image = s.images.URL(p.Image)
		c[i].Unit = p.Unit
		c[i].Currency = p.Currency
		c.Reprice(p.ID, p.Price.Decimal)
		currency = p.Currency
	}
	for _, id := range removed {
		c.Remove(id)
	}

	return &CartPreview{
		Cart:     c,
		Total:    c.Total().StringFixed(utils.MoneyPlaces),
		Count:    c.Count(),
		Currency: currency,
		Removed:  removed,
		Corrupt:  corrupt,
	}, nil
}
