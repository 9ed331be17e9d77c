package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/amazighishop/shop_api/internal/database"
	"github.com/amazighishop/shop_api/internal/models"
	"github.com/amazighishop/shop_api/internal/repository"
	"github.com/amazighishop/shop_api/internal/storage"
	"github.com/amazighishop/shop_api/internal/utils"
)

const (
	productImageDir = "produits"
	defaultCurrency = "TND"
)

type PriceInput struct {
	PriceMethodeID int
	Price          decimal.Decimal
}

type ContactInput struct {
	Instagram string
	Facebook  string
	Whatsapp  string
	Tiktok    string
}

// ProductInput is the back-office product form with its nested prices and
// optional social contact.
type ProductInput struct {
	Label         string
	Description   string
	Quantity      int
	Unit          string
	Currency      string
	TypeProduitID *int
	Prices        []PriceInput
	Contact       *ContactInput
}

type ProductService struct {
	db      *sqlx.DB
	repo    *repository.ProductRepository
	types   *repository.ProductTypeRepository
	methods *repository.PaymentMethodRepository
	images  storage.ImageStore
	cache   catalogInvalidator
}

func NewProductService(
	db *sqlx.DB,
	repo *repository.ProductRepository,
	types *repository.ProductTypeRepository,
	methods *repository.PaymentMethodRepository,
	images storage.ImageStore,
	cache catalogInvalidator,
) *ProductService {
	return &ProductService{db: db, repo: repo, types: types, methods: methods, images: images, cache: cache}
}

func (s *ProductService) List(ctx context.Context, filter repository.ProductFilter) ([]models.Produit, int, error) {
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	for i := range products {
		products[i].Image = s.images.URL(products[i].Image)
	}
	return products, total, nil
}

// Get returns the product with its prices and contact.
func (s *ProductService) Get(ctx context.Context, id int) (*models.Produit, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Prices, err = s.repo.GetPrices(ctx, id); err != nil {
		return nil, err
	}
	if p.Contact, err = s.repo.GetContact(ctx, id); err != nil {
		return nil, err
	}
	p.Image = s.images.URL(p.Image)
	return p, nil
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Produit, error) {
	p := &models.Produit{}
	prices, err := s.apply(ctx, p, in)
	if err != nil {
		return nil, err
	}

	err = database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := s.repo.Create(ctx, tx, p); err != nil {
			return fmt.Errorf("insert product: %w", err)
		}
		return s.saveChildren(ctx, tx, p.ID, prices, in.Contact)
	})
	if err != nil {
		return nil, err
	}

	invalidateCatalog(ctx, s.cache)
	log.Info().Int("product_id", p.ID).Str("label", p.Label).Int("prices", len(prices)).Msg("Product created")
	return s.Get(ctx, p.ID)
}

func (s *ProductService) Update(ctx context.Context, id int, in ProductInput) (*models.Produit, error) {
	p := &models.Produit{ID: id}
	prices, err := s.apply(ctx, p, in)
	if err != nil {
		return nil, err
	}

	err = database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := s.repo.Update(ctx, tx, p); err != nil {
			return err
		}
		return s.saveChildren(ctx, tx, id, prices, in.Contact)
	})
	if err != nil {
		return nil, err
	}

	invalidateCatalog(ctx, s.cache)
	log.Info().Int("product_id", id).Msg("Product updated")
	return s.Get(ctx, id)
}

func (s *ProductService) saveChildren(ctx context.Context, tx *sqlx.Tx, productID int, prices []models.ProduitPrice, contact *ContactInput) error {
	if err := s.repo.ReplacePrices(ctx, tx, productID, prices); err != nil {
		if repository.IsUniqueViolation(err, "") {
			return utils.FieldErrors{"prices": "product.duplicate_price"}
		}
		if repository.IsForeignKeyViolation(err, "") {
			return utils.FieldErrors{"prices": "product.unknown_method"}
		}
		return err
	}

	var c *models.ContactSocialMedia
	if contact != nil {
		c = &models.ContactSocialMedia{
			Instagram: strings.TrimSpace(contact.Instagram),
			Facebook:  strings.TrimSpace(contact.Facebook),
			Whatsapp:  strings.TrimSpace(contact.Whatsapp),
			Tiktok:    strings.TrimSpace(contact.Tiktok),
		}
	}
	return s.repo.SaveContact(ctx, tx, productID, c)
}

// apply validates in against the current types and methods and copies it
// onto p, returning the price rows to store.
func (s *ProductService) apply(ctx context.Context, p *models.Produit, in ProductInput) ([]models.ProduitPrice, error) {
	fe := utils.FieldErrors{}

	if in.TypeProduitID != nil {
		ok, err := s.types.Exists(ctx, *in.TypeProduitID)
		if err != nil {
			return nil, err
		}
		if !ok {
			fe.Add("type_produit_id", "product.unknown_type")
		}
	}

	methods, err := s.methods.All(ctx)
	if err != nil {
		return nil, err
	}
	known := make(map[int]bool, len(methods))
	for _, m := range methods {
		known[m.ID] = true
	}

	seen := map[int]bool{}
	prices := make([]models.ProduitPrice, 0, len(in.Prices))
	for i, pr := range in.Prices {
		field := fmt.Sprintf("prices.%d.price_methode_id", i)
		switch {
		case !known[pr.PriceMethodeID]:
			fe.Add(field, "product.unknown_method")
		case seen[pr.PriceMethodeID]:
			fe.Add(field, "product.duplicate_price")
		}
		if pr.Price.IsNegative() {
			fe.Add(fmt.Sprintf("prices.%d.price", i), "product.negative_price")
		}
		seen[pr.PriceMethodeID] = true
		prices = append(prices, models.ProduitPrice{
			PriceMethodeID: pr.PriceMethodeID,
			Price:          pr.Price.Round(utils.MoneyPlaces),
		})
	}
	if err := fe.OrNil(); err != nil {
		return nil, err
	}

	p.Label = strings.TrimSpace(in.Label)
	p.Description = strings.TrimSpace(in.Description)
	p.Quantity = in.Quantity
	p.Unit = strings.TrimSpace(in.Unit)
	p.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	if p.Currency == "" {
		p.Currency = defaultCurrency
	}
	p.TypeProduitID = in.TypeProduitID
	return prices, nil
}

// SetImage stores data as the product image and removes the previous file.
func (s *ProductService) SetImage(ctx context.Context, id int, data []byte) (string, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return "", err
	}
	rel, err := s.images.Save(ctx, productImageDir, data)
	if err != nil {
		return "", err
	}

	previous, err := s.repo.SetImage(ctx, id, rel)
	if err != nil {
		if derr := s.images.Delete(ctx, rel); derr != nil {
			log.Warn().Err(derr).Str("path", rel).Msg("Failed to remove orphan image")
		}
		return "", err
	}
	s.removeImage(ctx, previous)

	log.Info().Int("product_id", id).Str("path", rel).Msg("Product image stored")
	return s.images.URL(rel), nil
}

// Delete removes the product and its image. Order lines keep their snapshot.
func (s *ProductService) Delete(ctx context.Context, id int) error {
	image, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.removeImage(ctx, image)
	invalidateCatalog(ctx, s.cache)
	log.Info().Int("product_id", id).Msg("Product deleted")
	return nil
}

// removeImage deletes a stored image unless an order line still shows it.
func (s *ProductService) removeImage(ctx context.Context, rel string) {
	if rel == "" {
		return
	}
	if used, err := s.repo.ImageInUse(ctx, rel); err != nil || used {
		return
	}
	if err := s.images.Delete(ctx, rel); err != nil {
		log.Warn().Err(err).Str("path", rel).Msg("Failed to delete image")
	}
}
