package service

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/amazighishop/shop_api/internal/database"
	"github.com/amazighishop/shop_api/internal/models"
	"github.com/amazighishop/shop_api/internal/repository"
	"github.com/amazighishop/shop_api/internal/utils"
)

// catalogInvalidator drops derived catalog data after an edit.
type catalogInvalidator interface {
	Invalidate(ctx context.Context) error
}

func invalidateCatalog(ctx context.Context, c catalogInvalidator) {
	if c == nil {
		return
	}
	if err := c.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate catalog cache")
	}
}

// ProductTypeService manages product types. A type whose products were
// ordered cannot be deleted; otherwise its products are detached first.
type ProductTypeService struct {
	db    *sqlx.DB
	repo  *repository.ProductTypeRepository
	cache catalogInvalidator
}

func NewProductTypeService(db *sqlx.DB, repo *repository.ProductTypeRepository, cache catalogInvalidator) *ProductTypeService {
	return &ProductTypeService{db: db, repo: repo, cache: cache}
}

func (s *ProductTypeService) List(ctx context.Context, search string, page, limit int) ([]models.ProductType, int, error) {
	return s.repo.List(ctx, search, page, limit)
}

func (s *ProductTypeService) All(ctx context.Context) ([]models.ProductType, error) {
	return s.repo.All(ctx)
}

func (s *ProductTypeService) Get(ctx context.Context, id int) (*models.ProductType, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ProductTypeService) Create(ctx context.Context, name string) (*models.ProductType, error) {
	pt := &models.ProductType{Name: strings.TrimSpace(name)}
	if err := s.repo.Create(ctx, pt); err != nil {
		return nil, uniqueName(err, repository.ProductTypeUniqueName, "name")
	}
	log.Info().Int("type_id", pt.ID).Str("name", pt.Name).Msg("Product type created")
	return pt, nil
}

func (s *ProductTypeService) Update(ctx context.Context, id int, name string) (*models.ProductType, error) {
	pt := &models.ProductType{ID: id, Name: strings.TrimSpace(name)}
	if err := s.repo.Update(ctx, pt); err != nil {
		return nil, uniqueName(err, repository.ProductTypeUniqueName, "name")
	}
	invalidateCatalog(ctx, s.cache)
	return pt, nil
}

// Delete removes the type. It returns a *utils.InUseError wrapping
// utils.ErrProductTypeInUse when any of its products appear on an order.
func (s *ProductTypeService) Delete(ctx context.Context, id int) error {
	pt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if pt.OrderedCount > 0 {
		return &utils.InUseError{Err: utils.ErrProductTypeInUse, Orders: pt.OrderedCount}
	}

	var detached int64
	err = database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var err error
		if detached, err = s.repo.DetachProducts(ctx, tx, id); err != nil {
			return err
		}
		return s.repo.Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	invalidateCatalog(ctx, s.cache)
	log.Info().Int("type_id", id).Int64("detached_products", detached).Msg("Product type deleted")
	return nil
}

// PaymentMethodService manages payment methods. Methods still referenced by
// a price or an order cannot be deleted.
type PaymentMethodService struct {
	repo  *repository.PaymentMethodRepository
	cache catalogInvalidator
}

func NewPaymentMethodService(repo *repository.PaymentMethodRepository, cache catalogInvalidator) *PaymentMethodService {
	return &PaymentMethodService{repo: repo, cache: cache}
}

func (s *PaymentMethodService) List(ctx context.Context, search string, page, limit int) ([]models.PaymentMethode, int, error) {
	return s.repo.List(ctx, search, page, limit)
}

func (s *PaymentMethodService) All(ctx context.Context) ([]models.PaymentMethode, error) {
	return s.repo.All(ctx)
}

func (s *PaymentMethodService) Get(ctx context.Context, id int) (*models.PaymentMethode, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PaymentMethodService) Create(ctx context.Context, name string) (*models.PaymentMethode, error) {
	pm := &models.PaymentMethode{MethodeName: strings.TrimSpace(name)}
	if err := s.repo.Create(ctx, pm); err != nil {
		return nil, uniqueName(err, repository.PaymentMethodUniqueName, "methode_name")
	}
	log.Info().Int("method_id", pm.ID).Str("name", pm.MethodeName).Msg("Payment method created")
	return pm, nil
}

func (s *PaymentMethodService) Update(ctx context.Context, id int, name string) (*models.PaymentMethode, error) {
	pm := &models.PaymentMethode{ID: id, MethodeName: strings.TrimSpace(name)}
	if err := s.repo.Update(ctx, pm); err != nil {
		return nil, uniqueName(err, repository.PaymentMethodUniqueName, "methode_name")
	}
	return pm, nil
}

// Delete removes the method, or returns a *utils.InUseError wrapping
// utils.ErrPaymentMethodInUse with the dependent counts.
func (s *PaymentMethodService) Delete(ctx context.Context, id int) error {
	pm, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if pm.PricesCount > 0 || pm.OrdersCount > 0 {
		return &utils.InUseError{Err: utils.ErrPaymentMethodInUse, Prices: pm.PricesCount, Orders: pm.OrdersCount}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		// A price or order added since the count above.
		if repository.IsForeignKeyViolation(err, "") {
			fresh, gerr := s.repo.GetByID(ctx, id)
			if gerr != nil {
				return gerr
			}
			return &utils.InUseError{Err: utils.ErrPaymentMethodInUse, Prices: fresh.PricesCount, Orders: fresh.OrdersCount}
		}
		return err
	}

	invalidateCatalog(ctx, s.cache)
	log.Info().Int("method_id", id).Msg("Payment method deleted")
	return nil
}

// uniqueName turns a name uniqueness failure into a field error.
func uniqueName(err error, constraint, field string) error {
	if repository.IsUniqueViolation(err, constraint) {
		return utils.FieldErrors{field: "validation.unique"}
	}
	return err
}
