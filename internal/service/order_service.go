package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/amazighishop/shop_api/internal/cart"
	"github.com/amazighishop/shop_api/internal/database"
	"github.com/amazighishop/shop_api/internal/models"
	"github.com/amazighishop/shop_api/internal/repository"
	"github.com/amazighishop/shop_api/internal/sse"
	"github.com/amazighishop/shop_api/internal/storage"
	"github.com/amazighishop/shop_api/internal/utils"
)

// PlaceOrderInput is the checkout submission. Only product ids and
// quantities are taken from the cart; prices come from the catalog.
type PlaceOrderInput struct {
	MethodID        int
	Cart            []byte
	ClientFacebook  string
	ClientInstagram string
	NotesClient     string
}

// UnavailableError lists cart products that cannot be ordered with the
// selected payment method.
type UnavailableError struct {
	ProductIDs []int
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s: %v", utils.ErrPriceUnavailable, e.ProductIDs)
}

func (e *UnavailableError) Unwrap() error {
	return utils.ErrPriceUnavailable
}

// OrderService places client orders and serves the client order history.
type OrderService struct {
	db       *sqlx.DB
	orders   *repository.OrderRepository
	products *repository.ProductRepository
	methods  *repository.PaymentMethodRepository
	images   storage.ImageStore
	notifier sse.OrderNotifier
}

func NewOrderService(
	db *sqlx.DB,
	orders *repository.OrderRepository,
	products *repository.ProductRepository,
	methods *repository.PaymentMethodRepository,
	images storage.ImageStore,
	notifier sse.OrderNotifier,
) *OrderService {
	if notifier == nil {
		notifier = sse.NopNotifier{}
	}
	return &OrderService{db: db, orders: orders, products: products, methods: methods, images: images, notifier: notifier}
}

// Place turns the stored cart into a pending order in one transaction. Each
// line snapshots the product as it is now and is priced at the current
// price of the selected method.
func (s *OrderService) Place(ctx context.Context, userID int, in PlaceOrderInput) (*models.Commande, error) {
	c, ok, err := cart.DecodeForOrder(in.Cart)
	if errors.Is(err, cart.ErrQuantityLimit) {
		return nil, utils.FieldErrors{"cart": "cart.quantity_limit"}
	}
	if !ok {
		log.Warn().Int("user_id", userID).Msg("Corrupt cart lines dropped at checkout")
	}
	if len(c) == 0 {
		return nil, utils.ErrEmptyCart
	}

	method, err := s.methods.GetByID(ctx, in.MethodID)
	if err != nil {
		return nil, err
	}
	methodID := method.ID

	order := &models.Commande{
		UserID:            userID,
		Statut:            models.OrderPending,
		PaymentMethodeID:  &methodID,
		PaymentMethodName: method.MethodeName,
		ClientFacebook:    strings.TrimSpace(in.ClientFacebook),
		ClientInstagram:   strings.TrimSpace(in.ClientInstagram),
		NotesClient:       strings.TrimSpace(in.NotesClient),
	}

	err = database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		priced, err := s.products.PricedForMethodTx(ctx, tx, methodID, c.IDs())
		if err != nil {
			return err
		}

		var missing []int
		order.Lines = order.Lines[:0]
		for _, it := range c {
			p, found := priced[it.ID]
			if !found || !p.Price.Valid {
				missing = append(missing, it.ID)
				continue
			}
			order.Lines = append(order.Lines, models.NewOrderLine(&p, p.Price.Decimal, it.Quantity))
		}
		if len(missing) > 0 {
			sort.Ints(missing)
			return &UnavailableError{ProductIDs: missing}
		}

		order.RecomputeTotal()
		if order.TotalAmount.GreaterThan(models.MaxAmount) {
			return utils.FieldErrors{"cart": "cart.total_limit"}
		}
		return s.orders.Create(ctx, tx, order)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("order_id", order.ID).
		Int("user_id", userID).
		Str("payment_method", order.PaymentMethodName).
		Str("total", order.TotalAmount.StringFixed(utils.MoneyPlaces)).
		Int("lines", len(order.Lines)).
		Msg("Order placed")

	s.notifier.NotifyOrderPlaced(order)
	s.presentLines(order.Lines)
	return order, nil
}

// History returns a page of the user's own orders.
func (s *OrderService) History(ctx context.Context, userID, page, limit int) ([]models.Commande, int, error) {
	return s.orders.List(ctx, repository.OrderFilter{UserID: &userID, Page: page, Limit: limit})
}

// Get returns one of the user's own orders with its lines. Orders of other
// users are reported as not found.
func (s *OrderService) Get(ctx context.Context, userID, orderID int) (*models.Commande, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, utils.ErrNotFound
	}
	if order.Lines, err = s.orders.GetLines(ctx, orderID); err != nil {
		return nil, err
	}
	s.presentLines(order.Lines)
	return order, nil
}

// presentLines turns stored image paths into public URLs.
func (s *OrderService) presentLines(lines []models.CommandeProduit) {
	for i := range lines {
		lines[i].Image = s.images.URL(lines[i].Image)
	}
}
