package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/amazighishop/shop_api/internal/models"
	"github.com/amazighishop/shop_api/internal/repository"
	"github.com/amazighishop/shop_api/internal/sse"
	"github.com/amazighishop/shop_api/internal/storage"
)

const dashboardTrendDays = 30

// Dashboard is the back-office landing payload.
type Dashboard struct {
	Stats        models.OrderStats    `json:"stats"`
	Trend        []models.DailyOrders `json:"trend"`
	RecentOrders []models.Commande    `json:"recent_orders"`
}

// AdminOrderService drives the order back-office. Confirm and cancel are
// one way transitions out of the pending state.
type AdminOrderService struct {
	orders   *repository.OrderRepository
	products *repository.ProductRepository
	users    *repository.UserRepository
	images   storage.ImageStore
	notifier sse.OrderNotifier
}

func NewAdminOrderService(
	orders *repository.OrderRepository,
	products *repository.ProductRepository,
	users *repository.UserRepository,
	images storage.ImageStore,
	notifier sse.OrderNotifier,
) *AdminOrderService {
	if notifier == nil {
		notifier = sse.NopNotifier{}
	}
	return &AdminOrderService{orders: orders, products: products, users: users, images: images, notifier: notifier}
}

func (s *AdminOrderService) List(ctx context.Context, filter repository.OrderFilter) ([]models.Commande, int, error) {
	return s.orders.List(ctx, filter)
}

func (s *AdminOrderService) Get(ctx context.Context, id int) (*models.Commande, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Lines, err = s.orders.GetLines(ctx, id); err != nil {
		return nil, err
	}
	for i := range order.Lines {
		order.Lines[i].Image = s.images.URL(order.Lines[i].Image)
	}
	return order, nil
}

// Confirm moves a pending order to confirme and stamps date_confirmation.
// A confirmed or cancelled order yields utils.ErrOrderFinalized.
func (s *AdminOrderService) Confirm(ctx context.Context, actorID, id int) (*models.Commande, error) {
	return s.transition(ctx, actorID, id, models.OrderConfirmed)
}

// Cancel moves a pending order to annuler.
func (s *AdminOrderService) Cancel(ctx context.Context, actorID, id int) (*models.Commande, error) {
	return s.transition(ctx, actorID, id, models.OrderCancelled)
}

func (s *AdminOrderService) transition(ctx context.Context, actorID, id int, to models.OrderStatus) (*models.Commande, error) {
	if err := s.orders.Transition(ctx, id, to); err != nil {
		log.Warn().Err(err).Int("order_id", id).Str("to", string(to)).Msg("Order transition refused")
		return nil, err
	}

	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	log.Info().Int("order_id", id).Int("by", actorID).Str("status", string(to)).Msg("Order status changed")
	s.notifier.NotifyOrderStatusChanged(order)
	return order, nil
}

// UpdateNotes replaces the admin notes. The client notes are never touched.
func (s *AdminOrderService) UpdateNotes(ctx context.Context, id int, notes string) error {
	return s.orders.UpdateNotes(ctx, id, strings.TrimSpace(notes))
}

// Dashboard aggregates order counts, catalog size and the recent trend.
func (s *AdminOrderService) Dashboard(ctx context.Context) (*Dashboard, error) {
	stats, err := s.orders.Stats(ctx)
	if err != nil {
		return nil, err
	}
	if stats.Products, err = s.products.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Clients, err = s.users.CountClients(ctx); err != nil {
		return nil, err
	}

	trend, err := s.orders.DailyTrend(ctx, dashboardTrendDays)
	if err != nil {
		return nil, err
	}
	recent, _, err := s.orders.List(ctx, repository.OrderFilter{Page: 1, Limit: 5})
	if err != nil {
		return nil, err
	}

	return &Dashboard{Stats: stats, Trend: trend, RecentOrders: recent}, nil
}
