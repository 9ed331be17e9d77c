package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/amazighishop/shop_api/internal/middleware"
	"github.com/amazighishop/shop_api/internal/models"
	"github.com/amazighishop/shop_api/internal/repository"
	"github.com/amazighishop/shop_api/internal/service"
	"github.com/amazighishop/shop_api/internal/utils"
)

const dateLayout = "2006-01-02"

// AdminOrderHandler serves the order back-office and the dashboard.
type AdminOrderHandler struct {
	orders *service.AdminOrderService
}

func NewAdminOrderHandler(orders *service.AdminOrderService) *AdminOrderHandler {
	return &AdminOrderHandler{orders: orders}
}

type notesRequest struct {
	NotesAdmin string `json:"notes_admin" binding:"max=2000"`
}

// List handles GET /admin/orders
func (h *AdminOrderHandler) List(c *gin.Context) {
	page, limit := pageParams(c, defaultPerPage)
	filter := repository.OrderFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Page:   page,
		Limit:  limit,
	}
	if s := models.OrderStatus(c.Query("statut")); s.Valid() {
		filter.Statut = string(s)
	}
	if t, err := time.Parse(dateLayout, c.Query("date_from")); err == nil {
		filter.DateFrom = &t
	}
	if t, err := time.Parse(dateLayout, c.Query("date_to")); err == nil {
		filter.DateTo = &t
	}

	orders, total, err := h.orders.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	statuses := make([]gin.H, 0, 3)
	for _, s := range []models.OrderStatus{models.OrderPending, models.OrderConfirmed, models.OrderCancelled} {
		statuses = append(statuses, gin.H{"value": s, "label": statusLabel(c, s)})
	}
	utils.Success(c, http.StatusOK, tr(c, "common.retrieved"), gin.H{
		"orders": paginate(c, orders, total, page, limit),
		"filters": gin.H{
			"search":    filter.Search,
			"statut":    filter.Statut,
			"date_from": c.Query("date_from"),
			"date_to":   c.Query("date_to"),
		},
		"statuses": statuses,
	})
}

// Show handles GET /admin/orders/:id
func (h *AdminOrderHandler) Show(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	order, err := h.orders.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, tr(c, "common.retrieved"), gin.H{
		"order":        order,
		"status_label": statusLabel(c, order.Statut),
		"can_change":   !order.Statut.Terminal(),
	})
}

// Confirm handles POST /admin/orders/:id/confirm
func (h *AdminOrderHandler) Confirm(c *gin.Context) {
	h.transition(c, h.orders.Confirm, "order.confirmed")
}

// Cancel handles POST /admin/orders/:id/cancel
func (h *AdminOrderHandler) Cancel(c *gin.Context) {
	h.transition(c, h.orders.Cancel, "order.cancelled")
}

type transitionFunc func(ctx context.Context, actorID, id int) (*models.Commande, error)

func (h *AdminOrderHandler) transition(c *gin.Context, apply transitionFunc, messageKey string) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	order, err := apply(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		if errors.Is(err, utils.ErrOrderFinalized) {
			h.respondFinalized(c, id)
			return
		}
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, tr(c, messageKey), gin.H{
		"order":        order,
		"status_label": statusLabel(c, order.Statut),
	})
}

// respondFinalized explains which terminal state blocks the change.
func (h *AdminOrderHandler) respondFinalized(c *gin.Context, id int) {
	order, err := h.orders.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.ErrorWith(c, http.StatusConflict, &utils.ErrorInfo{
		Code:    "ORDER_FINALIZED",
		Message: trf(c, "order.finalized", strings.ToLower(statusLabel(c, order.Statut))),
		Extra:   gin.H{"statut": order.Statut},
	})
}

// Notes handles PUT /admin/orders/:id/notes
func (h *AdminOrderHandler) Notes(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req notesRequest
	if !bind(c, &req) {
		return
	}
	if err := h.orders.UpdateNotes(c.Request.Context(), id, req.NotesAdmin); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, tr(c, "order.notes_saved"), gin.H{"id": id})
}

// Dashboard handles GET /admin/dashboard
func (h *AdminOrderHandler) Dashboard(c *gin.Context) {
	d, err := h.orders.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, tr(c, "common.retrieved"), d)
}
