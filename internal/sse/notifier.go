package sse

import (
	"time"

	"github.com/amazighishop/shop_api/internal/models"
	"github.com/amazighishop/shop_api/internal/utils"
)

// OrderNotifier is the interface services use to emit order events.
type OrderNotifier interface {
	NotifyOrderPlaced(order *models.Commande)
	NotifyOrderStatusChanged(order *models.Commande)
}

// HubNotifier implements OrderNotifier using the SSE Hub.
type HubNotifier struct {
	hub *Hub
}

func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyOrderPlaced(order *models.Commande) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(orderToEvent(EventOrderPlaced, order))
}

func (n *HubNotifier) NotifyOrderStatusChanged(order *models.Commande) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(orderToEvent(EventOrderStatusChanged, order))
}

func orderToEvent(eventType EventType, order *models.Commande) *OrderEvent {
	return &OrderEvent{
		Event:         eventType,
		OrderID:       order.ID,
		UserID:        order.UserID,
		ClientName:    order.UserName,
		Status:        string(order.Statut),
		PaymentMethod: order.PaymentMethodName,
		TotalAmount:   utils.FormatMoney(order.TotalAmount, ""),
		Lines:         len(order.Lines),
		Timestamp:     time.Now(),
	}
}

// NopNotifier discards events.
type NopNotifier struct{}

func (NopNotifier) NotifyOrderPlaced(*models.Commande)        {}
func (NopNotifier) NotifyOrderStatusChanged(*models.Commande) {}
