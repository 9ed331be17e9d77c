package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/amazighishop/shop_api/internal/utils"
)

// MaxAmount is the largest amount a NUMERIC(12,3) column holds.
var MaxAmount = decimal.RequireFromString("999999999.999")

type OrderStatus string

const (
	OrderPending   OrderStatus = "en_attente"
	OrderConfirmed OrderStatus = "confirme"
	OrderCancelled OrderStatus = "annuler"
)

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s OrderStatus) Terminal() bool {
	return s == OrderConfirmed || s == OrderCancelled
}

// Commande is a placed order. Its lines are snapshots taken when the order
// was created and are never joined back to the live catalog.
type Commande struct {
	ID                int             `db:"id" json:"id"`
	UserID            int             `db:"user_id" json:"user_id"`
	Statut            OrderStatus     `db:"statut" json:"statut"`
	DateCommande      time.Time       `db:"date_commande" json:"date_commande"`
	DateConfirmation  *time.Time      `db:"date_confirmation" json:"date_confirmation"`
	TotalAmount       decimal.Decimal `db:"total_amount" json:"total_amount"`
	PaymentMethodeID  *int            `db:"payment_methode_id" json:"payment_methode_id"`
	PaymentMethodName string          `db:"payment_method_name" json:"payment_method_name"`
	ClientFacebook    string          `db:"client_facebook" json:"client_facebook"`
	ClientInstagram   string          `db:"client_instagram" json:"client_instagram"`
	NotesClient       string          `db:"notes_client" json:"notes_client"`
	NotesAdmin        string          `db:"notes_admin" json:"notes_admin"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updated_at"`

	UserName  string `db:"user_name" json:"user_name,omitempty"`
	UserEmail string `db:"user_email" json:"user_email,omitempty"`
	UserPhone string `db:"user_phone" json:"user_phone,omitempty"`

	Lines []CommandeProduit `db:"-" json:"produits,omitempty"`
}

// Currency is the currency of the order lines, all of which share one.
func (c *Commande) Currency() string {
	if len(c.Lines) > 0 {
		return c.Lines[0].Currency
	}
	return ""
}

func (c Commande) MarshalJSON() ([]byte, error) {
	type plain Commande
	return json.Marshal(struct {
		plain
		TotalAmount  string `json:"total_amount"`
		TotalDisplay string `json:"total_display"`
	}{
		plain:        plain(c),
		TotalAmount:  utils.FormatMoney(c.TotalAmount, ""),
		TotalDisplay: utils.FormatMoney(c.TotalAmount, c.Currency()),
	})
}

// CommandeProduit is one line of an order.
type CommandeProduit struct {
	ID                int             `db:"id" json:"id"`
	CommandeID        int             `db:"commande_id" json:"commande_id"`
	ProduitID         *int            `db:"produit_id" json:"produit_id"`
	Label             string          `db:"label" json:"label"`
	Image             string          `db:"image" json:"image"`
	Quantity          int             `db:"quantity" json:"quantity"`
	Unit              string          `db:"unit" json:"unit"`
	Currency          string          `db:"currency" json:"currency"`
	QuantiteCommandee int             `db:"quantite_commandee" json:"quantite_commandee"`
	PrixUnitaire      decimal.Decimal `db:"prix_unitaire" json:"prix_unitaire"`
	SousTotal         decimal.Decimal `db:"sous_total" json:"sous_total"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
}

func (l CommandeProduit) MarshalJSON() ([]byte, error) {
	type plain CommandeProduit
	return json.Marshal(struct {
		plain
		PrixUnitaire        string `json:"prix_unitaire"`
		SousTotal           string `json:"sous_total"`
		PrixUnitaireDisplay string `json:"prix_unitaire_display"`
		SousTotalDisplay    string `json:"sous_total_display"`
	}{
		plain:               plain(l),
		PrixUnitaire:        utils.FormatMoney(l.PrixUnitaire, ""),
		SousTotal:           utils.FormatMoney(l.SousTotal, ""),
		PrixUnitaireDisplay: utils.FormatMoney(l.PrixUnitaire, l.Currency),
		SousTotalDisplay:    utils.FormatMoney(l.SousTotal, l.Currency),
	})
}

// NewOrderLine snapshots p at the given unit price and ordered quantity.
func NewOrderLine(p *Produit, unitPrice decimal.Decimal, qty int) CommandeProduit {
	id := p.ID
	return CommandeProduit{
		ProduitID:         &id,
		Label:             p.Label,
		Image:             p.Image,
		Quantity:          p.Quantity,
		Unit:              p.Unit,
		Currency:          p.Currency,
		QuantiteCommandee: qty,
		PrixUnitaire:      unitPrice,
		SousTotal:         unitPrice.Mul(decimal.NewFromInt(int64(qty))),
	}
}

// RecomputeTotal sets TotalAmount to the sum of the line subtotals.
func (c *Commande) RecomputeTotal() {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.SousTotal)
	}
	c.TotalAmount = total
}

// DailyOrders is one point of the dashboard trend.
type DailyOrders struct {
	Day     time.Time       `db:"day" json:"day"`
	Orders  int             `db:"orders" json:"orders"`
	Revenue decimal.Decimal `db:"revenue" json:"revenue"`
}

func (d DailyOrders) MarshalJSON() ([]byte, error) {
	type plain DailyOrders
	return json.Marshal(struct {
		plain
		Revenue string `json:"revenue"`
	}{plain(d), utils.FormatMoney(d.Revenue, "")})
}

// OrderStats aggregates order counts for the dashboard.
type OrderStats struct {
	Total       int             `db:"total" json:"total"`
	Pending     int             `db:"pending" json:"pending"`
	Confirmed   int             `db:"confirmed" json:"confirmed"`
	Cancelled   int             `db:"cancelled" json:"cancelled"`
	Revenue     decimal.Decimal `db:"revenue" json:"revenue"`
	Products    int             `db:"products" json:"products"`
	Clients     int             `db:"clients" json:"clients"`
	TodayOrders int             `db:"today_orders" json:"today_orders"`
}

func (s OrderStats) MarshalJSON() ([]byte, error) {
	type plain OrderStats
	return json.Marshal(struct {
		plain
		Revenue string `json:"revenue"`
	}{plain(s), utils.FormatMoney(s.Revenue, "")})
}
