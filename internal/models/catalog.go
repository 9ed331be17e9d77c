package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/amazighishop/shop_api/internal/utils"
)

// ProductType groups products in the catalog (e.g. game credits, subscriptions).
type ProductType struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	ProductsCount int `db:"products_count" json:"products_count"`
	OrderedCount  int `db:"ordered_count" json:"ordered_count"`
}

// PaymentMethode is a payment channel with its own price per product.
type PaymentMethode struct {
	ID          int       `db:"id" json:"id"`
	MethodeName string    `db:"methode_name" json:"methode_name"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	PricesCount int `db:"prices_count" json:"prices_count"`
	OrdersCount int `db:"orders_count" json:"orders_count"`
}

// Produit is a sellable item. Prices are held per payment method.
type Produit struct {
	ID            int       `db:"id" json:"id"`
	Label         string    `db:"label" json:"label"`
	Description   string    `db:"description" json:"description"`
	Image         string    `db:"image" json:"image"`
	Quantity      int       `db:"quantity" json:"quantity"`
	Unit          string    `db:"unit" json:"unit"`
	Currency      string    `db:"currency" json:"currency"`
	TypeProduitID *int      `db:"type_produit_id" json:"type_produit_id"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`

	TypeName *string             `db:"type_name" json:"type_name,omitempty"`
	Price    decimal.NullDecimal `db:"price" json:"price"`

	Prices  []ProduitPrice      `db:"-" json:"prices,omitempty"`
	Contact *ContactSocialMedia `db:"-" json:"contact,omitempty"`
}

// MarshalJSON renders the method price with three decimals, or null when
// the product has none for the method.
func (p Produit) MarshalJSON() ([]byte, error) {
	type plain Produit
	out := struct {
		plain
		Price        *string `json:"price"`
		PriceDisplay *string `json:"price_display"`
	}{plain: plain(p)}
	if p.Price.Valid {
		amount := utils.FormatMoney(p.Price.Decimal, "")
		display := utils.FormatMoney(p.Price.Decimal, p.Currency)
		out.Price, out.PriceDisplay = &amount, &display
	}
	return json.Marshal(out)
}

// ProduitPrice is the price of one product for one payment method.
type ProduitPrice struct {
	ID             int             `db:"id" json:"id"`
	ProduitID      int             `db:"produit_id" json:"produit_id"`
	PriceMethodeID int             `db:"price_methode_id" json:"price_methode_id"`
	Price          decimal.Decimal `db:"price" json:"price"`
	MethodeName    string          `db:"methode_name" json:"methode_name,omitempty"`
}

func (p ProduitPrice) MarshalJSON() ([]byte, error) {
	type plain ProduitPrice
	return json.Marshal(struct {
		plain
		Price string `json:"price"`
	}{plain(p), utils.FormatMoney(p.Price, "")})
}

// ContactSocialMedia holds the optional social links attached to a product.
type ContactSocialMedia struct {
	ID        int    `db:"id" json:"id"`
	ProduitID int    `db:"produit_id" json:"produit_id"`
	Instagram string `db:"instagram" json:"instagram"`
	Facebook  string `db:"facebook" json:"facebook"`
	Whatsapp  string `db:"whatsapp" json:"whatsapp"`
	Tiktok    string `db:"tiktok" json:"tiktok"`
}

// Empty reports whether no link is set.
func (c *ContactSocialMedia) Empty() bool {
	return c.Instagram == "" && c.Facebook == "" && c.Whatsapp == "" && c.Tiktok == ""
}

// PriceBounds are the cheapest and dearest prices of a payment method.
type PriceBounds struct {
	Min decimal.Decimal `db:"min_price" json:"min"`
	Max decimal.Decimal `db:"max_price" json:"max"`
}

func (b PriceBounds) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Min string `json:"min"`
		Max string `json:"max"`
	}{utils.FormatMoney(b.Min, ""), utils.FormatMoney(b.Max, "")})
}
