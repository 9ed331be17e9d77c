// Package cart models the state a shopper's browser keeps between pages:
// the cart itself, the chosen payment method, the theme and the language.
// Everything read from the browser goes through the decoders here, which
// drop what they cannot trust instead of failing.
package cart

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/amazighishop/shop_api/internal/utils"
)

// MaxLineQuantity is the most units a single cart line may hold.
const MaxLineQuantity = 999

// ErrQuantityLimit is returned by DecodeForOrder when a line asks for more
// than MaxLineQuantity units.
var ErrQuantityLimit = errors.New("QUANTITY_LIMIT")

// Item is one cart line as stored under the `cart` key.
type Item struct {
	ID       int             `json:"id"`
	Label    string          `json:"label"`
	Image    string          `json:"image"`
	Quantity int             `json:"quantity"`
	Unit     string          `json:"unit"`
	Currency string          `json:"currency"`
	Price    decimal.Decimal `json:"price"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// MarshalJSON writes amounts with three decimals. Decoding reads them back
// as plain decimals.
func (it Item) MarshalJSON() ([]byte, error) {
	type plain Item
	return json.Marshal(struct {
		plain
		Price           string `json:"price"`
		Subtotal        string `json:"subtotal"`
		SubtotalDisplay string `json:"subtotal_display"`
	}{
		plain:           plain(it),
		Price:           utils.FormatMoney(it.Price, ""),
		Subtotal:        utils.FormatMoney(it.Subtotal, ""),
		SubtotalDisplay: utils.FormatMoney(it.Subtotal, it.Currency),
	})
}

func (it *Item) recompute() {
	it.Subtotal = it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// Cart is an ordered list of lines, at most one per product id.
type Cart []Item

// Add merges qty units of item into the cart. A product already present has
// its quantity increased; otherwise a new line is appended. Lines are capped
// at MaxLineQuantity and Add reports whether the cap was hit.
func (c *Cart) Add(item Item, qty int) (capped bool) {
	if qty <= 0 || item.ID <= 0 {
		return false
	}
	if i := c.index(item.ID); i >= 0 {
		line := &(*c)[i]
		if qty > MaxLineQuantity-line.Quantity {
			line.Quantity, capped = MaxLineQuantity, true
		} else {
			line.Quantity += qty
		}
		line.recompute()
		return capped
	}
	if qty > MaxLineQuantity {
		qty, capped = MaxLineQuantity, true
	}
	item.Quantity = qty
	item.recompute()
	*c = append(*c, item)
	return capped
}

// Increment adds one unit to the line of product id, up to MaxLineQuantity.
func (c *Cart) Increment(id int) {
	if i := c.index(id); i >= 0 && (*c)[i].Quantity < MaxLineQuantity {
		(*c)[i].Quantity++
		(*c)[i].recompute()
	}
}

// Decrement removes one unit from the line of product id. A line that
// reaches zero is removed.
func (c *Cart) Decrement(id int) {
	i := c.index(id)
	if i < 0 {
		return
	}
	(*c)[i].Quantity--
	if (*c)[i].Quantity <= 0 {
		c.Remove(id)
		return
	}
	(*c)[i].recompute()
}

// Remove drops the line of product id.
func (c *Cart) Remove(id int) {
	if i := c.index(id); i >= 0 {
		*c = append((*c)[:i], (*c)[i+1:]...)
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	*c = Cart{}
}

// Reprice replaces the unit price of the line of product id.
func (c *Cart) Reprice(id int, price decimal.Decimal) {
	if i := c.index(id); i >= 0 {
		(*c)[i].Price = price
		(*c)[i].recompute()
	}
}

// Total is the sum of the line subtotals.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c {
		total = total.Add(it.Subtotal)
	}
	return total
}

// Count is the number of units in the cart.
func (c Cart) Count() int {
	n := 0
	for _, it := range c {
		n += it.Quantity
	}
	return n
}

// IDs lists the product ids in cart order.
func (c Cart) IDs() []int {
	ids := make([]int, 0, len(c))
	for _, it := range c {
		ids = append(ids, it.ID)
	}
	return ids
}

func (c Cart) index(id int) int {
	for i, it := range c {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// MarshalJSON keeps an empty cart as [] rather than null.
func (c Cart) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Item(c))
}

// Decode parses a stored cart. raw may be the JSON array itself or a JSON
// string wrapping it, which is how local storage values reach the server.
// Corrupt input yields an empty cart and ok=false. Lines with a non positive
// id or quantity, or a negative price, are dropped; subtotals are recomputed
// and duplicate ids merged. Lines above MaxLineQuantity are capped, which
// also reports ok=false.
func Decode(raw []byte) (c Cart, ok bool) {
	c, ok, _ = decode(raw)
	return c, ok
}

// DecodeForOrder is Decode for checkout, where a capped line is refused with
// ErrQuantityLimit rather than silently ordered at a lower quantity.
func DecodeForOrder(raw []byte) (c Cart, ok bool, err error) {
	c, ok, capped := decode(raw)
	if capped {
		return Cart{}, false, ErrQuantityLimit
	}
	return c, ok, nil
}

func decode(raw []byte) (c Cart, ok, capped bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Cart{}, true, false
	}
	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return Cart{}, false, false
		}
		return decode([]byte(inner))
	}

	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return Cart{}, false, false
	}

	out := Cart{}
	ok = true
	for _, it := range items {
		if it.ID <= 0 || it.Quantity <= 0 || it.Price.IsNegative() {
			ok = false
			continue
		}
		if out.Add(it, it.Quantity) {
			capped = true
		}
	}
	if capped {
		ok = false
	}
	return out, ok, capped
}
