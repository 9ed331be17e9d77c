package cart

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/amazighishop/shop_api/internal/i18n"
)

// Keys under which the browser persists its state.
const (
	KeyCart                  = "cart"
	KeySelectedPaymentMethod = "selectedPaymentMethod"
	KeyDarkMode              = "darkMode"
	KeyLanguage              = "language"
)

// PaymentSelection is the payment method the shopper picked.
type PaymentSelection struct {
	ID          int    `json:"id"`
	MethodeName string `json:"methode_name,omitempty"`
}

// ClientState is the typed view of the four persisted keys.
type ClientState struct {
	Cart                  Cart              `json:"cart"`
	SelectedPaymentMethod *PaymentSelection `json:"selectedPaymentMethod"`
	DarkMode              bool              `json:"darkMode"`
	Language              string            `json:"language"`
}

// DecodeState builds a ClientState from raw persisted values. Each key is
// decoded on its own; a corrupt value is replaced by its default and its key
// is reported in discarded so the caller can tell the browser to clear it.
func DecodeState(raw map[string]string) (state ClientState, discarded []string) {
	state.Language = i18n.Default

	if v, present := raw[KeyCart]; present {
		c, ok := Decode([]byte(v))
		state.Cart = c
		if !ok {
			discarded = append(discarded, KeyCart)
		}
	} else {
		state.Cart = Cart{}
	}

	if v, present := raw[KeySelectedPaymentMethod]; present && v != "" {
		sel, ok := DecodeSelection(v)
		if ok {
			state.SelectedPaymentMethod = sel
		} else {
			discarded = append(discarded, KeySelectedPaymentMethod)
		}
	}

	if v, present := raw[KeyDarkMode]; present && v != "" {
		dark, ok := parseBool(v)
		if ok {
			state.DarkMode = dark
		} else {
			discarded = append(discarded, KeyDarkMode)
		}
	}

	if v, present := raw[KeyLanguage]; present && v != "" {
		if lang := i18n.Normalize(strings.Trim(v, `"`)); lang != "" {
			state.Language = lang
		} else {
			discarded = append(discarded, KeyLanguage)
		}
	}

	return state, discarded
}

// DecodeSelection accepts either a bare id ("3", "\"3\"") or the stored
// object ({"id":3,"methode_name":"D17"}).
func DecodeSelection(raw string) (*PaymentSelection, bool) {
	raw = strings.TrimSpace(raw)
	if id, err := strconv.Atoi(strings.Trim(raw, `"`)); err == nil {
		if id <= 0 {
			return nil, false
		}
		return &PaymentSelection{ID: id}, true
	}
	var sel PaymentSelection
	if err := json.Unmarshal([]byte(raw), &sel); err != nil || sel.ID <= 0 {
		return nil, false
	}
	return &sel, true
}

// EncodeSelection renders sel the way DecodeSelection reads it back.
func EncodeSelection(sel PaymentSelection) string {
	b, _ := json.Marshal(sel)
	return string(b)
}

func parseBool(v string) (bool, bool) {
	switch strings.ToLower(strings.Trim(strings.TrimSpace(v), `"`)) {
	case "true", "1", "on", "dark":
		return true, true
	case "false", "0", "off", "light":
		return false, true
	}
	return false, false
}
