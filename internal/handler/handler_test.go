package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amazighishop/shop_api/internal/service"
	"github.com/amazighishop/shop_api/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool             `json:"success"`
	Code    int              `json:"code"`
	Message string           `json:"message"`
	Data    json.RawMessage  `json:"data"`
	Error   *utils.ErrorInfo `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func TestParseIDList(t *testing.T) {
	tests := []struct {
		raw  string
		want []int
	}{
		{"2,5", []int{2, 5}},
		{" 3 , 3 ,7", []int{3, 7}},
		{"a,0,-1,4", []int{4}},
		{"", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseIDList(tt.raw), tt.raw)
	}
}

func TestUnwrapCart(t *testing.T) {
	bare := `[{"id":1,"quantity":2}]`
	assert.Equal(t, bare, string(unwrapCart([]byte(bare))))
	assert.Equal(t, bare, string(unwrapCart([]byte(`{"cart":`+bare+`}`))))

	quoted, _ := json.Marshal(bare)
	assert.Equal(t, bare, string(unwrapCart([]byte(`{"cart":`+string(quoted)+`}`))))

	assert.Equal(t, "{broken", string(unwrapCart([]byte("{broken"))))
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"field errors", utils.FieldErrors{"email": "validation.unique"}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"not found", fmt.Errorf("get product: %w", utils.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"cooldown", &utils.CooldownError{RetryAfterSeconds: 12}, http.StatusTooManyRequests, "RESEND_COOLDOWN"},
		{"payment method in use", &utils.InUseError{Err: utils.ErrPaymentMethodInUse, Prices: 2, Orders: 1}, http.StatusConflict, "PAYMENT_METHOD_IN_USE"},
		{"type in use", &utils.InUseError{Err: utils.ErrProductTypeInUse, Orders: 3}, http.StatusConflict, "PRODUCT_TYPE_IN_USE"},
		{"user with orders", &utils.InUseError{Err: utils.ErrUserHasOrders, Orders: 2}, http.StatusConflict, "USER_HAS_ORDERS"},
		{"unavailable", &service.UnavailableError{ProductIDs: []int{4}}, http.StatusConflict, "PRICE_UNAVAILABLE"},
		{"empty cart", utils.ErrEmptyCart, http.StatusUnprocessableEntity, "EMPTY_CART"},
		{"self action", utils.ErrSelfAction, http.StatusForbidden, "SELF_ACTION"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			env := decode(t, w)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestRespondError_CooldownSetsRetryAfter(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	respondError(c, &utils.CooldownError{RetryAfterSeconds: 42})

	assert.Equal(t, "42", w.Header().Get("Retry-After"))
	env := decode(t, w)
	assert.EqualValues(t, 42, env.Error.Extra["retry_after"])
}

func TestBind_ReportsJSONFieldPaths(t *testing.T) {
	r := gin.New()
	r.POST("/products", func(c *gin.Context) {
		var req productRequest
		if !bind(c, &req) {
			return
		}
		c.Status(http.StatusNoContent)
	})

	body := `{"label":"","quantity":1,"prices":[{"price_methode_id":1,"price":"2"},{"price_methode_id":0,"price":"3"}]}`
	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	env := decode(t, w)
	assert.Contains(t, env.Error.Fields, "label")
	assert.Contains(t, env.Error.Fields, "prices.1.price_methode_id")
}

func TestDictionary(t *testing.T) {
	r := gin.New()
	r.GET("/i18n/:lang", Dictionary)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/i18n/ar", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Language  string            `json:"language"`
		Direction string            `json:"direction"`
		Messages  map[string]string `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
	assert.Equal(t, "ar", data.Language)
	assert.Equal(t, "rtl", data.Direction)
	assert.NotEmpty(t, data.Messages["cart.title"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/i18n/de", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealth_DegradedWhenDependencyDown(t *testing.T) {
	h := NewHealthHandler(map[string]Pinger{
		"database": PingFunc(func(ctx context.Context) error { return nil }),
		"redis":    PingFunc(func(ctx context.Context) error { return errors.New("refused") }),
	})
	r := gin.New()
	r.GET("/health", h.GetHealth)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"disconnected"`)
	assert.Contains(t, w.Body.String(), `"database":"connected"`)
}

func TestEventName(t *testing.T) {
	assert.Equal(t, "order.placed", eventName([]byte(`{"event":"order.placed","orderId":3}`)))
	assert.Equal(t, "message", eventName([]byte(`{"orderId":3}`)))
	assert.Equal(t, "message", eventName([]byte(`not json`)))
}

func TestClientHandler_UpdateCartRejectsUnknownAction(t *testing.T) {
	h := NewClientHandler(nil, nil, false)
	r := gin.New()
	r.POST("/client/cart/update", h.UpdateCart)

	body := `{"cart":[],"action":"explode","product_id":8,"quantity":1000}`
	req := httptest.NewRequest(http.MethodPost, "/client/cart/update", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	env := decode(t, w)
	assert.Contains(t, env.Error.Fields, "action")
	assert.Contains(t, env.Error.Fields, "quantity")
}
