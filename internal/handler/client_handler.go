package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/amazighishop/shop_api/internal/cart"
	"github.com/amazighishop/shop_api/internal/middleware"
	"github.com/amazighishop/shop_api/internal/repository"
	"github.com/amazighishop/shop_api/internal/service"
	"github.com/amazighishop/shop_api/internal/utils"
)

const (
	maxCartBody        = 256 << 10
	selectionCookieAge = 365 * 24 * 60 * 60
)

// ClientHandler serves the shopping flow of client accounts. Every route
// but the method selection runs behind PaymentMethodGate.
type ClientHandler struct {
	catalog       *service.CatalogService
	orders        *service.OrderService
	secureCookies bool
}

func NewClientHandler(catalog *service.CatalogService, orders *service.OrderService, secureCookies bool) *ClientHandler {
	return &ClientHandler{catalog: catalog, orders: orders, secureCookies: secureCookies}
}

type selectMethodRequest struct {
	PaymentMethodID int `json:"payment_method_id" form:"payment_method_id" binding:"required,gt=0"`
}

type placeOrderRequest struct {
	Cart            json.RawMessage `json:"cart"`
	ClientFacebook  string          `json:"client_facebook" binding:"max=255"`
	ClientInstagram string          `json:"client_instagram" binding:"max=255"`
	NotesClient     string          `json:"notes_client" binding:"max=1000"`
}

type cartUpdateRequest struct {
	Cart      json.RawMessage `json:"cart"`
	Action    string          `json:"action" binding:"required,oneof=add increment decrement remove clear"`
	ProductID int             `json:"product_id" binding:"omitempty,gt=0"`
	Quantity  int             `json:"quantity" binding:"omitempty,gt=0,lte=999"`
}

func catalogRoute(methodID int) string {
	return fmt.Sprintf("/client/products?payment_method_id=%d", methodID)
}

// PaymentMethods handles GET /client/payment-methods
func (h *ClientHandler) PaymentMethods(c *gin.Context) {
	methods, err := h.catalog.PaymentMethods(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	data := gin.H{"methods": methods}
	if raw, err := c.Cookie(cart.KeySelectedPaymentMethod); err == nil {
		if sel, ok := cart.DecodeSelection(raw); ok {
			data["selected"] = sel
		}
	}
	if level, msg := middleware.TakeFlash(c); msg != "" {
		data["flash"] = gin.H{"level": level, "message": msg}
	}
	utils.Success(c, http.StatusOK, tr(c, "payment.select_title"), data)
}

// SelectMethod handles POST /client/payment-methods/select
func (h *ClientHandler) SelectMethod(c *gin.Context) {
	var req selectMethodRequest
	if !bind(c, &req) {
		return
	}
	sel, err := h.catalog.SelectMethod(c.Request.Context(), req.PaymentMethodID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cart.KeySelectedPaymentMethod, cart.EncodeSelection(*sel), selectionCookieAge, "/", "", h.secureCookies, false)
	utils.Success(c, http.StatusOK, tr(c, "payment.selected"), gin.H{
		"selected": sel,
		"redirect": catalogRoute(sel.ID),
	})
}

// Products handles GET /client/products
func (h *ClientHandler) Products(c *gin.Context) {
	methodID := middleware.PaymentMethodID(c)
	page, _ := pageParams(c, service.CatalogPerPage)
	filter := repository.CatalogFilter{
		MethodID: methodID,
		Search:   strings.TrimSpace(c.Query("search")),
		TypeIDs:  ParseIDList(c.Query("types")),
		MinPrice: decimalQuery(c, "min_price"),
		MaxPrice: decimalQuery(c, "max_price"),
		Page:     page,
		Limit:    service.CatalogPerPage,
	}

	p, err := h.catalog.Browse(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, tr(c, "common.retrieved"), gin.H{
		"method":   p.Method,
		"products": paginate(c, p.Products, p.Total, page, service.CatalogPerPage),
		"types":    p.Types,
		"bounds":   p.Bounds,
		"filters": gin.H{
			"search":    filter.Search,
			"types":     filter.TypeIDs,
			"min_price": filter.MinPrice,
			"max_price": filter.MaxPrice,
		},
	})
}

// decimalQuery reads a non negative amount, ignoring anything else.
func decimalQuery(c *gin.Context, name string) *decimal.Decimal {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		return nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() {
		return nil
	}
	return &d
}

// Product handles GET /client/products/:id
func (h *ClientHandler) Product(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	p, err := h.catalog.Product(c.Request.Context(), id, middleware.PaymentMethodID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, tr(c, "common.retrieved"), p)
}

// PreviewCart handles POST /client/cart/preview. The body is the stored
// cart itself or an object carrying it under "cart".
func (h *ClientHandler) PreviewCart(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxCartBody))
	if err != nil {
		utils.ValidationError(c, tr(c, "validation.body"), map[string]string{})
		return
	}

	preview, err := h.catalog.PreviewCart(c.Request.Context(), middleware.PaymentMethodID(c), unwrapCart(raw))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, tr(c, "cart.title"), preview)
}

// UpdateCart handles POST /client/cart/update
func (h *ClientHandler) UpdateCart(c *gin.Context) {
	var req cartUpdateRequest
	if !bind(c, &req) {
		return
	}

	preview, err := h.catalog.UpdateCart(c.Request.Context(), middleware.PaymentMethodID(c), unwrapCart(req.Cart), service.CartUpdate{
		Action:    service.CartAction(req.Action),
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, tr(c, "cart.updated"), preview)
}

func unwrapCart(raw []byte) []byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed
	}
	var wrapper struct {
		Cart json.RawMessage `json:"cart"`
	}
	if err := json.Unmarshal(trimmed, &wrapper); err != nil || len(wrapper.Cart) == 0 {
		return trimmed
	}
	// The browser may store the cart as a JSON string holding JSON.
	var inner string
	if err := json.Unmarshal(wrapper.Cart, &inner); err == nil {
		return []byte(inner)
	}
	return wrapper.Cart
}

// Checkout handles GET /client/checkout
func (h *ClientHandler) Checkout(c *gin.Context) {
	methodID := middleware.PaymentMethodID(c)
	sel, err := h.catalog.SelectMethod(c.Request.Context(), methodID)
	if err != nil {
		respondError(c, err)
		return
	}
	user := middleware.CurrentUser(c)
	utils.Success(c, http.StatusOK, tr(c, "cart.checkout"), gin.H{
		"method": sel,
		"contact": gin.H{
			"name":  user.Name,
			"email": user.Email,
			"phone": user.Phone,
		},
		"steps": []string{"cart", "contact", "confirm"},
	})
}

// PlaceOrder handles POST /client/orders
func (h *ClientHandler) PlaceOrder(c *gin.Context) {
	var req placeOrderRequest
	if !bind(c, &req) {
		return
	}

	methodID := middleware.PaymentMethodID(c)
	order, err := h.orders.Place(c.Request.Context(), middleware.UserID(c), service.PlaceOrderInput{
		MethodID:        methodID,
		Cart:            unwrapCart(req.Cart),
		ClientFacebook:  req.ClientFacebook,
		ClientInstagram: req.ClientInstagram,
		NotesClient:     req.NotesClient,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, http.StatusCreated, trf(c, "order.placed", order.ID), gin.H{
		"order":      order,
		"clear_cart": true,
		"redirect":   fmt.Sprintf("/client/orders/%d?payment_method_id=%d", order.ID, methodID),
	})
}

// Orders handles GET /client/orders
func (h *ClientHandler) Orders(c *gin.Context) {
	page, limit := pageParams(c, defaultPerPage)
	orders, total, err := h.orders.History(c.Request.Context(), middleware.UserID(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, tr(c, "common.retrieved"), gin.H{
		"orders": paginate(c, orders, total, page, limit),
	})
}

// Order handles GET /client/orders/:id
func (h *ClientHandler) Order(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	order, err := h.orders.Get(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, tr(c, "common.retrieved"), gin.H{
		"order":        order,
		"status_label": statusLabel(c, order.Statut),
	})
}
