package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/amazighishop/shop_api/internal/service"
	"github.com/amazighishop/shop_api/internal/utils"
)

type nameRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

type methodRequest struct {
	MethodeName string `json:"methode_name" binding:"required,max=255"`
}

// ProductTypeHandler serves the product type pages.
type ProductTypeHandler struct {
	types *service.ProductTypeService
}

func NewProductTypeHandler(types *service.ProductTypeService) *ProductTypeHandler {
	return &ProductTypeHandler{types: types}
}

// List handles GET /admin/product-types
func (h *ProductTypeHandler) List(c *gin.Context) {
	page, limit := pageParams(c, defaultPerPage)
	search := strings.TrimSpace(c.Query("search"))

	types, total, err := h.types.List(c.Request.Context(), search, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, tr(c, "common.retrieved"), gin.H{
		"types":   paginate(c, types, total, page, limit),
		"filters": gin.H{"search": search},
	})
}

// Show handles GET /admin/product-types/:id. The payload says up front
// whether the type can be deleted and what deleting it does.
func (h *ProductTypeHandler) Show(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	pt, err := h.types.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	deletable := pt.OrderedCount == 0
	message := trf(c, "type.delete_confirm", pt.ProductsCount)
	if !deletable {
		message = trf(c, "type.in_use", pt.OrderedCount)
	}
	utils.Success(c, http.StatusOK, tr(c, "common.retrieved"), gin.H{
		"type":           pt,
		"can_delete":     deletable,
		"delete_message": message,
	})
}

// Create handles POST /admin/product-types
func (h *ProductTypeHandler) Create(c *gin.Context) {
	var req nameRequest
	if !bind(c, &req) {
		return
	}
	pt, err := h.types.Create(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, tr(c, "common.created"), pt)
}

// Update handles PUT /admin/product-types/:id
func (h *ProductTypeHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req nameRequest
	if !bind(c, &req) {
		return
	}
	pt, err := h.types.Update(c.Request.Context(), id, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, tr(c, "common.updated"), pt)
}

// Delete handles DELETE /admin/product-types/:id
func (h *ProductTypeHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.types.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, tr(c, "common.deleted"), nil)
}

// PaymentMethodHandler serves the payment method pages.
type PaymentMethodHandler struct {
	methods *service.PaymentMethodService
}

func NewPaymentMethodHandler(methods *service.PaymentMethodService) *PaymentMethodHandler {
	return &PaymentMethodHandler{methods: methods}
}

// List handles GET /admin/payment-methods
func (h *PaymentMethodHandler) List(c *gin.Context) {
	page, limit := pageParams(c, defaultPerPage)
	search := strings.TrimSpace(c.Query("search"))

	methods, total, err := h.methods.List(c.Request.Context(), search, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, tr(c, "common.retrieved"), gin.H{
		"methods": paginate(c, methods, total, page, limit),
		"filters": gin.H{"search": search},
	})
}

// Show handles GET /admin/payment-methods/:id
func (h *PaymentMethodHandler) Show(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	pm, err := h.methods.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	deletable := pm.PricesCount == 0 && pm.OrdersCount == 0
	message := tr(c, "payment.delete_confirm")
	if !deletable {
		message = trf(c, "payment.in_use", pm.PricesCount, pm.OrdersCount)
	}
	utils.Success(c, http.StatusOK, tr(c, "common.retrieved"), gin.H{
		"method":         pm,
		"can_delete":     deletable,
		"delete_message": message,
	})
}

// Create handles POST /admin/payment-methods
func (h *PaymentMethodHandler) Create(c *gin.Context) {
	var req methodRequest
	if !bind(c, &req) {
		return
	}
	pm, err := h.methods.Create(c.Request.Context(), req.MethodeName)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, tr(c, "common.created"), pm)
}

// Update handles PUT /admin/payment-methods/:id
func (h *PaymentMethodHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req methodRequest
	if !bind(c, &req) {
		return
	}
	pm, err := h.methods.Update(c.Request.Context(), id, req.MethodeName)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, tr(c, "common.updated"), pm)
}

// Delete handles DELETE /admin/payment-methods/:id
func (h *PaymentMethodHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.methods.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, tr(c, "common.deleted"), nil)
}
