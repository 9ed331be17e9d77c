package handler

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/amazighishop/shop_api/internal/repository"
	"github.com/amazighishop/shop_api/internal/service"
	"github.com/amazighishop/shop_api/internal/storage"
	"github.com/amazighishop/shop_api/internal/utils"
)

// ProductHandler serves the back-office product pages.
type ProductHandler struct {
	products *service.ProductService
	types    *service.ProductTypeService
	methods  *service.PaymentMethodService
}

func NewProductHandler(products *service.ProductService, types *service.ProductTypeService, methods *service.PaymentMethodService) *ProductHandler {
	return &ProductHandler{products: products, types: types, methods: methods}
}

type priceRequest struct {
	PriceMethodeID int             `json:"price_methode_id" binding:"required,gt=0"`
	Price          decimal.Decimal `json:"price"`
}

type contactRequest struct {
	Instagram string `json:"instagram" binding:"max=255"`
	Facebook  string `json:"facebook" binding:"max=255"`
	Whatsapp  string `json:"whatsapp" binding:"max=255"`
	Tiktok    string `json:"tiktok" binding:"max=255"`
}

type productRequest struct {
	Label         string          `json:"label" binding:"required,max=100"`
	Description   string          `json:"description" binding:"max=1000"`
	Quantity      int             `json:"quantity" binding:"gte=0"`
	Unit          string          `json:"unit" binding:"max=50"`
	Currency      string          `json:"currency" binding:"omitempty,len=3"`
	TypeProduitID *int            `json:"type_produit_id" binding:"omitempty,gt=0"`
	Prices        []priceRequest  `json:"prices" binding:"dive"`
	Contact       *contactRequest `json:"contact"`
}

func (r productRequest) input() service.ProductInput {
	in := service.ProductInput{
		Label:         r.Label,
		Description:   r.Description,
		Quantity:      r.Quantity,
		Unit:          r.Unit,
		Currency:      r.Currency,
		TypeProduitID: r.TypeProduitID,
		Prices:        make([]service.PriceInput, len(r.Prices)),
	}
	for i, p := range r.Prices {
		in.Prices[i] = service.PriceInput{PriceMethodeID: p.PriceMethodeID, Price: p.Price}
	}
	if r.Contact != nil {
		in.Contact = &service.ContactInput{
			Instagram: r.Contact.Instagram,
			Facebook:  r.Contact.Facebook,
			Whatsapp:  r.Contact.Whatsapp,
			Tiktok:    r.Contact.Tiktok,
		}
	}
	return in
}

// List handles GET /admin/products
func (h *ProductHandler) List(c *gin.Context) {
	page, limit := pageParams(c, defaultPerPage)
	filter := repository.ProductFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Page:   page,
		Limit:  limit,
	}
	if v := c.Query("type_id"); v != "" {
		if id, err := strconv.Atoi(v); err == nil && id > 0 {
			filter.TypeID = &id
		}
	}

	products, total, err := h.products.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	types, err := h.types.All(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, tr(c, "common.retrieved"), gin.H{
		"products": paginate(c, products, total, page, limit),
		"types":    types,
		"filters":  gin.H{"search": filter.Search, "type_id": filter.TypeID},
	})
}

// Options handles GET /admin/products/options: the choices of the product form.
func (h *ProductHandler) Options(c *gin.Context) {
	types, err := h.types.All(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	methods, err := h.methods.All(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, tr(c, "common.retrieved"), gin.H{"types": types, "methods": methods})
}

// Show handles GET /admin/products/:id
func (h *ProductHandler) Show(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	p, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, tr(c, "common.retrieved"), p)
}

// Create handles POST /admin/products
func (h *ProductHandler) Create(c *gin.Context) {
	var req productRequest
	if !bind(c, &req) {
		return
	}
	p, err := h.products.Create(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, tr(c, "common.created"), p)
}

// Update handles PUT /admin/products/:id. The prices sent replace the
// stored ones.
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req productRequest
	if !bind(c, &req) {
		return
	}
	p, err := h.products.Update(c.Request.Context(), id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, tr(c, "common.updated"), p)
}

// Delete handles DELETE /admin/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, tr(c, "common.deleted"), nil)
}

// UploadImage handles POST /admin/products/:id/image (multipart field "image").
func (h *ProductHandler) UploadImage(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	fh, err := c.FormFile("image")
	if err != nil {
		utils.ValidationError(c, tr(c, "validation.failed"), map[string]string{"image": tr(c, "validation.required")})
		return
	}
	if fh.Size > storage.MaxImageSize {
		respondError(c, utils.ErrInvalidImage)
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, storage.MaxImageSize+1))
	if err != nil {
		respondError(c, err)
		return
	}

	url, err := h.products.SetImage(c.Request.Context(), id, data)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, tr(c, "product.image_saved"), gin.H{"image": url})
}
