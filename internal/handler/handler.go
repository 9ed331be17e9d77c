// Package handler holds the HTTP controllers. Each returns the JSON payload a
// page hydrates from, or performs the action a page submits.
package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/amazighishop/shop_api/internal/i18n"
	"github.com/amazighishop/shop_api/internal/middleware"
	"github.com/amazighishop/shop_api/internal/models"
	"github.com/amazighishop/shop_api/internal/service"
	"github.com/amazighishop/shop_api/internal/utils"
)

const (
	defaultPerPage = 15
	maxPerPage     = 100
)

func init() {
	// Report validation failures under the JSON field names.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
	}
}

func jsonFieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

func tr(c *gin.Context, key string) string {
	return i18n.T(middleware.Language(c), key)
}

func trf(c *gin.Context, key string, args ...interface{}) string {
	return i18n.Tf(middleware.Language(c), key, args...)
}

// translateFields turns service field errors, whose values are message
// keys, into display messages.
func translateFields(c *gin.Context, fe utils.FieldErrors) map[string]string {
	out := make(map[string]string, len(fe))
	for field, key := range fe {
		out[field] = tr(c, key)
	}
	return out
}

// bind decodes the request into req and writes a 422 when it fails.
func bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBind(req); err != nil {
		respondBindError(c, err)
		return false
	}
	return true
}

func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		utils.ValidationError(c, tr(c, "validation.body"), map[string]string{})
		return
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := fieldPath(fe)
		if _, seen := fields[name]; seen {
			continue
		}
		key := "validation." + fe.Tag()
		msg := tr(c, key)
		if msg == key {
			msg = tr(c, "validation.invalid")
		} else if fe.Param() != "" && strings.Contains(msg, "%s") {
			msg = trf(c, key, fe.Param())
		}
		fields[name] = msg
	}
	utils.ValidationError(c, tr(c, "validation.failed"), fields)
}

// fieldPath renders a namespace like "productRequest.prices[1].price" as
// "prices.1.price".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		ns = rest
	}
	ns = strings.NewReplacer("[", ".", "]", "").Replace(ns)
	return ns
}

// respondError maps a service error to the response envelope.
func respondError(c *gin.Context, err error) {
	var (
		fe          utils.FieldErrors
		cooldown    *utils.CooldownError
		inUse       *utils.InUseError
		unavailable *service.UnavailableError
	)

	switch {
	case errors.As(err, &fe):
		utils.ValidationError(c, tr(c, "validation.failed"), translateFields(c, fe))
	case errors.As(err, &cooldown):
		c.Header("Retry-After", strconv.Itoa(cooldown.RetryAfterSeconds))
		utils.ErrorWith(c, http.StatusTooManyRequests, &utils.ErrorInfo{
			Code:    "RESEND_COOLDOWN",
			Message: trf(c, "auth.resend_wait", cooldown.RetryAfterSeconds),
			Extra:   gin.H{"retry_after": cooldown.RetryAfterSeconds},
		})
	case errors.As(err, &inUse):
		respondInUse(c, inUse)
	case errors.As(err, &unavailable):
		ids := make([]string, len(unavailable.ProductIDs))
		for i, id := range unavailable.ProductIDs {
			ids[i] = "#" + strconv.Itoa(id)
		}
		utils.ErrorWith(c, http.StatusConflict, &utils.ErrorInfo{
			Code:    "PRICE_UNAVAILABLE",
			Message: trf(c, "cart.price_unavailable", strings.Join(ids, ", ")),
			Extra:   gin.H{"product_ids": unavailable.ProductIDs},
		})
	case errors.Is(err, utils.ErrNotFound):
		utils.Error(c, http.StatusNotFound, "NOT_FOUND", tr(c, "common.not_found"))
	case errors.Is(err, utils.ErrInvalidImage):
		utils.ValidationError(c, tr(c, "validation.failed"), map[string]string{"image": tr(c, "product.image_invalid")})
	case errors.Is(err, utils.ErrEmptyCart):
		utils.ErrorWith(c, http.StatusUnprocessableEntity, &utils.ErrorInfo{
			Code:     "EMPTY_CART",
			Message:  tr(c, "order.empty_cart"),
			Redirect: "/client/products",
		})
	case errors.Is(err, utils.ErrSelfAction):
		utils.Error(c, http.StatusForbidden, "SELF_ACTION", tr(c, "user.self_action"))
	case errors.Is(err, utils.ErrMailDelivery):
		utils.Error(c, http.StatusBadGateway, "MAIL_DELIVERY_FAILED", tr(c, "auth.mail_failed"))
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", tr(c, "common.server_error"))
	}
}

func respondInUse(c *gin.Context, e *utils.InUseError) {
	info := &utils.ErrorInfo{Extra: gin.H{"prices_count": e.Prices, "orders_count": e.Orders}}
	switch {
	case errors.Is(e, utils.ErrPaymentMethodInUse):
		info.Code = "PAYMENT_METHOD_IN_USE"
		info.Message = trf(c, "payment.in_use", e.Prices, e.Orders)
	case errors.Is(e, utils.ErrProductTypeInUse):
		info.Code = "PRODUCT_TYPE_IN_USE"
		info.Message = trf(c, "type.in_use", e.Orders)
	case errors.Is(e, utils.ErrUserHasOrders):
		info.Code = "USER_HAS_ORDERS"
		info.Message = trf(c, "user.has_orders", e.Orders)
	default:
		info.Code = "IN_USE"
		info.Message = e.Error()
	}
	utils.ErrorWith(c, http.StatusConflict, info)
}

// paramID reads a positive integer path parameter, writing a 400 otherwise.
func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		utils.Error(c, http.StatusBadRequest, "INVALID_ID", tr(c, "common.invalid_id"))
		return 0, false
	}
	return id, true
}

// pageParams reads page and per_page, clamped to sane values.
func pageParams(c *gin.Context, perPage int) (page, limit int) {
	page, _ = strconv.Atoi(c.Query("page"))
	if page < 1 {
		page = 1
	}
	limit = perPage
	if v, err := strconv.Atoi(c.Query("per_page")); err == nil && v > 0 {
		limit = v
	}
	if limit > maxPerPage {
		limit = maxPerPage
	}
	return page, limit
}

// paginate wraps rows in the paginator built from the request URL.
func paginate(c *gin.Context, rows interface{}, total, page, limit int) utils.Page {
	u := *c.Request.URL
	if u.Host == "" {
		u.Host = c.Request.Host
		u.Scheme = "http"
		if c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https") {
			u.Scheme = "https"
		}
	}
	return utils.NewPage(&u, rows, total, page, limit)
}

// ParseIDList reads a comma separated id list such as "2,5". Invalid or
// non positive entries are skipped and duplicates collapsed.
func ParseIDList(raw string) []int {
	var ids []int
	seen := map[int]bool{}
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

func statusLabel(c *gin.Context, status models.OrderStatus) string {
	return tr(c, "order.status."+string(status))
}
