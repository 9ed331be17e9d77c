package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/amazighishop/shop_api/internal/auth"
	"github.com/amazighishop/shop_api/internal/i18n"
	"github.com/amazighishop/shop_api/internal/models"
	"github.com/amazighishop/shop_api/internal/utils"
)

const (
	LoginRoute          = "/login"
	UnauthorizedRoute   = "/unauthorized"
	PaymentMethodsRoute = "/client/payment-methods"
)

// RequireAuth sends guests to the login page.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			deny(c, http.StatusUnauthorized, &utils.ErrorInfo{
				Code:     "UNAUTHENTICATED",
				Message:  i18n.T(Language(c), "auth.login_required"),
				Redirect: LoginRoute,
			})
			return
		}
		c.Next()
	}
}

// RequireCapability lets through signed-in users granted want. It must run
// after RequireAuth.
func RequireCapability(want auth.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Capabilities(c).Has(want) {
			deny(c, http.StatusForbidden, &utils.ErrorInfo{
				Code:     "FORBIDDEN",
				Message:  i18n.T(Language(c), "auth.unauthorized"),
				Redirect: UnauthorizedRoute,
			})
			return
		}
		c.Next()
	}
}

// PaymentMethodGate makes clients pick a payment method before shopping.
// Staff and the selection pages pass untouched; other client requests need
// a positive payment_method_id query parameter.
func PaymentMethodGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || user.Role != models.RoleClient {
			c.Next()
			return
		}
		if strings.HasPrefix(c.Request.URL.Path, PaymentMethodsRoute) {
			c.Next()
			return
		}

		id, err := strconv.Atoi(c.Query("payment_method_id"))
		if err != nil || id <= 0 {
			msg := i18n.T(Language(c), "payment.select_first")
			if !WantsJSON(c) {
				SetFlash(c, "warning", msg)
			}
			deny(c, http.StatusConflict, &utils.ErrorInfo{
				Code:     "PAYMENT_METHOD_REQUIRED",
				Message:  msg,
				Redirect: PaymentMethodsRoute,
			})
			return
		}

		c.Set(keyPaymentMethodID, id)
		c.Next()
	}
}

// deny aborts with a redirect for page navigations and with a JSON error
// carrying the redirect target for scripts.
func deny(c *gin.Context, status int, info *utils.ErrorInfo) {
	if WantsJSON(c) {
		utils.ErrorWith(c, status, info)
		c.Abort()
		return
	}
	c.Redirect(http.StatusFound, info.Redirect)
	c.Abort()
}
