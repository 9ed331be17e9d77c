package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/amazighishop/shop_api/internal/auth"
	"github.com/amazighishop/shop_api/internal/i18n"
	"github.com/amazighishop/shop_api/internal/models"
)

// Context keys set by the middleware chain.
const (
	keyUser            = "user"
	keyCapabilities    = "capabilities"
	keyLanguage        = "language"
	keyDarkMode        = "dark_mode"
	keyPaymentMethodID = "payment_method_id"
)

// FlashCookie carries a one-shot message across a redirect.
const FlashCookie = "flash"

// CurrentUser returns the signed-in user, or nil for guests.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(keyUser)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// UserID returns the id of the signed-in user, or 0.
func UserID(c *gin.Context) int {
	if u := CurrentUser(c); u != nil {
		return u.ID
	}
	return 0
}

// Capabilities returns what the signed-in user may do. Guests get none.
func Capabilities(c *gin.Context) auth.Capabilities {
	v, ok := c.Get(keyCapabilities)
	if !ok {
		return auth.Capabilities{}
	}
	caps, _ := v.(auth.Capabilities)
	return caps
}

// Language returns the language resolved by PrefsMiddleware.
func Language(c *gin.Context) string {
	if lang := c.GetString(keyLanguage); lang != "" {
		return lang
	}
	return i18n.Default
}

func DarkMode(c *gin.Context) bool {
	return c.GetBool(keyDarkMode)
}

// PaymentMethodID returns the method validated by PaymentMethodGate, or
// the raw query value for ungated callers.
func PaymentMethodID(c *gin.Context) int {
	if id := c.GetInt(keyPaymentMethodID); id > 0 {
		return id
	}
	// Staff are not gated but may still browse with a method in the query.
	id, _ := strconv.Atoi(c.Query("payment_method_id"))
	return id
}

// WantsJSON reports whether the caller is a script rather than a page
// navigation.
func WantsJSON(c *gin.Context) bool {
	if c.GetHeader("X-Requested-With") == "XMLHttpRequest" {
		return true
	}
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

// SetFlash stores a message for the next page load.
func SetFlash(c *gin.Context, level, message string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(FlashCookie, level+":"+message, 60, "/", "", false, false)
}

// TakeFlash returns and clears the pending flash message.
func TakeFlash(c *gin.Context) (level, message string) {
	raw, err := c.Cookie(FlashCookie)
	if err != nil || raw == "" {
		return "", ""
	}
	c.SetCookie(FlashCookie, "", -1, "/", "", false, false)
	level, message, _ = strings.Cut(raw, ":")
	return level, message
}
