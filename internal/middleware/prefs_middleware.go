package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/amazighishop/shop_api/internal/cart"
	"github.com/amazighishop/shop_api/internal/i18n"
)

// PrefsMiddleware resolves the display language and theme. The language
// comes from the language cookie, then the lang query parameter, then
// Accept-Language. Anything unsupported falls back to French.
func PrefsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := ""
		if v, err := c.Cookie(cart.KeyLanguage); err == nil {
			lang = i18n.Normalize(strings.Trim(v, `"`))
		}
		if lang == "" {
			lang = i18n.Normalize(c.Query("lang"))
		}
		if lang == "" {
			lang = i18n.DetectLanguage(c.GetHeader("Accept-Language"))
		}
		if lang == "" {
			lang = i18n.Default
		}
		c.Set(keyLanguage, lang)

		if v, err := c.Cookie(cart.KeyDarkMode); err == nil {
			state, _ := cart.DecodeState(map[string]string{cart.KeyDarkMode: v})
			c.Set(keyDarkMode, state.DarkMode)
		}

		c.Header("Content-Language", lang)
		c.Next()
	}
}
