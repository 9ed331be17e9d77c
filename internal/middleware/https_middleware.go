package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/amazighishop/shop_api/internal/config"
)

// HTTPSMiddleware redirects plain HTTP to HTTPS when enabled. Secure
// responses carry HSTS and expire the cookies left by older deployments.
func HTTPSMiddleware(cfg config.HTTPSConfig) gin.HandlerFunc {
	hsts := fmt.Sprintf("max-age=%d; includeSubDomains", cfg.HSTSMaxAge)

	return func(c *gin.Context) {
		if !cfg.Force {
			c.Next()
			return
		}

		if !isSecure(c.Request) {
			c.Redirect(http.StatusMovedPermanently, "https://"+c.Request.Host+c.Request.URL.RequestURI())
			c.Abort()
			return
		}

		c.Header("Strict-Transport-Security", hsts)
		for _, name := range cfg.ExpiredCookies {
			if _, err := c.Cookie(name); err == nil {
				c.SetCookie(name, "", -1, "/", "", true, true)
			}
		}
		c.Next()
	}
}

func isSecure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
