package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/amazighishop/shop_api/internal/i18n"
	"github.com/amazighishop/shop_api/internal/utils"
)

var startTime = time.Now()

// Pinger is a dependency the health check can probe.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

// HealthHandler provides health endpoint.
type HealthHandler struct {
	deps map[string]Pinger
}

// NewHealthHandler creates a new HealthHandler probing deps by name.
func NewHealthHandler(deps map[string]Pinger) *HealthHandler {
	return &HealthHandler{deps: deps}
}

// GetHealth responds with the service and dependency status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	deps := gin.H{}
	for name, p := range h.deps {
		if err := p.PingContext(ctx); err != nil {
			deps[name] = "disconnected"
			status = "degraded"
			continue
		}
		deps[name] = "connected"
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	utils.Success(c, code, "Service is "+status, gin.H{
		"status":       status,
		"version":      "1.0.0",
		"uptime":       int(time.Since(startTime).Seconds()),
		"dependencies": deps,
	})
}

// Dictionary handles GET /i18n/:lang
func Dictionary(c *gin.Context) {
	lang := i18n.Normalize(c.Param("lang"))
	if lang == "" {
		utils.Error(c, http.StatusNotFound, "UNKNOWN_LANGUAGE", tr(c, "common.not_found"))
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	utils.Success(c, http.StatusOK, tr(c, "common.retrieved"), gin.H{
		"language":  lang,
		"direction": i18n.Direction(lang),
		"messages":  i18n.Dictionary(lang),
	})
}
