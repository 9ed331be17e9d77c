package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/amazighishop/shop_api/internal/models"
)

const catalogVersionKey = "catalog:version"

// CatalogCache keeps the price slider bounds of each payment method. Entries
// are namespaced by a version counter so that any catalog change can drop
// them all with a single increment.
type CatalogCache struct {
	kv  KV
	ttl time.Duration
}

// NewCatalogCache creates a new CatalogCache.
func NewCatalogCache(kv KV, ttl time.Duration) *CatalogCache {
	return &CatalogCache{kv: kv, ttl: ttl}
}

func (c *CatalogCache) version(ctx context.Context) (string, error) {
	v, err := c.kv.Get(ctx, catalogVersionKey)
	if err == ErrMiss {
		return "0", nil
	}
	return v, err
}

func (c *CatalogCache) keyBounds(version string, methodID int) string {
	return fmt.Sprintf("catalog:%s:bounds:%d", version, methodID)
}

// Bounds returns the cached bounds of methodID, or ErrMiss.
func (c *CatalogCache) Bounds(ctx context.Context, methodID int) (*models.PriceBounds, error) {
	v, err := c.version(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := c.kv.Get(ctx, c.keyBounds(v, methodID))
	if err != nil {
		return nil, err
	}
	var b models.PriceBounds
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		return nil, fmt.Errorf("failed to unmarshal price bounds: %w", err)
	}
	return &b, nil
}

// SetBounds caches the bounds of methodID.
func (c *CatalogCache) SetBounds(ctx context.Context, methodID int, b *models.PriceBounds) error {
	v, err := c.version(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to marshal price bounds: %w", err)
	}
	return c.kv.Set(ctx, c.keyBounds(v, methodID), string(data), c.ttl)
}

// Invalidate drops every cached bound.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	if _, err := c.kv.Incr(ctx, catalogVersionKey); err != nil {
		return fmt.Errorf("failed to bump catalog version: %w", err)
	}
	return nil
}
