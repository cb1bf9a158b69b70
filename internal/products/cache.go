package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/crumbhouse/bakery-backend/pkg/db/models"
	"github.com/crumbhouse/bakery-backend/pkg/logger"
	"github.com/crumbhouse/bakery-backend/pkg/redis"
)

const cacheKind = "product"

// CacheStore is the slice of the Redis client the catalog cache needs.
type CacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CacheKey(kind, id string) string
}

type cachedService struct {
	Service
	store CacheStore
	ttl   time.Duration
	logg  *logger.Logger
}

// NewCachedService serves reads by reference from store and drops entries on
// every write. Cache failures fall through to next.
func NewCachedService(next Service, store CacheStore, ttl time.Duration, logg *logger.Logger) (Service, error) {
	if next == nil {
		return nil, fmt.Errorf("product service required")
	}
	if store == nil {
		return nil, fmt.Errorf("cache store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &cachedService{Service: next, store: store, ttl: ttl, logg: logg}, nil
}

func (c *cachedService) Get(ctx context.Context, ref string) (*models.Product, error) {
	key := c.store.CacheKey(cacheKind, cacheRef(ref))
	raw, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		var product models.Product
		if jsonErr := json.Unmarshal([]byte(raw), &product); jsonErr == nil {
			return &product, nil
		}
		c.logg.Warn(c.logg.WithField(ctx, "key", key), "products.cache_corrupt")
	case !errors.Is(err, redis.Nil):
		c.logg.WarnErr(c.logg.WithField(ctx, "key", key), "products.cache_read_failed", err)
	}

	product, err := c.Service.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(product); err == nil {
		if err := c.store.Set(ctx, key, payload, c.ttl); err != nil {
			c.logg.WarnErr(c.logg.WithField(ctx, "key", key), "products.cache_write_failed", err)
		}
	}
	return product, nil
}

func (c *cachedService) Update(ctx context.Context, ref string, input UpdateInput) (*models.Product, error) {
	product, err := c.Service.Update(ctx, ref, input)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, ref, product)
	return product, nil
}

func (c *cachedService) Delete(ctx context.Context, ref string) error {
	product, err := c.Service.Get(ctx, ref)
	if err != nil {
		return err
	}
	if err := c.Service.Delete(ctx, product.ID.String()); err != nil {
		return err
	}
	c.invalidate(ctx, ref, product)
	return nil
}

func (c *cachedService) Rate(ctx context.Context, ref string, rating int) (*models.Product, error) {
	product, err := c.Service.Rate(ctx, ref, rating)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, ref, product)
	return product, nil
}

// invalidate drops the entry under the UUID and the productId alike.
func (c *cachedService) invalidate(ctx context.Context, ref string, product *models.Product) {
	refs := map[string]struct{}{cacheRef(ref): {}}
	if product != nil {
		refs[product.ID.String()] = struct{}{}
		refs[product.ProductID] = struct{}{}
	}
	keys := make([]string, 0, len(refs))
	for r := range refs {
		if r != "" {
			keys = append(keys, c.store.CacheKey(cacheKind, r))
		}
	}
	if err := c.store.Del(ctx, keys...); err != nil {
		c.logg.WarnErr(ctx, "products.cache_invalidate_failed", err)
	}
}

func cacheRef(ref string) string {
	ref = strings.TrimSpace(ref)
	if id, err := uuid.Parse(ref); err == nil {
		return id.String()
	}
	return ref
}
