package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	dom "github.com/AHKAYY007/Property-finder-dapp/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keySearch = "prop:search:"

// PropertyCache caches search results in Redis, invalidated on every
// property write.
type PropertyCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewPropertyCache returns a new PropertyCache.
func NewPropertyCache(rdb *redis.Client, ttl time.Duration) *PropertyCache {
	return &PropertyCache{rdb: rdb, ttl: ttl}
}

// GetSearch returns the cached result for the filter, or nil on miss.
func (c *PropertyCache) GetSearch(ctx context.Context, f dom.PropertyFilter) ([]dom.Property, error) {
	b, err := c.rdb.Get(ctx, keySearch+SearchKey(f)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.Property
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetSearch stores the search result.
func (c *PropertyCache) SetSearch(ctx context.Context, f dom.PropertyFilter, list []dom.Property) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keySearch+SearchKey(f), b, c.ttl).Err()
}

// InvalidateAll removes every cached search result (cache invalidation on write).
func (c *PropertyCache) InvalidateAll(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, keySearch+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// SearchKey builds a canonical cache key for a filter. Also used as the
// singleflight key in the service.
func SearchKey(f dom.PropertyFilter) string {
	var b strings.Builder
	fmt.Fprintf(&b, "q=%s", strings.ToLower(strings.TrimSpace(f.Query)))
	if f.MinPrice != nil {
		fmt.Fprintf(&b, "|minp=%g", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		fmt.Fprintf(&b, "|maxp=%g", *f.MaxPrice)
	}
	if f.PropertyType != "" {
		fmt.Fprintf(&b, "|type=%s", f.PropertyType)
	}
	if f.Bedrooms != nil {
		fmt.Fprintf(&b, "|bed=%d", *f.Bedrooms)
	}
	if f.Bathrooms != nil {
		fmt.Fprintf(&b, "|bath=%d", *f.Bathrooms)
	}
	if f.MinArea != nil {
		fmt.Fprintf(&b, "|mina=%g", *f.MinArea)
	}
	if f.MaxArea != nil {
		fmt.Fprintf(&b, "|maxa=%g", *f.MaxArea)
	}
	if f.Location != "" {
		fmt.Fprintf(&b, "|loc=%s", strings.ToLower(f.Location))
	}
	if f.IsListed != nil {
		fmt.Fprintf(&b, "|listed=%t", *f.IsListed)
	}
	fmt.Fprintf(&b, "|sort=%s:%s|page=%d|limit=%d", f.SortBy, f.SortOrder, f.Page, f.Limit)
	return b.String()
}
