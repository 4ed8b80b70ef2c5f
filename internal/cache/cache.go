// Package cache wraps a Redis client for read-mostly lookups. Every
// method on CouponCache is nil-receiver safe so callers work the same
// whether Redis is configured or not.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/recyclemart/ewaste-market/internal/models"
)

func Connect(addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return rdb, nil
}

const (
	couponListKey = "coupons:all"
	couponListTTL = 5 * time.Minute
)

type CouponCache struct {
	client *redis.Client
}

func NewCouponCache(client *redis.Client) *CouponCache {
	return &CouponCache{client: client}
}

func (c *CouponCache) GetList(ctx context.Context) ([]models.Coupon, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, couponListKey).Bytes()
	if err != nil {
		return nil, false
	}
	var coupons []models.Coupon
	if err := json.Unmarshal(raw, &coupons); err != nil {
		return nil, false
	}
	return coupons, true
}

func (c *CouponCache) SetList(ctx context.Context, coupons []models.Coupon) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(coupons)
	if err != nil {
		return
	}
	c.client.Set(ctx, couponListKey, raw, couponListTTL)
}

// Invalidate drops the cached list; called after every coupon write.
func (c *CouponCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, couponListKey)
}
