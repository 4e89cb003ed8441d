// Package cache keeps computed KPI payloads in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/Izaque674/SmartLOG-sub000/internal/models"
)

const keyPrefix = "smartlog:kpi"

// Cache wraps Redis with per-owner versioned keys. A nil *Cache, or one without a client,
// always calls the loader.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Connect opens a client for addr and pings it.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func (c *Cache) enabled() bool {
	return c != nil && c.client != nil
}

func versionKey(ownerID string) string {
	return keyPrefix + ":version:" + ownerID
}

// Version returns the owner's current cache version, 0 when never bumped.
func (c *Cache) Version(ctx context.Context, ownerID string) (int64, error) {
	if !c.enabled() {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, versionKey(ownerID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return ver, err
}

// KPIKey composes the key of an owner's KPI for one day.
func (c *Cache) KPIKey(ctx context.Context, ownerID, day string) (string, error) {
	ver, err := c.Version(ctx, ownerID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%s:%s:%d", keyPrefix, ownerID, day, ver), nil
}

// FetchJSON loads a cached value or populates it using the loader. Redis failures are
// logged and the loader result is returned uncached. A payload that no longer decodes is
// treated as a miss and overwritten.
func (c *Cache) FetchJSON(ctx context.Context, key string, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	if loader == nil {
		return errors.New("cache: loader required")
	}
	if c.enabled() {
		payload, err := c.client.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			err = json.Unmarshal(payload, dest)
			if err == nil {
				return nil
			}
			log.WithError(err).WithField("key", key).Warn("Cache payload corrupt")
		case !errors.Is(err, redis.Nil):
			log.WithError(err).WithField("key", key).Warn("Cache read failed")
		}
	}

	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if c.enabled() {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			log.WithError(err).WithField("key", key).Warn("Cache write failed")
		}
	}
	return json.Unmarshal(raw, dest)
}

// Invalidate bumps the owner's version so every cached KPI of the owner misses.
func (c *Cache) Invalidate(ctx context.Context, ownerID string) error {
	if !c.enabled() {
		return nil
	}
	return c.client.Incr(ctx, versionKey(ownerID)).Err()
}

// Publish invalidates the owner's KPIs whenever a delivery changes. It lets the cache sit
// next to the other event sinks.
func (c *Cache) Publish(ctx context.Context, event models.Event) {
	if event.Type != models.EventDeliveryCreated && event.Type != models.EventDeliveryUpdated {
		return
	}
	if err := c.Invalidate(ctx, event.OwnerID); err != nil {
		log.WithError(err).WithField("owner_id", event.OwnerID).Warn("Failed to invalidate KPI cache")
	}
}
