// internal/settings/cached.go
package settings

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"agency-notify/internal/common/logger"
	"agency-notify/internal/models"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "appsetting:"

// CachedProvider reads app settings from Postgres through a Redis
// read-through cache. Writes go through SetBulk, which invalidates the
// cache before the next read.
type CachedProvider struct {
	db     *sql.DB
	cache  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedProvider(db *sql.DB, cache *redis.Client, ttl time.Duration, log logger.Logger) *CachedProvider {
	return &CachedProvider{
		db:     db,
		cache:  cache,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "settings"}),
	}
}

func cacheKey(category, key string) string {
	return cacheKeyPrefix + category + ":" + key
}

// GetString resolves a setting value, or def when the setting is absent,
// inactive, or the lookup fails. Lookup failures are logged, never raised.
func (p *CachedProvider) GetString(ctx context.Context, category, key, def string) string {
	ck := cacheKey(category, key)

	if p.cache != nil {
		if val, err := p.cache.Get(ctx, ck).Result(); err == nil {
			return val
		} else if err != redis.Nil {
			p.logger.Warn("settings cache read failed", map[string]interface{}{
				"key":   ck,
				"error": err.Error(),
			})
		}
	}

	var value string
	err := p.db.QueryRowContext(ctx,
		`SELECT value FROM app_settings WHERE category = $1 AND key = $2 AND is_active = true`,
		category, key,
	).Scan(&value)
	if err != nil {
		if err != sql.ErrNoRows {
			p.logger.Warn("settings lookup failed", map[string]interface{}{
				"category": category,
				"key":      key,
				"error":    err.Error(),
			})
		}
		return def
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, ck, value, p.ttl).Err(); err != nil {
			p.logger.Warn("settings cache write failed", map[string]interface{}{
				"key":   ck,
				"error": err.Error(),
			})
		}
	}

	return value
}

// GetBool resolves a toggle setting.
func (p *CachedProvider) GetBool(ctx context.Context, category, key string, def bool) bool {
	sentinel := "\x00unset"
	raw := p.GetString(ctx, category, key, sentinel)
	if raw == sentinel {
		return def
	}
	return parseBool(raw, def)
}

// SetBulk upserts settings and clears the cache so the next read sees
// the new values.
func (p *CachedProvider) SetBulk(ctx context.Context, items []models.AppSetting) error {
	for _, item := range items {
		_, err := p.db.ExecContext(ctx,
			`INSERT INTO app_settings (category, key, value, is_active)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (category, key)
			 DO UPDATE SET value = EXCLUDED.value, is_active = EXCLUDED.is_active`,
			item.Category, item.Key, item.Value, item.IsActive,
		)
		if err != nil {
			return fmt.Errorf("upsert setting %s/%s: %w", item.Category, item.Key, err)
		}
	}
	return p.Invalidate(ctx)
}

// Invalidate drops every cached setting.
func (p *CachedProvider) Invalidate(ctx context.Context) error {
	if p.cache == nil {
		return nil
	}

	var cursor uint64
	for {
		keys, next, err := p.cache.Scan(ctx, cursor, cacheKeyPrefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("scan settings cache: %w", err)
		}
		if len(keys) > 0 {
			if err := p.cache.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("clear settings cache: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
