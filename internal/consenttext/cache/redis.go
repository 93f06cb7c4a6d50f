// Package cache provides an optional Redis read-through cache for the latest
// consent text. Correctness never depends on it: cache failures fall back to
// the underlying store.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"consentd/internal/consenttext"
)

const latestKeyPrefix = "consenttext:latest:"

// LatestCache wraps a consenttext.Store and caches Latest per language.
// Create invalidates the language's key so a new version becomes visible
// immediately.
type LatestCache struct {
	inner  consenttext.Store
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewLatestCache(inner consenttext.Store, client *redis.Client, ttl time.Duration, logger *slog.Logger) *LatestCache {
	return &LatestCache{inner: inner, client: client, ttl: ttl, logger: logger}
}

func (c *LatestCache) Create(ctx context.Context, text *consenttext.ConsentText) error {
	if err := c.inner.Create(ctx, text); err != nil {
		return err
	}
	if err := c.client.Del(ctx, latestKeyPrefix+text.Language).Err(); err != nil {
		c.logger.WarnContext(ctx, "failed to invalidate latest-text cache",
			"language", text.Language,
			"error", err.Error(),
		)
	}
	return nil
}

func (c *LatestCache) Latest(ctx context.Context, language string) (*consenttext.ConsentText, error) {
	key := latestKeyPrefix + language

	raw, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var text consenttext.ConsentText
		if err := json.Unmarshal(raw, &text); err == nil {
			return &text, nil
		}
		// Unreadable entry: drop it and fall through to the store.
		_ = c.client.Del(ctx, key).Err()
	} else if !errors.Is(err, redis.Nil) {
		c.logger.WarnContext(ctx, "latest-text cache read failed",
			"language", language,
			"error", err.Error(),
		)
	}

	text, err := c.inner.Latest(ctx, language)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(text); err == nil {
		if err := c.client.Set(ctx, key, encoded, c.ttl).Err(); err != nil {
			c.logger.WarnContext(ctx, "latest-text cache write failed",
				"language", language,
				"error", err.Error(),
			)
		}
	}
	return text, nil
}

func (c *LatestCache) ListAll(ctx context.Context) ([]*consenttext.ConsentText, error) {
	return c.inner.ListAll(ctx)
}
