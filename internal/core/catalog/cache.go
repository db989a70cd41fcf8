// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/mangaverse/internal/platform/constants"
)

// # Read Cache

// Cache stores serialised catalog reads. Failures never surface to callers;
// a cache error behaves like a miss.
type Cache interface {
	GetManga(context context.Context, id string) (*Manga, bool)
	SetManga(context context.Context, manga *Manga)
	GetFeed(context context.Context, key string, target any) bool
	SetFeed(context context.Context, key string, value any)

	// InvalidateManga evicts one manga and every feed.
	InvalidateManga(context context.Context, id string)
}

// NopCache disables caching.
type NopCache struct{}

func (NopCache) GetManga(context.Context, string) (*Manga, bool) { return nil, false }
func (NopCache) SetManga(context.Context, *Manga)                {}
func (NopCache) GetFeed(context.Context, string, any) bool       { return false }
func (NopCache) SetFeed(context.Context, string, any)            {}
func (NopCache) InvalidateManga(context.Context, string)         {}

// RedisCache implements [Cache] with JSON values under the catalog key prefixes.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisCache constructs a [RedisCache].
func NewRedisCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

// GetManga returns a cached manga.
func (cache *RedisCache) GetManga(context context.Context, id string) (*Manga, bool) {
	var manga Manga
	if !cache.get(context, constants.RedisPrefixManga+id, &manga) {
		return nil, false
	}
	return &manga, true
}

// SetManga caches a manga under its ID.
func (cache *RedisCache) SetManga(context context.Context, manga *Manga) {
	cache.set(context, constants.RedisPrefixManga+manga.ID, manga)
}

// GetFeed decodes a cached feed into target.
func (cache *RedisCache) GetFeed(context context.Context, key string, target any) bool {
	return cache.get(context, constants.RedisPrefixFeed+key, target)
}

// SetFeed caches a feed result.
func (cache *RedisCache) SetFeed(context context.Context, key string, value any) {
	cache.set(context, constants.RedisPrefixFeed+key, value)
}

/*
InvalidateManga evicts a manga entry and all feed entries.

Description: Feeds are few and short-lived, so they are dropped wholesale
with a SCAN over the feed prefix rather than tracked per manga.
*/
func (cache *RedisCache) InvalidateManga(context context.Context, id string) {
	keys := []string{constants.RedisPrefixManga + id}

	iterator := cache.client.Scan(context, 0, constants.RedisPrefixFeed+"*", 100).Iterator()
	for iterator.Next(context) {
		keys = append(keys, iterator.Val())
	}

	if err := iterator.Err(); err != nil {
		cache.logger.Warn("catalog_cache_scan_failed", slog.String("error", err.Error()))
	}

	if err := cache.client.Del(context, keys...).Err(); err != nil {
		cache.logger.Warn("catalog_cache_invalidate_failed",
			slog.String("manga_id", id),
			slog.String("error", err.Error()),
		)
	}
}

func (cache *RedisCache) get(context context.Context, key string, target any) bool {
	payload, err := cache.client.Get(context, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			cache.logger.Warn("catalog_cache_get_failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		return false
	}

	if err := json.Unmarshal(payload, target); err != nil {
		cache.logger.Warn("catalog_cache_decode_failed", slog.String("key", key), slog.String("error", err.Error()))
		return false
	}

	return true
}

func (cache *RedisCache) set(context context.Context, key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		cache.logger.Warn("catalog_cache_encode_failed", slog.String("key", key), slog.String("error", err.Error()))
		return
	}

	if err := cache.client.Set(context, key, payload, cache.ttl).Err(); err != nil {
		cache.logger.Warn("catalog_cache_set_failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}
