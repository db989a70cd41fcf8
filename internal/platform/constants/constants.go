// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package constants gathers the tunables shared across layers: server timing,
// rate limits, header names, cache key prefixes and discovery feed sizes.
package constants

import "time"

// # Metadata

const (
	AppName    = "mangaverse-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout bounds how long in-flight requests may run after SIGTERM.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "mangaverse.app"

	// HeaderAuthorization carries the bearer access token.
	HeaderAuthorization = "Authorization"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderOrigin        = "Origin"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderRetryAfter    = "Retry-After"
)

// # JSON Field Identifiers

const (
	// FieldItems and FieldTotal name the keys of unpaginated list payloads.
	FieldItems = "items"
	FieldTotal = "total"
)

// # Catalog Feeds

const (
	// PopularFeedSize is the number of manga returned by the popular feed.
	PopularFeedSize = 10

	// LatestUpdatesFeedSize is the number of manga returned by the latest-updates feed.
	LatestUpdatesFeedSize = 20

	// NewReleaseWindow bounds how recently a manga must have been published to be "new".
	NewReleaseWindow = 7 * 24 * time.Hour

	// NewReleasesFeedSize is the number of manga returned by the new-releases feed.
	NewReleasesFeedSize = 10

	// SearchResultLimit caps the title search.
	SearchResultLimit = 10

	// MostReadChaptersSize is the number of chapters in the most-read feed.
	MostReadChaptersSize = 10

	// RecentChaptersSize is the number of chapters in the recently-added feed.
	RecentChaptersSize = 20

	// RecommendationLimit caps the personalized recommendation list.
	RecommendationLimit = 10

	// RecommendationTopGenres is how many of the reader's most frequent genres seed recommendations.
	RecommendationTopGenres = 3
)

// # Redis Prefixes

const (
	// RedisPrefixManga keys cached manga detail by ID and slug.
	// RedisPrefixFeed keys cached discovery feeds.
	RedisPrefixManga = "catalog:manga:"
	RedisPrefixFeed  = "catalog:feed:"
)
