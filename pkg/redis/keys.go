package redis

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const (
	keyNamespace      = "lf"
	rateLimitPrefix   = "rate_limit"
	sessionPrefix     = "session"
	cartPrefix        = "cart"
	favoritesPrefix   = "favorites"
	exchangeRateKey   = "exchange_rate"
	cronLockPrefix    = "cron_lock"
	idempotencyPrefix = "idem"
	currentRateSuffix = "current"
)

// RateLimitKey returns a namespaced key for rate limit counters.
func (c *Client) RateLimitKey(scope string) string {
	return c.buildKey(rateLimitPrefix, scope)
}

// AccessSessionKey builds a namespaced key for access-token-based sessions.
func (c *Client) AccessSessionKey(accessID string) string {
	return c.buildKey(sessionPrefix, "access", accessID)
}

// CartKey returns the key holding the serialized cart of a shopper session.
func (c *Client) CartKey(sessionID string) string {
	return c.buildKey(cartPrefix, sessionID)
}

// FavoritesKey returns the set key holding favorite product ids of a session.
func (c *Client) FavoritesKey(sessionID string) string {
	return c.buildKey(favoritesPrefix, sessionID)
}

// ExchangeRateKey returns the key caching the current exchange rate.
func (c *Client) ExchangeRateKey() string {
	return c.buildKey(exchangeRateKey, currentRateSuffix)
}

// CronLockKey returns the key guarding a cron worker for env.
func (c *Client) CronLockKey(env string) string {
	return c.buildKey(cronLockPrefix, env)
}

// buildKey joins the non-blank parts under the storefront namespace, e.g.
// lf:cart:<session>.
// IdempotencyKey hashes scope so arbitrary paths and owners stay key-safe.
func (c *Client) IdempotencyKey(scope, key string) string {
	sum := sha256.Sum256([]byte(scope))
	return c.buildKey(idempotencyPrefix, hex.EncodeToString(sum[:8]), key)
}

func (c *Client) buildKey(parts ...string) string {
	var b strings.Builder
	b.WriteString(keyNamespace)
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			b.WriteByte(':')
			b.WriteString(part)
		}
	}
	return b.String()
}
