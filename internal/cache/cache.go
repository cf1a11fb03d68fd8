package cache

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrCacheMiss is returned by a Tier when the key has no stored value.
var ErrCacheMiss = errors.New("cache miss")

// Tier is a single key-value persistence backend. Values are opaque bytes;
// callers decide the encoding.
type Tier interface {
	Name() string
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Remove(key string) error
}

// Chained composes tiers into the local cache store. Writes go to every tier
// (secondary tiers are backups, not caches of the primary); reads walk the
// tiers in order and report which one served, so a fallback is observable
// instead of silent.
type Chained struct {
	tiers []Tier
	log   *zap.Logger
}

// NewChained creates a Chained cache. Tier order is read-preference order.
func NewChained(log *zap.Logger, tiers ...Tier) *Chained {
	if log == nil {
		log = zap.NewNop()
	}
	return &Chained{tiers: tiers, log: log}
}

// Get reads key from the first tier that has it, returning the serving tier's
// name. Tier failures are logged and the next tier is tried; ErrCacheMiss is
// returned only when every tier misses or fails.
func (c *Chained) Get(key string) ([]byte, string, error) {
	for i, tier := range c.tiers {
		value, err := tier.Get(key)
		if err == nil {
			if i > 0 {
				c.log.Warn("cache read fell back to secondary tier",
					zap.String("key", key), zap.String("tier", tier.Name()))
			}
			return value, tier.Name(), nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			c.log.Warn("cache tier read failed",
				zap.String("key", key), zap.String("tier", tier.Name()), zap.Error(err))
		}
	}
	return nil, "", ErrCacheMiss
}

// Set writes key to every tier. It succeeds if at least one tier accepted the
// write; per-tier failures are logged.
func (c *Chained) Set(key string, value []byte) error {
	var wrote bool
	for _, tier := range c.tiers {
		if err := tier.Set(key, value); err != nil {
			c.log.Warn("cache tier write failed",
				zap.String("key", key), zap.String("tier", tier.Name()), zap.Error(err))
			continue
		}
		wrote = true
	}
	if !wrote {
		return fmt.Errorf("all cache tiers rejected write for key %s", key)
	}
	return nil
}

// Remove deletes key from every tier. Failures are logged, not returned; a
// missing key is not an error.
func (c *Chained) Remove(key string) {
	for _, tier := range c.tiers {
		if err := tier.Remove(key); err != nil && !errors.Is(err, ErrCacheMiss) {
			c.log.Warn("cache tier remove failed",
				zap.String("key", key), zap.String("tier", tier.Name()), zap.Error(err))
		}
	}
}

// RemoveMany deletes every key from every tier.
func (c *Chained) RemoveMany(keys []string) {
	for _, key := range keys {
		c.Remove(key)
	}
}

// GetJSON reads key and unmarshals it into v, returning the serving tier.
func (c *Chained) GetJSON(key string, v any) (string, error) {
	data, tier, err := c.Get(key)
	if err != nil {
		return "", err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return "", fmt.Errorf("failed to decode cached value for key %s: %w", key, err)
	}
	return tier, nil
}

// SetJSON marshals v and writes it to key.
func (c *Chained) SetJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode value for key %s: %w", key, err)
	}
	return c.Set(key, data)
}
