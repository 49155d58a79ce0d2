// Package redis persists per-shopper session state and last-order snapshots
// in Redis. Each session is one JSON document under a versioned key, so a
// layout change can bump the key prefix without migrating old data.
package redis

import (
	"github.com/redis/go-redis/v9"
)

// NewClient creates a go-redis client for the given address.
func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}
