package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"

	"github.com/homegym/storefront/internal/domain/order"
)

// SnapshotTTL bounds how long a confirmation page can be reloaded after
// checkout.
const SnapshotTTL = 24 * time.Hour

const snapshotKeyPrefix = "storefront:lastorder:v1:"

// SnapshotStore keeps the last placed order per session so the confirmation
// view survives a page reload without hitting PostgreSQL.
type SnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotStore returns a SnapshotStore with the default TTL.
func NewSnapshotStore(client *redis.Client) *SnapshotStore {
	return &SnapshotStore{client: client, ttl: SnapshotTTL}
}

// SaveLast stores the order as the session's most recent checkout.
func (s *SnapshotStore) SaveLast(ctx context.Context, sessionID string, o *order.Order) error {
	data := encodeOrder(o)
	if err := s.client.Set(ctx, snapshotKeyPrefix+sessionID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("saving last order for session %q: %w", sessionID, err)
	}
	return nil
}

// LoadLast returns the session's most recent order, or order.ErrNotFound
// when the session has none or the snapshot expired.
func (s *SnapshotStore) LoadLast(ctx context.Context, sessionID string) (*order.Order, error) {
	data, err := s.client.Get(ctx, snapshotKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, order.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading last order for session %q: %w", sessionID, err)
	}

	o, err := decodeOrder(data)
	if err != nil {
		return nil, fmt.Errorf("decoding last order for session %q: %w", sessionID, err)
	}
	return o, nil
}
