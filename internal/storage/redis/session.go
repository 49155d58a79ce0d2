package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"

	"github.com/homegym/storefront/internal/domain/cart"
)

// SessionTTL is how long an idle session survives. Every save refreshes it.
const SessionTTL = 30 * 24 * time.Hour

const sessionKeyPrefix = "storefront:session:v1:"

var _ cart.Store = (*SessionStore)(nil)

// SessionStore implements cart.Store on Redis. The whole session is written
// as a single document per save, so concurrent writers follow last write
// wins, which matches one shopper driving one session.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore returns a SessionStore with the default TTL.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client, ttl: SessionTTL}
}

// Load returns the stored session, or a fresh empty one when the ID is
// unknown or the stored document has an incompatible schema version.
func (s *SessionStore) Load(ctx context.Context, sessionID string) (*cart.Session, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return cart.NewSession(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading session %q: %w", sessionID, err)
	}

	sess, err := decodeSession(data)
	if err != nil {
		return nil, fmt.Errorf("decoding session %q: %w", sessionID, err)
	}
	if sess.Version != cart.SchemaVersion {
		return cart.NewSession(), nil
	}
	return sess, nil
}

// Save persists the full session document and refreshes its TTL.
func (s *SessionStore) Save(ctx context.Context, sessionID string, sess *cart.Session) error {
	data := encodeSession(sess)
	if err := s.client.Set(ctx, sessionKeyPrefix+sessionID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("saving session %q: %w", sessionID, err)
	}
	return nil
}
