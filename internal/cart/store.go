package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/loyafu/storefront-backend/pkg/errors"
	"github.com/loyafu/storefront-backend/pkg/redis"
)

type sessionCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

// SessionStore keeps one serialized cart per session in Redis. Every save
// pushes the expiry forward by ttl.
type SessionStore struct {
	cache sessionCache
	ttl   time.Duration
}

func NewSessionStore(cache sessionCache, ttl time.Duration) (*SessionStore, error) {
	if cache == nil {
		return nil, fmt.Errorf("cart session cache required")
	}
	return &SessionStore{cache: cache, ttl: ttl}, nil
}

// Load returns the stored cart or a fresh one when the session has none.
func (s *SessionStore) Load(ctx context.Context, sessionID string) (*State, error) {
	raw, err := s.cache.Get(ctx, s.cache.CartKey(sessionID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return NewState(), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart session")
	}
	state := NewState()
	if err := json.Unmarshal([]byte(raw), state); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode cart session")
	}
	return state, nil
}

func (s *SessionStore) Save(ctx context.Context, sessionID string, state *State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart session")
	}
	if err := s.cache.Set(ctx, s.cache.CartKey(sessionID), string(payload), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart session")
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.cache.Del(ctx, s.cache.CartKey(sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart session")
	}
	return nil
}
