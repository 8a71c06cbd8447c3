// Package session holds the short-lived server-side state of OAuth
// authorization attempts, keyed by browser session.
package session

import (
	"context"

	"fitsync/config"
	"fitsync/internal/domain/entity"
	"fitsync/internal/domain/repository"

	"github.com/jellydator/ttlcache/v3"
	"go.uber.org/fx"
)

// handshakeStore implements repository.HandshakeStore on an in-memory TTL
// cache. A pending handshake must never outlive one authorization attempt;
// the TTL only cleans up sessions whose participant never returned from
// the provider.
type handshakeStore struct {
	cache *ttlcache.Cache[string, entity.Handshake]
}

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
}

// NewHandshakeStore creates the TTL-backed handshake store and ties its
// expiry loop to the fx lifecycle.
func NewHandshakeStore(params Params) repository.HandshakeStore {
	store := newHandshakeStore(params.Config)

	params.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go store.cache.Start()

			return nil
		},
		OnStop: func(context.Context) error {
			store.cache.Stop()

			return nil
		},
	})

	return store
}

func newHandshakeStore(cfg *config.Config) *handshakeStore {
	return &handshakeStore{
		cache: ttlcache.New(
			ttlcache.WithTTL[string, entity.Handshake](cfg.Session.HandshakeTTL),
			ttlcache.WithDisableTouchOnHit[string, entity.Handshake](),
		),
	}
}

// Put stores the pending handshake for a session, replacing any previous
// pending handshake in that session.
func (s *handshakeStore) Put(sessionID string, handshake entity.Handshake) {
	s.cache.Set(sessionID, handshake, ttlcache.DefaultTTL)
}

// Take removes and returns the session's pending handshake.
func (s *handshakeStore) Take(sessionID string) (entity.Handshake, error) {
	item := s.cache.Get(sessionID)
	if item == nil {
		return entity.Handshake{}, repository.ErrHandshakeNotFound
	}

	s.cache.Delete(sessionID)

	return item.Value(), nil
}

// Clear drops the session's pending handshake, if any.
func (s *handshakeStore) Clear(sessionID string) {
	s.cache.Delete(sessionID)
}
