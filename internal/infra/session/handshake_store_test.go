package session

import (
	"testing"
	"time"

	"fitsync/config"
	"fitsync/internal/domain/entity"
	"fitsync/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestStore(t *testing.T, ttl time.Duration) *handshakeStore {
	cfg := &config.Config{Session: &config.SessionConfig{HandshakeTTL: ttl}}
	store := newHandshakeStore(cfg)

	go store.cache.Start()
	t.Cleanup(store.cache.Stop)

	return store
}

func TestHandshakeStore_TakeConsumes(t *testing.T) {
	store := createTestStore(t, time.Minute)

	store.Put("session-a", entity.Handshake{State: "s1", ParticipantID: "p001"})

	handshake, err := store.Take("session-a")
	require.NoError(t, err)
	assert.Equal(t, "s1", handshake.State)
	assert.Equal(t, "p001", handshake.ParticipantID)

	// Single use: a replayed callback finds nothing.
	_, err = store.Take("session-a")
	assert.ErrorIs(t, err, repository.ErrHandshakeNotFound)
}

func TestHandshakeStore_PutReplacesPending(t *testing.T) {
	store := createTestStore(t, time.Minute)

	store.Put("session-a", entity.Handshake{State: "first", ParticipantID: "p001"})
	store.Put("session-a", entity.Handshake{State: "second", ParticipantID: "p002"})

	handshake, err := store.Take("session-a")
	require.NoError(t, err)
	assert.Equal(t, "second", handshake.State)
	assert.Equal(t, "p002", handshake.ParticipantID)
}

func TestHandshakeStore_SessionsAreIsolated(t *testing.T) {
	store := createTestStore(t, time.Minute)

	store.Put("session-a", entity.Handshake{State: "sa", ParticipantID: "p001"})
	store.Put("session-b", entity.Handshake{State: "sb", ParticipantID: "p002"})

	handshake, err := store.Take("session-b")
	require.NoError(t, err)
	assert.Equal(t, "sa", mustTake(t, store, "session-a").State)
	assert.Equal(t, "sb", handshake.State)
}

func TestHandshakeStore_EntriesExpire(t *testing.T) {
	store := createTestStore(t, 20*time.Millisecond)

	store.Put("session-a", entity.Handshake{State: "s1", ParticipantID: "p001"})

	assert.Eventually(t, func() bool {
		_, err := store.Take("session-a")

		return err != nil
	}, time.Second, 10*time.Millisecond)
}

func TestHandshakeStore_Clear(t *testing.T) {
	store := createTestStore(t, time.Minute)

	store.Put("session-a", entity.Handshake{State: "s1", ParticipantID: "p001"})
	store.Clear("session-a")

	_, err := store.Take("session-a")
	assert.ErrorIs(t, err, repository.ErrHandshakeNotFound)

	// Clearing an empty session is a no-op.
	store.Clear("session-a")
}

func mustTake(t *testing.T, store *handshakeStore, sessionID string) entity.Handshake {
	t.Helper()

	handshake, err := store.Take(sessionID)
	require.NoError(t, err)

	return handshake
}
