// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"errors"

	"fitsync/internal/domain/entity"
)

// ErrHandshakeNotFound is returned when a session has no pending handshake.
var ErrHandshakeNotFound = errors.New("no pending handshake for session")

// HandshakeStore holds the short-lived pending OAuth handshakes, keyed by
// browser session. A session has at most one pending handshake: Put
// replaces any previous one, Take consumes it. Entries expire on their own
// if the participant never returns from the provider.
type HandshakeStore interface {
	// Put stores the pending handshake for a session, replacing any
	// previous pending handshake in that session.
	Put(sessionID string, handshake entity.Handshake)

	// Take removes and returns the session's pending handshake.
	// Returns ErrHandshakeNotFound if none is pending.
	Take(sessionID string) (entity.Handshake, error)

	// Clear drops the session's pending handshake, if any.
	Clear(sessionID string)
}
