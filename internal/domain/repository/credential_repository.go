// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"fitsync/internal/domain/entity"
)

// ErrCredentialNotFound is returned when no credential is stored for a participant.
var ErrCredentialNotFound = errors.New("credential not found")

// CredentialRepository defines the operations for OAuth credential persistence.
// A participant has at most one credential; writes are upserts so a token
// refresh during a sync and a fresh authorization follow the same path.
type CredentialRepository interface {
	// FindByParticipantID retrieves the stored credential for a participant.
	FindByParticipantID(ctx context.Context, participantID string) (*entity.Credential, error)

	// Upsert inserts the credential or, when one already exists for the
	// participant, overwrites its token fields in place.
	Upsert(ctx context.Context, credential *entity.Credential) error

	// DeleteByParticipantID removes the credential for a participant,
	// disconnecting their Fitbit account. Returns ErrCredentialNotFound
	// when nothing was stored.
	DeleteByParticipantID(ctx context.Context, participantID string) error
}
