// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"fitsync/internal/domain/entity"
)

// ErrParticipantNotFound is a domain-specific error returned when a participant is not found.
var ErrParticipantNotFound = errors.New("participant not found")

// ParticipantRepository defines the standard operations for participant persistence.
// The application layer will depend on this interface, not the concrete implementation.
type ParticipantRepository interface {
	// FindByID retrieves a single participant by their stable participant ID.
	FindByID(ctx context.Context, participantID string) (*entity.Participant, error)

	// FindAll retrieves all participants ordered by enrollment time.
	FindAll(ctx context.Context) ([]*entity.Participant, error)

	// Create persists a new participant entity to the storage.
	Create(ctx context.Context, participant *entity.Participant) error

	// Update modifies an existing participant entity in the storage.
	Update(ctx context.Context, participant *entity.Participant) error

	// Delete removes a participant. The stored credential, if any, is
	// removed with it via the foreign-key cascade.
	Delete(ctx context.Context, participantID string) error
}
