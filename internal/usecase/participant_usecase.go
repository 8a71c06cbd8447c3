// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"fitsync/internal/domain/entity"
)

// CreateParticipantInput carries the operator-provided enrollment fields.
type CreateParticipantInput struct {
	ParticipantID string `json:"participant_id" validate:"required,max=64"`
	DisplayName   string `json:"display_name" validate:"max=100"`
	Email         string `json:"email" validate:"omitempty,email"`
	Notes         string `json:"notes"`
}

// UpdateParticipantInput carries the mutable participant fields.
type UpdateParticipantInput struct {
	DisplayName string `json:"display_name" validate:"max=100"`
	Email       string `json:"email" validate:"omitempty,email"`
	Notes       string `json:"notes"`
}

// ParticipantInfo is a participant together with their connection state.
type ParticipantInfo struct {
	*entity.Participant
	Connected bool `json:"connected"`
}

// ParticipantUsecase defines the registry operations over participants.
type ParticipantUsecase interface {
	Create(ctx context.Context, input *CreateParticipantInput) (*entity.Participant, error)
	Get(ctx context.Context, participantID string) (*ParticipantInfo, error)
	List(ctx context.Context) ([]*ParticipantInfo, error)
	Update(ctx context.Context, participantID string, input *UpdateParticipantInput) (*entity.Participant, error)
	Delete(ctx context.Context, participantID string) error
}
