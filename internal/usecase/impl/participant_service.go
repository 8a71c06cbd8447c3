// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "fitsync/internal/delivery/context"
	"fitsync/internal/domain/entity"
	domainerrors "fitsync/internal/domain/errors"
	"fitsync/internal/domain/repository"
	"fitsync/internal/usecase"

	"github.com/pkg/errors"
)

// participantService implements the ParticipantUsecase interface.
type participantService struct {
	participants repository.ParticipantRepository
	credentials  repository.CredentialRepository
	logger       *slog.Logger
}

// NewParticipantService is the constructor for participantService.
func NewParticipantService(
	participants repository.ParticipantRepository,
	credentials repository.CredentialRepository,
	logger *slog.Logger,
) usecase.ParticipantUsecase {
	return &participantService{
		participants: participants,
		credentials:  credentials,
		logger:       logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *participantService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Create enrolls a new participant.
func (srv *participantService) Create(ctx context.Context, input *usecase.CreateParticipantInput) (*entity.Participant, error) {
	srv.log(ctx).Info("Creating participant", slog.String("participant_id", input.ParticipantID))

	participant := &entity.Participant{
		ParticipantID: input.ParticipantID,
		DisplayName:   input.DisplayName,
		Email:         input.Email,
		Notes:         input.Notes,
	}

	if err := srv.participants.Create(ctx, participant); err != nil {
		return nil, errors.Wrap(err, "failed to create participant")
	}

	return participant, nil
}

// Get retrieves one participant together with their connection state.
func (srv *participantService) Get(ctx context.Context, participantID string) (*usecase.ParticipantInfo, error) {
	participant, err := srv.participants.FindByID(ctx, participantID)
	if err != nil {
		if errors.Is(err, repository.ErrParticipantNotFound) {
			return nil, errors.Wrap(domainerrors.ErrParticipantNotFound, participantID)
		}

		return nil, errors.Wrap(err, "failed to find participant")
	}

	return &usecase.ParticipantInfo{
		Participant: participant,
		Connected:   srv.isConnected(ctx, participantID),
	}, nil
}

// List retrieves all participants with their connection state.
func (srv *participantService) List(ctx context.Context) ([]*usecase.ParticipantInfo, error) {
	participants, err := srv.participants.FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list participants")
	}

	infos := make([]*usecase.ParticipantInfo, 0, len(participants))
	for _, participant := range participants {
		infos = append(infos, &usecase.ParticipantInfo{
			Participant: participant,
			Connected:   srv.isConnected(ctx, participant.ParticipantID),
		})
	}

	return infos, nil
}

// Update modifies the mutable fields of a participant.
func (srv *participantService) Update(ctx context.Context, participantID string, input *usecase.UpdateParticipantInput) (*entity.Participant, error) {
	srv.log(ctx).Info("Updating participant", slog.String("participant_id", participantID))

	participant := &entity.Participant{
		ParticipantID: participantID,
		DisplayName:   input.DisplayName,
		Email:         input.Email,
		Notes:         input.Notes,
	}

	if err := srv.participants.Update(ctx, participant); err != nil {
		if errors.Is(err, repository.ErrParticipantNotFound) {
			return nil, errors.Wrap(domainerrors.ErrParticipantNotFound, participantID)
		}

		return nil, errors.Wrap(err, "failed to update participant")
	}

	return srv.participants.FindByID(ctx, participantID)
}

// Delete removes a participant; their credential is removed by the
// storage-layer cascade. Artifact files on disk are kept.
func (srv *participantService) Delete(ctx context.Context, participantID string) error {
	srv.log(ctx).Info("Deleting participant", slog.String("participant_id", participantID))

	if err := srv.participants.Delete(ctx, participantID); err != nil {
		if errors.Is(err, repository.ErrParticipantNotFound) {
			return errors.Wrap(domainerrors.ErrParticipantNotFound, participantID)
		}

		return errors.Wrap(err, "failed to delete participant")
	}

	return nil
}

func (srv *participantService) isConnected(ctx context.Context, participantID string) bool {
	_, err := srv.credentials.FindByParticipantID(ctx, participantID)

	return err == nil
}
