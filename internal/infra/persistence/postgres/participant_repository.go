// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"fitsync/internal/domain/entity"
	domainerrors "fitsync/internal/domain/errors"
	"fitsync/internal/domain/repository"
	"fitsync/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// participantRepository implements the repository.ParticipantRepository interface using GORM.
type participantRepository struct {
	db *gorm.DB
}

// NewParticipantRepository is the constructor for participantRepository.
func NewParticipantRepository(db *gorm.DB) repository.ParticipantRepository {
	return &participantRepository{
		db: db,
	}
}

// FindByID retrieves a single participant by their stable participant ID.
func (repo *participantRepository) FindByID(ctx context.Context, participantID string) (*entity.Participant, error) {
	var participantM model.ParticipantModel

	if err := repo.db.WithContext(ctx).
		Where("participant_id = ?", participantID).
		First(&participantM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrParticipantNotFound
		}

		return nil, errors.Wrap(err, "failed to find participant by ID")
	}

	return toParticipantDomain(&participantM), nil
}

// FindAll retrieves all participants ordered by enrollment time.
func (repo *participantRepository) FindAll(ctx context.Context) ([]*entity.Participant, error) {
	var participantModels []*model.ParticipantModel

	if err := repo.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&participantModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list participants")
	}

	participants := make([]*entity.Participant, 0, len(participantModels))
	for _, participantM := range participantModels {
		participants = append(participants, toParticipantDomain(participantM))
	}

	return participants, nil
}

// Create persists a new participant entity.
func (repo *participantRepository) Create(ctx context.Context, participant *entity.Participant) error {
	participantM := fromParticipantDomain(participant)

	if err := repo.db.WithContext(ctx).Create(participantM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrParticipantAlreadyExists.WrapMessage("participant ID already exists")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrParticipantCreationFailed.WrapMessage("missing required participant information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create participant")
	}

	participant.CreatedAt = participantM.CreatedAt
	participant.UpdatedAt = participantM.UpdatedAt

	return nil
}

// Update modifies an existing participant entity.
func (repo *participantRepository) Update(ctx context.Context, participant *entity.Participant) error {
	updates := map[string]any{
		"display_name": participant.DisplayName,
		"email":        participant.Email,
		"notes":        participant.Notes,
	}

	result := repo.db.WithContext(ctx).
		Model(&model.ParticipantModel{}).
		Where("participant_id = ?", participant.ParticipantID).
		Updates(updates)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update participant")
	}
	if result.RowsAffected == 0 {
		return repository.ErrParticipantNotFound
	}

	return nil
}

// Delete removes a participant; the credential row goes with it via the
// ON DELETE CASCADE constraint.
func (repo *participantRepository) Delete(ctx context.Context, participantID string) error {
	result := repo.db.WithContext(ctx).
		Where("participant_id = ?", participantID).
		Delete(&model.ParticipantModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete participant")
	}
	if result.RowsAffected == 0 {
		return repository.ErrParticipantNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toParticipantDomain converts a GORM ParticipantModel to a domain Participant entity.
func toParticipantDomain(data *model.ParticipantModel) *entity.Participant {
	if data == nil {
		return nil
	}

	return &entity.Participant{
		ParticipantID: data.ParticipantID,
		DisplayName:   data.DisplayName,
		Email:         data.Email,
		Notes:         data.Notes,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}

// fromParticipantDomain converts a domain Participant entity to a GORM ParticipantModel.
func fromParticipantDomain(data *entity.Participant) *model.ParticipantModel {
	if data == nil {
		return nil
	}

	return &model.ParticipantModel{
		ParticipantID: data.ParticipantID,
		DisplayName:   data.DisplayName,
		Email:         data.Email,
		Notes:         data.Notes,
	}
}
