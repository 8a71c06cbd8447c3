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
	"gorm.io/gorm/clause"
)

// credentialRepository implements the repository.CredentialRepository interface using GORM.
type credentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository is the constructor for credentialRepository.
func NewCredentialRepository(db *gorm.DB) repository.CredentialRepository {
	return &credentialRepository{
		db: db,
	}
}

// FindByParticipantID retrieves the stored credential for a participant.
func (repo *credentialRepository) FindByParticipantID(ctx context.Context, participantID string) (*entity.Credential, error) {
	var credentialM model.CredentialModel

	if err := repo.db.WithContext(ctx).
		Where("participant_id = ?", participantID).
		First(&credentialM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCredentialNotFound
		}

		return nil, errors.Wrap(err, "failed to find credential by participant ID")
	}

	return toCredentialDomain(&credentialM), nil
}

// Upsert inserts the credential or overwrites the token fields of the
// existing row. A fresh authorization and a mid-sync token refresh both
// land here; the single-row upsert is serialized by the database.
func (repo *credentialRepository) Upsert(ctx context.Context, credential *entity.Credential) error {
	credentialM := fromCredentialDomain(credential)

	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "participant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"provider_user_id",
				"access_token",
				"refresh_token",
				"expires_at",
				"scope",
				"token_type",
				"updated_at",
			}),
		}).
		Create(credentialM).Error
	if err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrParticipantNotFound
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "missing required credential fields")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to upsert credential")
	}

	credential.UpdatedAt = credentialM.UpdatedAt

	return nil
}

// DeleteByParticipantID removes the credential for a participant.
func (repo *credentialRepository) DeleteByParticipantID(ctx context.Context, participantID string) error {
	result := repo.db.WithContext(ctx).
		Where("participant_id = ?", participantID).
		Delete(&model.CredentialModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete credential")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCredentialNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toCredentialDomain converts a GORM CredentialModel to a domain Credential entity.
func toCredentialDomain(data *model.CredentialModel) *entity.Credential {
	if data == nil {
		return nil
	}

	return &entity.Credential{
		ParticipantID:  data.ParticipantID,
		ProviderUserID: data.ProviderUserID,
		AccessToken:    data.AccessToken,
		RefreshToken:   data.RefreshToken,
		ExpiresAt:      data.ExpiresAt,
		Scope:          data.Scope,
		TokenType:      data.TokenType,
		UpdatedAt:      data.UpdatedAt,
	}
}

// fromCredentialDomain converts a domain Credential entity to a GORM CredentialModel.
func fromCredentialDomain(data *entity.Credential) *model.CredentialModel {
	if data == nil {
		return nil
	}

	return &model.CredentialModel{
		ParticipantID:  data.ParticipantID,
		ProviderUserID: data.ProviderUserID,
		AccessToken:    data.AccessToken,
		RefreshToken:   data.RefreshToken,
		ExpiresAt:      data.ExpiresAt,
		Scope:          data.Scope,
		TokenType:      data.TokenType,
	}
}
