package impl

import (
	"context"
	"log/slog"
	"testing"

	"fitsync/internal/domain/entity"
	"fitsync/internal/domain/repository"
	mockRepo "fitsync/internal/mocks/repository"
	"fitsync/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// participantServiceFixtures holds all test dependencies for registry service tests.
type participantServiceFixtures struct {
	service         usecase.ParticipantUsecase
	participantRepo *mockRepo.MockParticipantRepository
	credentialRepo  *mockRepo.MockCredentialRepository
}

func createTestParticipantService(t *testing.T) participantServiceFixtures {
	participantRepo := mockRepo.NewMockParticipantRepository(t)
	credentialRepo := mockRepo.NewMockCredentialRepository(t)
	svc := NewParticipantService(participantRepo, credentialRepo, slog.Default())

	return participantServiceFixtures{
		service:         svc,
		participantRepo: participantRepo,
		credentialRepo:  credentialRepo,
	}
}

func TestParticipantService_Create(t *testing.T) {
	fx := createTestParticipantService(t)
	ctx := context.Background()

	fx.participantRepo.On("Create", ctx, mock.AnythingOfType("*entity.Participant")).
		Return(nil)

	participant, err := fx.service.Create(ctx, &usecase.CreateParticipantInput{
		ParticipantID: "p001",
		DisplayName:   "Ada",
		Email:         "ada@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "p001", participant.ParticipantID)
	assert.Equal(t, "Ada", participant.DisplayName)
}

func TestParticipantService_Get_ReportsConnectionState(t *testing.T) {
	fx := createTestParticipantService(t)
	ctx := context.Background()

	fx.participantRepo.On("FindByID", ctx, "p001").
		Return(&entity.Participant{ParticipantID: "p001"}, nil)
	fx.credentialRepo.On("FindByParticipantID", ctx, "p001").
		Return(&entity.Credential{ParticipantID: "p001"}, nil)

	info, err := fx.service.Get(ctx, "p001")
	require.NoError(t, err)
	assert.True(t, info.Connected)
}

func TestParticipantService_Get_NotFound(t *testing.T) {
	fx := createTestParticipantService(t)
	ctx := context.Background()

	fx.participantRepo.On("FindByID", ctx, "ghost").
		Return(nil, repository.ErrParticipantNotFound)

	_, err := fx.service.Get(ctx, "ghost")
	assertErrorCode(t, err, "PARTICIPANT_NOT_FOUND")
}

func TestParticipantService_List(t *testing.T) {
	fx := createTestParticipantService(t)
	ctx := context.Background()

	fx.participantRepo.On("FindAll", ctx).
		Return([]*entity.Participant{
			{ParticipantID: "p001"},
			{ParticipantID: "p002"},
		}, nil)
	fx.credentialRepo.On("FindByParticipantID", ctx, "p001").
		Return(&entity.Credential{ParticipantID: "p001"}, nil)
	fx.credentialRepo.On("FindByParticipantID", ctx, "p002").
		Return(nil, repository.ErrCredentialNotFound)

	infos, err := fx.service.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.True(t, infos[0].Connected)
	assert.False(t, infos[1].Connected)
}

func TestParticipantService_Delete_NotFound(t *testing.T) {
	fx := createTestParticipantService(t)
	ctx := context.Background()

	fx.participantRepo.On("Delete", ctx, "ghost").
		Return(repository.ErrParticipantNotFound)

	err := fx.service.Delete(ctx, "ghost")
	assertErrorCode(t, err, "PARTICIPANT_NOT_FOUND")
}
