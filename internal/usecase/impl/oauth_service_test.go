package impl

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"fitsync/internal/domain/entity"
	domainerrors "fitsync/internal/domain/errors"
	"fitsync/internal/domain/repository"
	"fitsync/internal/domain/service"
	mockRepo "fitsync/internal/mocks/repository"
	mockService "fitsync/internal/mocks/service"
	"fitsync/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// oauthServiceFixtures holds all test dependencies for OAuth coordinator tests.
type oauthServiceFixtures struct {
	service         usecase.OAuthUsecase
	participantRepo *mockRepo.MockParticipantRepository
	credentialRepo  *mockRepo.MockCredentialRepository
	handshakes      *mockRepo.MockHandshakeStore
	provider        *mockService.MockFitnessProvider
}

func createTestOAuthService(t *testing.T) oauthServiceFixtures {
	participantRepo := mockRepo.NewMockParticipantRepository(t)
	credentialRepo := mockRepo.NewMockCredentialRepository(t)
	handshakes := mockRepo.NewMockHandshakeStore(t)
	provider := mockService.NewMockFitnessProvider(t)
	svc := NewOAuthService(participantRepo, credentialRepo, handshakes, provider, slog.Default())

	return oauthServiceFixtures{
		service:         svc,
		participantRepo: participantRepo,
		credentialRepo:  credentialRepo,
		handshakes:      handshakes,
		provider:        provider,
	}
}

func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.ErrorCode())
}

func TestOAuthService_Begin_StoresHandshakeBoundToParticipant(t *testing.T) {
	fx := createTestOAuthService(t)
	ctx := context.Background()

	fx.participantRepo.On("FindByID", ctx, "p001").
		Return(&entity.Participant{ParticipantID: "p001"}, nil)

	var stored entity.Handshake
	fx.handshakes.On("Put", "session-a", mock.AnythingOfType("entity.Handshake")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(entity.Handshake)
		}).
		Return()

	fx.provider.On("AuthorizeURL", mock.AnythingOfType("string")).
		Return("https://provider.example/authorize?state=x")

	authorizeURL, err := fx.service.Begin(ctx, "session-a", "p001")
	require.NoError(t, err)
	assert.NotEmpty(t, authorizeURL)

	assert.Equal(t, "p001", stored.ParticipantID)
	assert.Len(t, stored.State, 64)

	// The state handed to the provider is the one stored in the handshake.
	fx.provider.AssertCalled(t, "AuthorizeURL", stored.State)
}

func TestOAuthService_Begin_UnknownParticipant(t *testing.T) {
	fx := createTestOAuthService(t)
	ctx := context.Background()

	fx.participantRepo.On("FindByID", ctx, "ghost").
		Return(nil, repository.ErrParticipantNotFound)

	_, err := fx.service.Begin(ctx, "session-a", "ghost")
	assertErrorCode(t, err, "PARTICIPANT_NOT_FOUND")
}

func TestOAuthService_Complete_ProviderDenied(t *testing.T) {
	fx := createTestOAuthService(t)
	ctx := context.Background()

	fx.handshakes.On("Clear", "session-a").Return()

	_, err := fx.service.Complete(ctx, "session-a", &usecase.CallbackInput{
		ErrorParam:       "access_denied",
		ErrorDescription: "The user denied the request",
	})
	assertErrorCode(t, err, "PROVIDER_DENIED")

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Details(), "access_denied")
}

func TestOAuthService_Complete_StateMismatch(t *testing.T) {
	fx := createTestOAuthService(t)
	ctx := context.Background()

	fx.handshakes.On("Take", "session-a").
		Return(entity.Handshake{State: "expected", ParticipantID: "p001"}, nil)
	fx.handshakes.On("Clear", "session-a").Return()

	_, err := fx.service.Complete(ctx, "session-a", &usecase.CallbackInput{
		Code:  "some-code",
		State: "forged",
	})
	assertErrorCode(t, err, "STATE_MISMATCH")
}

func TestOAuthService_Complete_NoPendingHandshake(t *testing.T) {
	fx := createTestOAuthService(t)
	ctx := context.Background()

	fx.handshakes.On("Take", "session-b").
		Return(entity.Handshake{}, repository.ErrHandshakeNotFound)
	fx.handshakes.On("Clear", "session-b").Return()

	// A callback landing in a session that never began authorization is
	// indistinguishable from a forged state.
	_, err := fx.service.Complete(ctx, "session-b", &usecase.CallbackInput{
		Code:  "some-code",
		State: "expected",
	})
	assertErrorCode(t, err, "STATE_MISMATCH")
}

func TestOAuthService_Complete_MissingCode(t *testing.T) {
	fx := createTestOAuthService(t)
	ctx := context.Background()

	fx.handshakes.On("Take", "session-a").
		Return(entity.Handshake{State: "expected", ParticipantID: "p001"}, nil)

	_, err := fx.service.Complete(ctx, "session-a", &usecase.CallbackInput{
		State: "expected",
	})
	assertErrorCode(t, err, "MISSING_CODE")
}

func TestOAuthService_Complete_ExchangeFailure(t *testing.T) {
	fx := createTestOAuthService(t)
	ctx := context.Background()

	fx.handshakes.On("Take", "session-a").
		Return(entity.Handshake{State: "expected", ParticipantID: "p001"}, nil)
	fx.provider.On("ExchangeCode", ctx, "bad-code").
		Return(nil, errors.New("invalid_grant"))

	_, err := fx.service.Complete(ctx, "session-a", &usecase.CallbackInput{
		Code:  "bad-code",
		State: "expected",
	})
	assertErrorCode(t, err, "TOKEN_EXCHANGE_FAILED")
}

func TestOAuthService_Complete_StoresCredential(t *testing.T) {
	fx := createTestOAuthService(t)
	ctx := context.Background()

	expiresAt := time.Now().Add(8 * time.Hour)
	fx.handshakes.On("Take", "session-a").
		Return(entity.Handshake{State: "expected", ParticipantID: "p001"}, nil)
	fx.provider.On("ExchangeCode", ctx, "good-code").
		Return(&service.TokenSet{
			AccessToken:  "access",
			RefreshToken: "refresh",
			ExpiresAt:    expiresAt,
			UserID:       "FB1234",
			Scope:        "activity heartrate",
			TokenType:    "Bearer",
		}, nil)
	fx.participantRepo.On("FindByID", ctx, "p001").
		Return(&entity.Participant{ParticipantID: "p001"}, nil)
	fx.credentialRepo.On("Upsert", ctx, mock.AnythingOfType("*entity.Credential")).
		Return(nil)

	credential, err := fx.service.Complete(ctx, "session-a", &usecase.CallbackInput{
		Code:  "good-code",
		State: "expected",
	})
	require.NoError(t, err)
	assert.Equal(t, "p001", credential.ParticipantID)
	assert.Equal(t, "FB1234", credential.ProviderUserID)
	assert.Equal(t, "access", credential.AccessToken)
	assert.Equal(t, expiresAt, credential.ExpiresAt)
}

func TestOAuthService_Complete_RecreatesMissingParticipant(t *testing.T) {
	fx := createTestOAuthService(t)
	ctx := context.Background()

	fx.handshakes.On("Take", "session-a").
		Return(entity.Handshake{State: "expected", ParticipantID: "p001"}, nil)
	fx.provider.On("ExchangeCode", ctx, "good-code").
		Return(&service.TokenSet{AccessToken: "access", RefreshToken: "refresh", UserID: "FB1234"}, nil)
	fx.participantRepo.On("FindByID", ctx, "p001").
		Return(nil, repository.ErrParticipantNotFound)

	var created *entity.Participant
	fx.participantRepo.On("Create", ctx, mock.AnythingOfType("*entity.Participant")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*entity.Participant)
		}).
		Return(nil)
	fx.credentialRepo.On("Upsert", ctx, mock.AnythingOfType("*entity.Credential")).
		Return(nil)

	_, err := fx.service.Complete(ctx, "session-a", &usecase.CallbackInput{
		Code:  "good-code",
		State: "expected",
	})
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.Equal(t, "p001", created.ParticipantID)
	assert.Equal(t, "p001 (pending profile)", created.DisplayName)
}

func TestOAuthService_Disconnect_NoCredential(t *testing.T) {
	fx := createTestOAuthService(t)
	ctx := context.Background()

	fx.credentialRepo.On("DeleteByParticipantID", ctx, "p001").
		Return(repository.ErrCredentialNotFound)

	err := fx.service.Disconnect(ctx, "p001")
	assertErrorCode(t, err, "CREDENTIAL_NOT_FOUND")
}
