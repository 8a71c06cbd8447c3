package impl

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"

	deliverycontext "fitsync/internal/delivery/context"
	"fitsync/internal/domain/entity"
	domainerrors "fitsync/internal/domain/errors"
	"fitsync/internal/domain/repository"
	"fitsync/internal/domain/service"
	"fitsync/internal/usecase"

	"github.com/pkg/errors"
)

// oauthService implements the OAuthUsecase interface. It is the only path
// that writes credentials from a live authorization; refresh writes happen
// inside the sync engine's provider session.
type oauthService struct {
	participants repository.ParticipantRepository
	credentials  repository.CredentialRepository
	handshakes   repository.HandshakeStore
	provider     service.FitnessProvider
	logger       *slog.Logger
}

// NewOAuthService is the constructor for oauthService.
func NewOAuthService(
	participants repository.ParticipantRepository,
	credentials repository.CredentialRepository,
	handshakes repository.HandshakeStore,
	provider service.FitnessProvider,
	logger *slog.Logger,
) usecase.OAuthUsecase {
	return &oauthService{
		participants: participants,
		credentials:  credentials,
		handshakes:   handshakes,
		provider:     provider,
		logger:       logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *oauthService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// generateState generates a cryptographically secure random state string.
func generateState() string {
	bytes := make([]byte, 32)
	rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// Begin starts a handshake for the participant in the given session.
func (srv *oauthService) Begin(ctx context.Context, sessionID, participantID string) (string, error) {
	if _, err := srv.participants.FindByID(ctx, participantID); err != nil {
		if errors.Is(err, repository.ErrParticipantNotFound) {
			return "", errors.Wrap(domainerrors.ErrParticipantNotFound, participantID)
		}

		return "", errors.Wrap(err, "failed to find participant")
	}

	state := generateState()

	// One pending handshake per session: beginning a new authorization
	// discards whatever attempt was in flight.
	srv.handshakes.Put(sessionID, entity.Handshake{
		State:         state,
		ParticipantID: participantID,
	})

	srv.log(ctx).Info("OAuth handshake started", slog.String("participant_id", participantID))

	return srv.provider.AuthorizeURL(state), nil
}

// Complete validates the callback and stores the exchanged credential.
func (srv *oauthService) Complete(ctx context.Context, sessionID string, input *usecase.CallbackInput) (*entity.Credential, error) {
	if input.ErrorParam != "" {
		srv.handshakes.Clear(sessionID)

		details := input.ErrorParam
		if input.ErrorDescription != "" {
			details += ": " + input.ErrorDescription
		}

		return nil, domainerrors.ErrProviderDenied.WithDetails(details)
	}

	handshake, err := srv.handshakes.Take(sessionID)
	if err != nil || input.State == "" || handshake.State != input.State {
		srv.handshakes.Clear(sessionID)

		return nil, domainerrors.ErrStateMismatch
	}

	if input.Code == "" {
		return nil, domainerrors.ErrMissingCode
	}

	token, err := srv.provider.ExchangeCode(ctx, input.Code)
	if err != nil {
		srv.log(ctx).Error("Token exchange failed",
			slog.String("participant_id", handshake.ParticipantID),
			slog.Any("error", err),
		)

		return nil, domainerrors.ErrTokenExchangeFailed.WithDetails(err.Error())
	}

	// The handshake may outlive the registry row it was bound to (e.g. a
	// restored browser session after a database reset). Re-create a
	// placeholder participant so the credential has an owner.
	if _, err := srv.participants.FindByID(ctx, handshake.ParticipantID); err != nil {
		if !errors.Is(err, repository.ErrParticipantNotFound) {
			return nil, errors.Wrap(err, "failed to find participant")
		}

		placeholder := &entity.Participant{
			ParticipantID: handshake.ParticipantID,
			DisplayName:   handshake.ParticipantID + " (pending profile)",
		}
		if err := srv.participants.Create(ctx, placeholder); err != nil {
			return nil, errors.Wrap(err, "failed to create placeholder participant")
		}
	}

	credential := &entity.Credential{
		ParticipantID:  handshake.ParticipantID,
		ProviderUserID: token.UserID,
		AccessToken:    token.AccessToken,
		RefreshToken:   token.RefreshToken,
		ExpiresAt:      token.ExpiresAt,
		Scope:          token.Scope,
		TokenType:      token.TokenType,
	}
	if err := srv.credentials.Upsert(ctx, credential); err != nil {
		return nil, errors.Wrap(err, "failed to store credential")
	}

	srv.log(ctx).Info("Fitbit account connected",
		slog.String("participant_id", handshake.ParticipantID),
		slog.String("provider_user_id", token.UserID),
	)

	return credential, nil
}

// Disconnect deletes the participant's stored credential.
func (srv *oauthService) Disconnect(ctx context.Context, participantID string) error {
	if err := srv.credentials.DeleteByParticipantID(ctx, participantID); err != nil {
		if errors.Is(err, repository.ErrCredentialNotFound) {
			return errors.Wrap(domainerrors.ErrCredentialNotFound, participantID)
		}

		return errors.Wrap(err, "failed to delete credential")
	}

	srv.log(ctx).Info("Fitbit account disconnected", slog.String("participant_id", participantID))

	return nil
}
