package usecase

import (
	"context"

	"fitsync/internal/domain/entity"
)

// CallbackInput carries the query parameters Fitbit appends to the
// redirect back from the authorization page.
type CallbackInput struct {
	Code             string
	State            string
	ErrorParam       string
	ErrorDescription string
}

// OAuthUsecase coordinates one OAuth authorization attempt per browser
// session: issuing the CSRF state bound to one participant, validating the
// callback, and storing the exchanged credential.
type OAuthUsecase interface {
	// Begin starts a handshake for the participant in the given session
	// and returns the provider authorization URL to redirect to. Any
	// previous pending handshake in the session is discarded.
	Begin(ctx context.Context, sessionID, participantID string) (string, error)

	// Complete validates the callback against the session's pending
	// handshake and, on success, exchanges the code and upserts the
	// credential. Every failure path clears the pending handshake; the
	// client must restart authorization.
	Complete(ctx context.Context, sessionID string, input *CallbackInput) (*entity.Credential, error)

	// Disconnect deletes the participant's stored credential. The
	// participant record itself is untouched.
	Disconnect(ctx context.Context, participantID string) error
}
