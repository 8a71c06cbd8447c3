// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"
)

// Participant represents an individual whose Fitbit account is connected to
// this system. The ParticipantID is the stable, operator-chosen key used in
// URLs, artifact directories and exports; it never changes after creation.
type Participant struct {
	ParticipantID string    // Unique, stable identifier chosen when the participant is enrolled.
	DisplayName   string    // Human-readable name shown on the dashboard and in exports.
	Email         string    // Optional contact email.
	Notes         string    // Free-form operator notes (cohort, study arm, ...).
	CreatedAt     time.Time // Timestamp of when this participant was enrolled.
	UpdatedAt     time.Time // Timestamp of the last modification to this participant's data.
}

// Credential holds the OAuth token material for one participant's Fitbit
// account. At most one credential exists per participant; the same Fitbit
// account may legitimately back multiple participants.
type Credential struct {
	ParticipantID  string    // Links this credential to the Participant it belongs to.
	ProviderUserID string    // Fitbit's own user identifier for the connected account.
	AccessToken    string    // Short-lived bearer token for API calls.
	RefreshToken   string    // Long-lived token used to obtain a new access token.
	ExpiresAt      time.Time // Absolute instant at which the access token expires.
	Scope          string    // Space-separated OAuth scopes granted by the participant.
	TokenType      string    // Token type reported by the provider, normally "Bearer".
	UpdatedAt      time.Time // Timestamp of the last token write (authorization or refresh).
}

// Handshake is one pending OAuth authorization attempt, bound to a single
// browser session. It lives for one round trip: starting a new authorization
// in the same session replaces it, completing or failing the callback
// consumes it.
type Handshake struct {
	State         string // Opaque unguessable CSRF state sent to the provider.
	ParticipantID string // The participant this authorization attempt is for.
}
