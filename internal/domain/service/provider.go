// Package service defines the interfaces for domain services implemented by
// the infrastructure layer.
package service

import (
	"context"
	"time"

	"fitsync/internal/domain/entity"
)

// TokenSet is the token material returned by the provider from a code
// exchange or a refresh.
type TokenSet struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	UserID       string // Provider-side user identifier.
	Scope        string
	TokenType    string
}

// RefreshFunc is invoked by a provider session whenever it refreshed the
// access token, before the retried call returns. Implementations must
// persist the new token set so the refresh is durable even if the caller
// later fails.
type RefreshFunc func(token TokenSet) error

// FitnessProvider is the OAuth2 + data API surface of the fitness provider.
type FitnessProvider interface {
	// AuthorizeURL builds the provider's authorization URL for the
	// configured scopes, carrying the given CSRF state and forcing a
	// fresh login prompt.
	AuthorizeURL(state string) string

	// ExchangeCode exchanges an authorization code for a token set.
	ExchangeCode(ctx context.Context, code string) (*TokenSet, error)

	// NewSession returns a data-fetch session bound to the token set.
	// Whenever a call fails with an expired access token, the session
	// refreshes it, reports the new tokens through onRefresh, and retries
	// the call once. The refresh is invisible to the caller.
	NewSession(token TokenSet, onRefresh RefreshFunc) ProviderSession
}

// ProviderSession performs authenticated per-resource fetches. All methods
// return the provider's raw JSON response body.
type ProviderSession interface {
	// FetchDailySummary fetches the daily summary time series for an
	// activity resource (steps, heartrate) on one date.
	FetchDailySummary(ctx context.Context, resource entity.Resource, date string) ([]byte, error)

	// FetchIntraday fetches the fine-grained intraday series for an
	// activity resource on one date.
	FetchIntraday(ctx context.Context, resource entity.Resource, date string, granularity entity.Granularity) ([]byte, error)

	// FetchSleep fetches the sleep sessions (with stage breakdown) for one date.
	FetchSleep(ctx context.Context, date string) ([]byte, error)

	// FetchWeight fetches the body-weight/composition log entries for one date.
	FetchWeight(ctx context.Context, date string) ([]byte, error)

	// FetchProfile fetches the connected account's profile.
	FetchProfile(ctx context.Context) ([]byte, error)

	// RateLimit returns the provider's advisory quota headers observed on
	// the most recent response, or nil if none were seen.
	RateLimit() *entity.RateLimitInfo
}
