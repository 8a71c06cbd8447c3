package fitbit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"fitsync/config"
	"fitsync/internal/domain/entity"
	"fitsync/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(apiURL, tokenURL string) *Client {
	return &Client{
		clientID:     "client-id",
		clientSecret: "client-secret",
		redirectURI:  "https://example.com/oauth/fitbit/callback",
		scopes:       []string{"activity", "heartrate", "sleep", "weight", "profile"},
		authorizeURL: fitbitAuthorizeURL,
		tokenURL:     tokenURL,
		apiBaseURL:   apiURL,
		httpClient:   &http.Client{Timeout: time.Second},
	}
}

func TestAuthorizeURL(t *testing.T) {
	c := testClient("", "")

	raw := c.AuthorizeURL("state-123")
	parsed, err := url.Parse(raw)
	require.NoError(t, err)

	query := parsed.Query()
	assert.Equal(t, "client-id", query.Get("client_id"))
	assert.Equal(t, "code", query.Get("response_type"))
	assert.Equal(t, "state-123", query.Get("state"))
	assert.Equal(t, "login", query.Get("prompt"))
	assert.Equal(t, "activity heartrate sleep weight profile", query.Get("scope"))
}

func TestExchangeCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.FormValue("grant_type"))
		assert.Equal(t, "the-code", r.FormValue("code"))

		// Client credentials travel in the Basic header, not the body.
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "client-id", user)
		assert.Equal(t, "client-secret", pass)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"access_token": "access",
			"refresh_token": "refresh",
			"expires_in": 28800,
			"user_id": "FB1234",
			"scope": "activity heartrate",
			"token_type": "Bearer"
		}`))
	}))
	defer srv.Close()

	c := testClient("", srv.URL)

	token, err := c.ExchangeCode(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "access", token.AccessToken)
	assert.Equal(t, "refresh", token.RefreshToken)
	assert.Equal(t, "FB1234", token.UserID)
	assert.WithinDuration(t, time.Now().Add(8*time.Hour), token.ExpiresAt, time.Minute)
}

func TestExchangeCode_ProviderRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors":[{"errorType":"invalid_grant"}]}`))
	}))
	defer srv.Close()

	c := testClient("", srv.URL)

	_, err := c.ExchangeCode(context.Background(), "expired-code")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_grant")
}

func TestSession_FetchPathsAndRateLimit(t *testing.T) {
	var lastPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastPath = r.URL.Path
		assert.Equal(t, "Bearer access", r.Header.Get("Authorization"))

		w.Header().Set("Fitbit-Rate-Limit-Limit", "150")
		w.Header().Set("Fitbit-Rate-Limit-Remaining", "149")
		w.Header().Set("Fitbit-Rate-Limit-Reset", "3599")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, "")
	s := c.NewSession(service.TokenSet{AccessToken: "access"}, nil)
	ctx := context.Background()

	_, err := s.FetchDailySummary(ctx, entity.ResourceSteps, "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, "/1/user/-/activities/steps/date/2024-01-01/1d.json", lastPath)

	_, err = s.FetchIntraday(ctx, entity.ResourceHeartRate, "2024-01-01", entity.Granularity1Min)
	require.NoError(t, err)
	assert.Equal(t, "/1/user/-/activities/heart/date/2024-01-01/1d/1min.json", lastPath)

	_, err = s.FetchSleep(ctx, "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, "/1.2/user/-/sleep/date/2024-01-01.json", lastPath)

	_, err = s.FetchWeight(ctx, "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, "/1/user/-/body/log/weight/date/2024-01-01.json", lastPath)

	_, err = s.FetchProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/1/user/-/profile.json", lastPath)

	info := s.RateLimit()
	require.NotNil(t, info)
	assert.Equal(t, 150, info.Limit)
	assert.Equal(t, 149, info.Remaining)
	assert.Equal(t, 3599, info.Reset)
}

func TestSession_RefreshOn401(t *testing.T) {
	var apiCalls atomic.Int32
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if apiCalls.Add(1) == 1 {
			// Stale access token on the first call only.
			assert.Equal(t, "Bearer stale", r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusUnauthorized)

			return
		}

		assert.Equal(t, "Bearer fresh", r.Header.Get("Authorization"))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer api.Close()

	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.FormValue("grant_type"))
		assert.Equal(t, "refresh", r.FormValue("refresh_token"))

		w.Write([]byte(`{"access_token":"fresh","refresh_token":"refresh-2","expires_in":28800}`))
	}))
	defer tokenSrv.Close()

	c := testClient(api.URL, tokenSrv.URL)

	var persisted *service.TokenSet
	s := c.NewSession(service.TokenSet{AccessToken: "stale", RefreshToken: "refresh"}, func(token service.TokenSet) error {
		persisted = &token

		return nil
	})

	body, err := s.FetchProfile(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.EqualValues(t, 2, apiCalls.Load())

	// The rotated tokens were handed to the persistence callback.
	require.NotNil(t, persisted)
	assert.Equal(t, "fresh", persisted.AccessToken)
	assert.Equal(t, "refresh-2", persisted.RefreshToken)
}

func TestSession_NonOKIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"errors":[{"errorType":"insufficient_scope"}]}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, "")
	s := c.NewSession(service.TokenSet{AccessToken: "access"}, nil)

	_, err := s.FetchIntraday(context.Background(), entity.ResourceSteps, "2024-01-01", entity.Granularity1Min)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
	assert.Contains(t, err.Error(), "insufficient_scope")
}

func TestNewClientUsesConfiguredApplication(t *testing.T) {
	cfg := &config.Config{
		Fitbit: &config.FitbitConfig{
			ClientID:    "abc",
			RedirectURI: "https://example.com/cb",
			Scopes:      []string{"activity"},
		},
	}

	provider := NewClient(cfg)
	raw := provider.AuthorizeURL("s")
	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "www.fitbit.com", parsed.Host)
	assert.Equal(t, "abc", parsed.Query().Get("client_id"))
}
