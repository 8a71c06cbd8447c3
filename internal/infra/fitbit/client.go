// Package fitbit implements the FitnessProvider interface against the
// Fitbit Web API: the OAuth2 authorization-code flow, token refresh, and
// the per-resource day fetches used by the sync engine.
package fitbit

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fitsync/config"
	"fitsync/internal/domain/entity"
	"fitsync/internal/domain/service"

	"github.com/pkg/errors"
)

const (
	fitbitAuthorizeURL = "https://www.fitbit.com/oauth2/authorize"
	fitbitTokenURL     = "https://api.fitbit.com/oauth2/token"
	fitbitAPIBaseURL   = "https://api.fitbit.com"

	requestTimeout = 30 * time.Second
)

// Client handles Fitbit OAuth and data-fetch operations for the one
// registered application all participants share.
type Client struct {
	clientID     string
	clientSecret string
	redirectURI  string
	scopes       []string

	authorizeURL string
	tokenURL     string
	apiBaseURL   string
	httpClient   *http.Client
}

// NewClient creates a new Fitbit provider client.
func NewClient(cfg *config.Config) service.FitnessProvider {
	return &Client{
		clientID:     cfg.Fitbit.ClientID,
		clientSecret: cfg.Fitbit.ClientSecret,
		redirectURI:  cfg.Fitbit.RedirectURI,
		scopes:       cfg.Fitbit.Scopes,
		authorizeURL: fitbitAuthorizeURL,
		tokenURL:     fitbitTokenURL,
		apiBaseURL:   fitbitAPIBaseURL,
		httpClient:   &http.Client{Timeout: requestTimeout},
	}
}

// AuthorizeURL constructs the Fitbit authorization URL with the state
// parameter for CSRF protection. prompt=login forces a fresh provider
// login so one browser cannot silently reuse another participant's
// Fitbit account.
func (c *Client) AuthorizeURL(state string) string {
	params := url.Values{}
	params.Set("client_id", c.clientID)
	params.Set("redirect_uri", c.redirectURI)
	params.Set("scope", strings.Join(c.scopes, " "))
	params.Set("response_type", "code")
	params.Set("state", state)
	params.Set("prompt", "login")

	return c.authorizeURL + "?" + params.Encode()
}

// tokenResponse mirrors Fitbit's token endpoint payload.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	UserID       string `json:"user_id"`
	Scope        string `json:"scope"`
	TokenType    string `json:"token_type"`
}

// ExchangeCode exchanges an authorization code for a token set.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*service.TokenSet, error) {
	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("code", code)
	data.Set("redirect_uri", c.redirectURI)
	data.Set("client_id", c.clientID)

	return c.requestToken(ctx, data)
}

// refreshToken exchanges a refresh token for a new token set.
func (c *Client) refreshToken(ctx context.Context, refreshToken string) (*service.TokenSet, error) {
	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("refresh_token", refreshToken)

	return c.requestToken(ctx, data)
}

func (c *Client) requestToken(ctx context.Context, data url.Values) (*service.TokenSet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create token request")
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Basic "+c.basicAuth())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to call token endpoint")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)

		return nil, errors.Errorf("token request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var tokenResp tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, errors.Wrap(err, "failed to decode token response")
	}

	return &service.TokenSet{
		AccessToken:  tokenResp.AccessToken,
		RefreshToken: tokenResp.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second),
		UserID:       tokenResp.UserID,
		Scope:        tokenResp.Scope,
		TokenType:    tokenResp.TokenType,
	}, nil
}

func (c *Client) basicAuth() string {
	return base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
}

// NewSession returns a data-fetch session bound to the token set.
func (c *Client) NewSession(token service.TokenSet, onRefresh service.RefreshFunc) service.ProviderSession {
	return &session{
		client:    c,
		token:     token,
		onRefresh: onRefresh,
	}
}

// session performs authenticated fetches with a single transparent
// refresh-and-retry on access-token expiry.
type session struct {
	client    *Client
	token     service.TokenSet
	onRefresh service.RefreshFunc
	rateLimit *entity.RateLimitInfo
}

// activityPath maps an activity resource onto its API path segment.
func activityPath(resource entity.Resource) string {
	if resource == entity.ResourceHeartRate {
		return "activities/heart"
	}

	return "activities/" + string(resource)
}

// FetchDailySummary fetches the daily summary time series for an activity
// resource on one date.
func (s *session) FetchDailySummary(ctx context.Context, resource entity.Resource, date string) ([]byte, error) {
	path := "/1/user/-/" + activityPath(resource) + "/date/" + date + "/1d.json"

	return s.get(ctx, path)
}

// FetchIntraday fetches the fine-grained intraday series for an activity
// resource on one date. Intraday access requires provider-side permission;
// a 403 here is an expected partial failure, not a bug.
func (s *session) FetchIntraday(ctx context.Context, resource entity.Resource, date string, granularity entity.Granularity) ([]byte, error) {
	path := "/1/user/-/" + activityPath(resource) + "/date/" + date + "/1d/" + string(granularity) + ".json"

	return s.get(ctx, path)
}

// FetchSleep fetches the sleep sessions with stage breakdown for one date.
// Sleep stages only exist on the v1.2 endpoint.
func (s *session) FetchSleep(ctx context.Context, date string) ([]byte, error) {
	return s.get(ctx, "/1.2/user/-/sleep/date/"+date+".json")
}

// FetchWeight fetches the body-weight log entries for one date.
func (s *session) FetchWeight(ctx context.Context, date string) ([]byte, error) {
	return s.get(ctx, "/1/user/-/body/log/weight/date/"+date+".json")
}

// FetchProfile fetches the connected account's profile.
func (s *session) FetchProfile(ctx context.Context) ([]byte, error) {
	return s.get(ctx, "/1/user/-/profile.json")
}

// RateLimit returns the quota headers observed on the most recent response.
func (s *session) RateLimit() *entity.RateLimitInfo {
	return s.rateLimit
}

// get performs an authenticated GET. A 401 is the sole refresh trigger: the
// session refreshes the token, reports it through onRefresh, and retries
// the request once with the new access token.
func (s *session) get(ctx context.Context, path string) ([]byte, error) {
	body, status, err := s.doGet(ctx, path)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		if err := s.refresh(ctx); err != nil {
			return nil, err
		}

		body, status, err = s.doGet(ctx, path)
		if err != nil {
			return nil, err
		}
	}

	if status != http.StatusOK {
		return nil, errors.Errorf("fitbit request %s failed with status %d: %s", path, status, truncate(string(body), 200))
	}

	return body, nil
}

func (s *session) doGet(ctx context.Context, path string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.client.apiBaseURL+path, nil)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to create fitbit request")
	}

	req.Header.Set("Authorization", "Bearer "+s.token.AccessToken)
	req.Header.Set("Accept-Language", "en_US")

	resp, err := s.client.httpClient.Do(req)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "fitbit request %s failed", path)
	}
	defer resp.Body.Close()

	s.captureRateLimit(resp)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to read fitbit response")
	}

	return body, resp.StatusCode, nil
}

func (s *session) refresh(ctx context.Context) error {
	refreshed, err := s.client.refreshToken(ctx, s.token.RefreshToken)
	if err != nil {
		return errors.Wrap(err, "failed to refresh access token")
	}

	s.token = *refreshed

	// Persist the new tokens before retrying so the refresh survives even
	// if the retried call fails.
	if s.onRefresh != nil {
		if err := s.onRefresh(*refreshed); err != nil {
			return errors.Wrap(err, "failed to store refreshed token")
		}
	}

	return nil
}

// captureRateLimit records Fitbit's advisory quota headers when present.
func (s *session) captureRateLimit(resp *http.Response) {
	remaining := resp.Header.Get("Fitbit-Rate-Limit-Remaining")
	if remaining == "" {
		return
	}

	info := entity.RateLimitInfo{}
	info.Remaining, _ = strconv.Atoi(remaining)
	info.Limit, _ = strconv.Atoi(resp.Header.Get("Fitbit-Rate-Limit-Limit"))
	info.Reset, _ = strconv.Atoi(resp.Header.Get("Fitbit-Rate-Limit-Reset"))
	s.rateLimit = &info
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n] + "..."
}
