package handler

import (
	"log/slog"
	"net/http"

	"fitsync/internal/delivery/http/middleware"
	"fitsync/internal/delivery/http/response"
	"fitsync/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// OAuthHandler holds dependencies for the Fitbit authorization handlers.
type OAuthHandler struct {
	uc     usecase.OAuthUsecase
	logger *slog.Logger
}

// NewOAuthHandler is the constructor for OAuthHandler, injected by Fx.
func NewOAuthHandler(uc usecase.OAuthUsecase, logger *slog.Logger) *OAuthHandler {
	return &OAuthHandler{
		uc:     uc,
		logger: logger,
	}
}

// Authorize begins the authorization handshake for a participant.
func (h *OAuthHandler) Authorize(c echo.Context) error {
	participantID := c.QueryParam("participant_id")
	if participantID == "" {
		return response.BadRequest(c, "INVALID_INPUT", "participant_id is required")
	}

	authorizeURL, err := h.uc.Begin(c.Request().Context(), middleware.SessionID(c), participantID)
	if err != nil {
		return errors.WithStack(err)
	}

	// Browsers follow the redirect straight to Fitbit; API clients get the
	// URL back and open it themselves.
	if c.QueryParam("redirect") == "true" {
		return c.Redirect(http.StatusTemporaryRedirect, authorizeURL)
	}

	return response.Success(c, http.StatusOK, map[string]string{
		"authorize_url": authorizeURL,
	}, "Authorization URL generated successfully")
}

// Callback completes the handshake when Fitbit redirects back.
func (h *OAuthHandler) Callback(c echo.Context) error {
	input := &usecase.CallbackInput{
		Code:             c.QueryParam("code"),
		State:            c.QueryParam("state"),
		ErrorParam:       c.QueryParam("error"),
		ErrorDescription: c.QueryParam("error_description"),
	}

	credential, err := h.uc.Complete(c.Request().Context(), middleware.SessionID(c), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{
		"participant_id":   credential.ParticipantID,
		"provider_user_id": credential.ProviderUserID,
	}, "Fitbit account connected successfully")
}

// Disconnect deletes a participant's stored credential.
func (h *OAuthHandler) Disconnect(c echo.Context) error {
	if err := h.uc.Disconnect(c.Request().Context(), c.Param("id")); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"participant_id": c.Param("id")}, "Fitbit account disconnected successfully")
}
