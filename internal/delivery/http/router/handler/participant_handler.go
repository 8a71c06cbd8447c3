// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"fitsync/internal/delivery/http/response"
	"fitsync/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ParticipantHandler holds dependencies for participant registry handlers.
type ParticipantHandler struct {
	uc     usecase.ParticipantUsecase
	logger *slog.Logger
}

// NewParticipantHandler is the constructor for ParticipantHandler, injected by Fx.
func NewParticipantHandler(uc usecase.ParticipantUsecase, logger *slog.Logger) *ParticipantHandler {
	return &ParticipantHandler{
		uc:     uc,
		logger: logger,
	}
}

// Create handles the participant enrollment request.
func (h *ParticipantHandler) Create(c echo.Context) error {
	var input *usecase.CreateParticipantInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid participant input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	participant, err := h.uc.Create(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, participant, "Participant created successfully")
}

// List returns every participant with their connection state.
func (h *ParticipantHandler) List(c echo.Context) error {
	participants, err := h.uc.List(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, participants, "Participants retrieved successfully")
}

// Get returns one participant with their connection state.
func (h *ParticipantHandler) Get(c echo.Context) error {
	participant, err := h.uc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, participant, "Participant retrieved successfully")
}

// Update handles the participant metadata update request.
func (h *ParticipantHandler) Update(c echo.Context) error {
	var input *usecase.UpdateParticipantInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid participant input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	participant, err := h.uc.Update(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, participant, "Participant updated successfully")
}

// Delete removes a participant and, through the schema cascade, their credential.
func (h *ParticipantHandler) Delete(c echo.Context) error {
	if err := h.uc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"participant_id": c.Param("id")}, "Participant deleted successfully")
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
