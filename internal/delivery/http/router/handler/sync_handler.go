package handler

import (
	"log/slog"
	"net/http"

	"fitsync/internal/delivery/http/response"
	"fitsync/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// syncRequest is the optional request body of the sync endpoint. An empty
// body syncs yesterday with the default resource subset.
type syncRequest struct {
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	Resources   []string `json:"resources"`
	Granularity string   `json:"granularity"`
}

// SyncHandler holds dependencies for the sync handlers.
type SyncHandler struct {
	uc     usecase.SyncUsecase
	logger *slog.Logger
}

// NewSyncHandler is the constructor for SyncHandler, injected by Fx.
func NewSyncHandler(uc usecase.SyncUsecase, logger *slog.Logger) *SyncHandler {
	return &SyncHandler{
		uc:     uc,
		logger: logger,
	}
}

// Sync runs a date-range sync for one participant. Sync runs can take
// minutes on long ranges; the request blocks until the range completes.
func (h *SyncHandler) Sync(c echo.Context) error {
	input := &syncRequest{}
	if err := c.Bind(input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid sync input")
	}

	participantID := c.Param("id")

	if input.StartDate == "" && input.EndDate == "" {
		result, err := h.uc.SyncYesterday(c.Request().Context(), participantID, input.Resources, input.Granularity)
		if err != nil {
			return errors.WithStack(err)
		}

		return response.Success(c, http.StatusOK, result, "Sync completed")
	}

	if input.StartDate == "" || input.EndDate == "" {
		return response.BadRequest(c, "INVALID_INPUT", "start_date and end_date must be provided together")
	}

	result, err := h.uc.SyncRange(c.Request().Context(), &usecase.SyncInput{
		ParticipantID: participantID,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		Resources:     input.Resources,
		Granularity:   input.Granularity,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "Sync completed")
}
