package handler

import (
	"log/slog"
	"net/http"

	"fitsync/internal/delivery/http/response"
	"fitsync/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// exportRequest is the request body of the export endpoint.
type exportRequest struct {
	StartDate string   `json:"start_date" validate:"required"`
	EndDate   string   `json:"end_date" validate:"required"`
	Resources []string `json:"resources"`
	Format    string   `json:"format"`
}

// ExportHandler holds dependencies for the export handlers.
type ExportHandler struct {
	uc     usecase.ExportUsecase
	logger *slog.Logger
}

// NewExportHandler is the constructor for ExportHandler, injected by Fx.
func NewExportHandler(uc usecase.ExportUsecase, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		uc:     uc,
		logger: logger,
	}
}

// Export builds a tabular file from stored artifacts and returns its path.
func (h *ExportHandler) Export(c echo.Context) error {
	input := &exportRequest{}
	if err := c.Bind(input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid export input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	path, err := h.uc.Export(c.Request().Context(), &usecase.ExportInput{
		ParticipantID: c.Param("id"),
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		Resources:     input.Resources,
		Format:        input.Format,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"path": path}, "Export generated successfully")
}
