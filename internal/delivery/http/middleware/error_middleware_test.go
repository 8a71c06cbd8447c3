package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	domainerrors "fitsync/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func handleTestError(t *testing.T, err error) (*httptest.ResponseRecorder, domainerrors.Response) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/participants", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	m := NewErrorMiddleware(slog.Default())
	m.HandleHTTPError(err, c)

	var body domainerrors.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return rec, body
}

func TestHandleHTTPError_AppError(t *testing.T) {
	rec, body := handleTestError(t, domainerrors.ErrParticipantNotFound.WithDetails("p001"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, "PARTICIPANT_NOT_FOUND", body.Error.Code)
	assert.Equal(t, "p001", body.Error.Details)
}

func TestHandleHTTPError_EchoHTTPError(t *testing.T) {
	rec, body := handleTestError(t, echo.NewHTTPError(http.StatusMethodNotAllowed, "method not allowed"))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "HTTP_ERROR", body.Error.Code)
}

func TestHandleHTTPError_UnknownErrorFallsBackToInternal(t *testing.T) {
	rec, body := handleTestError(t, errors.New("connection reset"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, domainerrors.ErrInternalError.Message(), body.Message)
	require.NotNil(t, body.Error)
	assert.Equal(t, domainerrors.ErrInternalError.ErrorCode(), body.Error.Code)
	assert.Equal(t, "connection reset", body.Error.Details)
}
