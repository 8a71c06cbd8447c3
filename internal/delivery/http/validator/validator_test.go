package validator

import (
	"testing"

	domainerrors "fitsync/internal/domain/errors"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createRequest struct {
	DisplayName string `json:"display_name" validate:"required"`
	Email       string `json:"email" validate:"omitempty,email"`
}

func TestValidate_InvalidInputReturnsAppError(t *testing.T) {
	v := New()

	err := v.Validate(&createRequest{Email: "not-an-email"})
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VALIDATION_FAILED", appErr.ErrorCode())
	assert.Equal(t, 400, appErr.HTTPCode())
	assert.Contains(t, appErr.Details(), "DisplayName")
}

func TestValidate_ValidInput(t *testing.T) {
	v := New()

	err := v.Validate(&createRequest{DisplayName: "Ada", Email: "ada@example.org"})
	assert.NoError(t, err)
}
