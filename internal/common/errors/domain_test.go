package commonerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError_IsMatchesByCode(t *testing.T) {
	cause := errors.New("connection refused")
	wrapped := ErrInternalError.WithCause(cause)

	assert.ErrorIs(t, wrapped, ErrInternalError)
	assert.ErrorIs(t, wrapped, cause)
	assert.NotErrorIs(t, wrapped, ErrInvalidToken)
	assert.Equal(t, "internal server error: connection refused", wrapped.Error())
}

func TestDomainError_WithDetailsDoesNotMutateSentinel(t *testing.T) {
	details := map[string]any{"error": "boom"}
	withDetails := ErrInternalError.WithDetails(details)
	details["error"] = "changed"

	assert.Nil(t, ErrInternalError.Details())
	assert.Equal(t, "boom", withDetails.Details()["error"])
	assert.Equal(t, http.StatusInternalServerError, withDetails.HTTPStatus())
}

func TestAsDomainError(t *testing.T) {
	err := fmt.Errorf("verify: %w", ErrInvalidToken)

	de, ok := AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, "INVALID_TOKEN", de.Code())
	assert.Equal(t, CategoryUnauthorized, de.Category())
	assert.Equal(t, "Invalid Credentials", de.Message())

	_, ok = AsDomainError(errors.New("plain"))
	assert.False(t, ok)
}
