package service

import (
	"errors"
	"net/http"

	commonerrors "github.com/AlibekovAA/user-auth/internal/common/errors"
)

// storeError wraps a failed store call. The raw error text is surfaced to
// the client under details.error.
func storeError(err error) error {
	if errors.Is(err, commonerrors.ErrCircuitOpen) {
		return ErrServiceUnavailable.WithCause(err)
	}
	return ErrStore.WithCause(err).WithDetails(map[string]any{"error": err.Error()})
}

func newInternalError(code, message string, cause error) commonerrors.DomainError {
	err := commonerrors.NewDomainError(
		code,
		commonerrors.CategoryInternal,
		http.StatusInternalServerError,
		message,
	)
	if cause != nil {
		err = err.WithCause(cause)
	}
	return err
}
