package service

import (
	"net/http"

	commonerrors "github.com/AlibekovAA/user-auth/internal/common/errors"
)

var (
	ErrValidation = commonerrors.NewDomainError(
		"VALIDATION_FAILED",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"Username & password fields are required.",
	)

	ErrPasswordTooLong = commonerrors.NewDomainError(
		"VALIDATION_FAILED",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"Password must be at most 72 bytes.",
	)

	ErrInvalidCredentials = commonerrors.NewDomainError(
		"INVALID_CREDENTIALS",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"Invalid Username or Password",
	)

	ErrStore = commonerrors.NewDomainError(
		"STORE_ERROR",
		commonerrors.CategoryExternal,
		http.StatusInternalServerError,
		"store operation failed",
	)

	ErrServiceUnavailable = commonerrors.NewDomainError(
		"SERVICE_UNAVAILABLE",
		commonerrors.CategoryExternal,
		http.StatusServiceUnavailable,
		"service temporarily unavailable",
	)
)
