package service

import (
	"net/http"

	commonerrors "github.com/pmorel/tasklane/internal/common/errors"
)

var (
	ErrInvalidCredentials = commonerrors.NewDomainError(
		"INVALID_CREDENTIALS",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"invalid email or password",
	)

	// Reported as 400 at the boundary; the CONFLICT category keeps it
	// distinguishable from plain validation failures.
	ErrEmailTaken = commonerrors.NewDomainError(
		"EMAIL_ALREADY_USED",
		commonerrors.CategoryConflict,
		http.StatusBadRequest,
		"email already used",
	)

	ErrValidationEmail = commonerrors.NewDomainError(
		"VALIDATION_EMAIL",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"email is required and must be a valid address",
	)

	ErrValidationPassword = commonerrors.NewDomainError(
		"VALIDATION_PASSWORD",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"password is required and must be at most 72 bytes",
	)

	ErrInvalidRefreshToken = commonerrors.NewDomainError(
		"INVALID_REFRESH_TOKEN",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"invalid refresh token",
	)

	ErrSessionExpired = commonerrors.NewDomainError(
		"SESSION_EXPIRED",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"session expired",
	)

	errInternal = commonerrors.NewDomainError(
		"INTERNAL_ERROR",
		commonerrors.CategoryInternal,
		http.StatusInternalServerError,
		"internal server error",
	)
)
