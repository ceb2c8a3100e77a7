package service

import (
	"net/http"

	commonerrors "github.com/pmorel/tasklane/internal/common/errors"
)

var (
	// ErrAccountMissing covers a valid token whose account row no longer
	// exists.
	ErrAccountMissing = commonerrors.NewDomainError(
		"ACCOUNT_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"account not found",
	)

	ErrTaskNotFound = commonerrors.NewDomainError(
		"TASK_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"task not found",
	)

	// ErrTaskForbidden is distinct from ErrTaskNotFound for callers and tests,
	// but carries the same status and message so the boundary response does
	// not reveal that the task exists.
	ErrTaskForbidden = commonerrors.NewDomainError(
		"TASK_FORBIDDEN",
		commonerrors.CategoryAuth,
		http.StatusNotFound,
		"task not found",
	)

	ErrTitleRequired = commonerrors.NewDomainError(
		"TITLE_REQUIRED",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"title is required",
	)

	ErrTitleTooLong = commonerrors.NewDomainError(
		"TITLE_TOO_LONG",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"title is too long",
	)

	ErrDescriptionTooLong = commonerrors.NewDomainError(
		"DESCRIPTION_TOO_LONG",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"description is too long",
	)

	ErrInvalidDueDate = commonerrors.NewDomainError(
		"INVALID_DUE_DATE",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"due date must be RFC 3339 or YYYY-MM-DD",
	)

	ErrInvalidPriority = commonerrors.NewDomainError(
		"INVALID_PRIORITY",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"priority must be LOW, MEDIUM or HIGH",
	)

	errInternal = commonerrors.NewDomainError(
		"INTERNAL_ERROR",
		commonerrors.CategoryInternal,
		http.StatusInternalServerError,
		"internal server error",
	)
)
