package controllers

import (
	"errors"

	apperrors "github.com/SAP-F-2025/courseware-service/internal/errors"
	"github.com/SAP-F-2025/courseware-service/internal/repositories"
	"github.com/SAP-F-2025/courseware-service/internal/roble"
)

// ===== COMMON CONTROLLER ERRORS =====

var (
	// Generic errors
	ErrNotFound      = errors.New("resource not found")
	ErrUnauthorized  = errors.New("unauthorized - please sign in again")
	ErrInternalError = errors.New("internal error")

	// Course / enrollment errors
	ErrCourseNotFound  = errors.New("course not found")
	ErrInvalidJoinCode = errors.New("no course matches this join code")
	ErrAlreadyEnrolled = errors.New("student is already enrolled in this course")
	ErrNotEnrolled     = errors.New("student is not enrolled in this course")

	// Group / membership errors
	ErrGroupNotFound  = errors.New("group not found")
	ErrAlreadyInGroup = errors.New("student already belongs to a group in this category")

	// Activity / assessment errors
	ErrActivityNotFound   = errors.New("activity not found")
	ErrReviewClosed       = errors.New("activity is not open for peer review")
	ErrDuplicateRating    = errors.New("this peer has already been rated for this activity")
	ErrReviewerNotInGroup = errors.New("reviewer does not belong to a group in this activity")
)

// ===== CUSTOM ERROR TYPES =====

type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// ===== ERROR HELPERS =====

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrCourseNotFound) ||
		errors.Is(err, ErrGroupNotFound) ||
		errors.Is(err, ErrActivityNotFound) ||
		errors.Is(err, ErrInvalidJoinCode) ||
		repositories.IsNotFoundError(err)
}

// IsUnauthorized checks if error represents an "unauthorized" condition
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) || roble.IsUnauthorized(err)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyEnrolled) ||
		errors.Is(err, ErrAlreadyInGroup) ||
		errors.Is(err, ErrDuplicateRating)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	var ve ValidationErrors
	return errors.As(err, &ve)
}

// IsUnsupported checks if error represents an operation the backend does
// not expose.
func IsUnsupported(err error) bool {
	return repositories.IsUnsupportedError(err)
}

// errMessage converts an operation failure into the human-readable string
// stored in controller state. Operations also return the error to their
// immediate caller; the state copy is for subscribers.
func errMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case roble.IsUnauthorized(err):
		return ErrUnauthorized.Error()
	default:
		return err.Error()
	}
}
