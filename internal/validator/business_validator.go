package validator

import (
	"github.com/SAP-F-2025/courseware-service/internal/models"
)

// BusinessValidator checks cross-field rules that struct tags cannot
// express.
type BusinessValidator struct{}

func NewBusinessValidator() *BusinessValidator {
	return &BusinessValidator{}
}

// Validate dispatches on the value's type; unknown types pass.
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	switch v := s.(type) {
	case *models.Assessment:
		return bv.ValidateAssessment(v)
	default:
		return nil
	}
}

// ValidateAssessment enforces that a reviewer never rates themselves.
func (bv *BusinessValidator) ValidateAssessment(a *models.Assessment) ValidationErrors {
	var errs ValidationErrors
	if a.ReviewerID == a.StudentID {
		errs = append(errs, *NewValidationError("student_id", "reviewer cannot rate themselves", a.StudentID))
	}
	return errs
}

// ValidateCategoryWeight checks that adding (or re-weighting) a category
// keeps the course's weight sum at or under 100 percent.
func (bv *BusinessValidator) ValidateCategoryWeight(existing []models.Category, weight float64, excludeID string) ValidationErrors {
	total := weight
	for _, c := range existing {
		if c.ID == excludeID {
			continue
		}
		total += c.Weight
	}

	var errs ValidationErrors
	if total > 100 {
		errs = append(errs, *NewValidationError("weight", "course category weights cannot exceed 100%", weight))
	}
	return errs
}

// NewValidationError re-exported for business rule call sites.
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}
