package validator

import (
	"regexp"

	"github.com/SAP-F-2025/courseware-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator is the main validator instance that combines struct-tag and
// business-rule validation.
type Validator struct {
	structValidator   *validator.Validate
	businessValidator *BusinessValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	// Register all custom validators once
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:   structValidator,
		businessValidator: NewBusinessValidator(),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// ValidateBusiness validates business rules only
func (v *Validator) ValidateBusiness(s interface{}) ValidationErrors {
	return v.businessValidator.Validate(s)
}

// Validate performs complete validation (struct + business rules)
func (v *Validator) Validate(s interface{}) error {
	// First validate struct tags
	if err := v.ValidateStruct(s); err != nil {
		return ToValidationErrors(err)
	}

	// Then validate business rules
	if errors := v.ValidateBusiness(s); len(errors) > 0 {
		return errors
	}

	return nil
}

// Business returns the business validator
func (v *Validator) Business() *BusinessValidator {
	return v.businessValidator
}

var joinCodePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("rating_score", validateRatingScore)
	validate.RegisterValidation("join_code", validateJoinCode)
	validate.RegisterValidation("user_role", validateUserRole)
	validate.RegisterValidation("category_weight", validateCategoryWeight)
}

// validateRatingScore checks the 1..5 range shared by the four peer-review
// dimensions.
func validateRatingScore(fl validator.FieldLevel) bool {
	score := fl.Field().Int()
	return score >= 1 && score <= 5
}

func validateJoinCode(fl validator.FieldLevel) bool {
	return joinCodePattern.MatchString(fl.Field().String())
}

func validateUserRole(fl validator.FieldLevel) bool {
	validRoles := []models.UserRole{
		models.RoleStudent,
		models.RoleTeacher,
	}

	value := fl.Field().String()
	for _, validRole := range validRoles {
		if string(validRole) == value {
			return true
		}
	}
	return false
}

func validateCategoryWeight(fl validator.FieldLevel) bool {
	weight := fl.Field().Float()
	return weight >= 0 && weight <= 100
}
