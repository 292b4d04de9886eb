package errors

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("join_code", "must be a 6-character join code (letters and digits)", "ab")

	if err.Field != "join_code" {
		t.Errorf("Expected field to be 'join_code', got '%s'", err.Field)
	}
	if err.Value != "ab" {
		t.Errorf("Expected value to be 'ab', got '%v'", err.Value)
	}

	expected := "validation error on field 'join_code': must be a 6-character join code (letters and digits)"
	if err.Error() != expected {
		t.Errorf("Expected error message to be '%s', got '%s'", expected, err.Error())
	}
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	if errs.Error() != "validation failed" {
		t.Errorf("Expected 'validation failed' for empty errors, got '%s'", errs.Error())
	}

	errs = append(errs, *NewValidationError("punctuality", "must be a rating between 1 and 5", 7))
	expected := "validation failed: punctuality must be a rating between 1 and 5"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for single error, got '%s'", expected, errs.Error())
	}

	errs = append(errs, *NewValidationError("weight", "must be a percentage between 0 and 100", 130))
	expected = "validation failed: 2 field errors"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for multiple errors, got '%s'", expected, errs.Error())
	}
}

func TestNewValidationErrorWithRule(t *testing.T) {
	err := NewValidationErrorWithRule("attitude", "must be a rating between 1 and 5", "rating_score", 0)

	if err.Rule != "rating_score" {
		t.Errorf("Expected rule to be 'rating_score', got '%s'", err.Rule)
	}
	if err.Field != "attitude" {
		t.Errorf("Expected field to be 'attitude', got '%s'", err.Field)
	}
}

func TestToValidationErrors(t *testing.T) {
	type signupInput struct {
		Email string `validate:"required,email"`
		Name  string `validate:"required"`
	}

	v := validator.New()
	err := v.Struct(signupInput{Email: "not-an-email"})
	if err == nil {
		t.Fatal("Expected validation to fail")
	}

	converted := ToValidationErrors(err)
	if len(converted) != 2 {
		t.Fatalf("Expected 2 field errors, got %d", len(converted))
	}

	byField := map[string]string{}
	for _, ve := range converted {
		byField[ve.Field] = ve.Message
	}
	if byField["Email"] != "must be a valid email address" {
		t.Errorf("Unexpected email message: '%s'", byField["Email"])
	}
	if byField["Name"] != "is required" {
		t.Errorf("Unexpected name message: '%s'", byField["Name"])
	}
}

func TestToValidationErrors_NonValidatorError(t *testing.T) {
	converted := ToValidationErrors(NewValidationError("x", "y", nil))
	if len(converted) != 0 {
		t.Errorf("Expected no conversion for non-validator errors, got %d", len(converted))
	}
}
