package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents custom validation errors.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation errors: " + strings.Join(e.Errors, ", ")
}

// CreatePostForm is the submitted create form. The image is handled
// separately by the upload path.
type CreatePostForm struct {
	Title   string `validate:"required"`
	Content string `validate:"required"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateCreatePostForm checks the required fields. Values are not trimmed,
// so whitespace-only fields pass.
func ValidateCreatePostForm(form CreatePostForm) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	validationErrors := make([]string, 0, len(fieldErrors))
	for _, fieldErr := range fieldErrors {
		validationErrors = append(validationErrors, fmt.Sprintf("%s: %s", strings.ToLower(fieldErr.Field()), fieldErr.Tag()))
	}
	return &ValidationError{Errors: validationErrors}
}
