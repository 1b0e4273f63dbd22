package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	apierrors "github.com/yukikurage/task-habit-api/internal/errors"
	"github.com/yukikurage/task-habit-api/internal/repository"
)

var (
	ErrInvalidReference = apierrors.Validation("referenced record does not exist", nil)
	ErrConstraint       = apierrors.Validation("value is out of the allowed range", nil)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// validateInput runs the struct rules and reports failing fields as a
// validation error.
func validateInput(input interface{}) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate input: %w", err)
	}

	details := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = describeRule(fe)
	}

	return apierrors.Validation("Invalid input", details)
}

func describeRule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "excludes":
		return fmt.Sprintf("must not contain %q", fe.Param())
	case "alphanum":
		return "must contain only letters and digits"
	default:
		return fmt.Sprintf("failed %s", fe.Tag())
	}
}

// storageError maps repository failures onto the error taxonomy. notFound
// and conflict are the caller's domain-specific errors and may be nil.
func storageError(err error, notFound, conflict *apierrors.Error) error {
	switch {
	case err == nil:
		return nil
	case notFound != nil && errors.Is(err, repository.ErrNotFound):
		return notFound
	case conflict != nil && errors.Is(err, repository.ErrDuplicate):
		return conflict
	case errors.Is(err, repository.ErrForeignKey):
		return ErrInvalidReference
	case errors.Is(err, repository.ErrCheckViolation):
		return ErrConstraint
	}
	return err
}
