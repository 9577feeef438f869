// Package validation checks request payloads against their struct tags and
// reports every failing field.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"go-storefront/pkg/apierror"
)

const invalidDataMessage = "invalid data"

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	_ = v.RegisterValidation("nospace", func(fl validator.FieldLevel) bool {
		return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
	})
	_ = v.RegisterValidation("noangle", func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), "<>")
	})
	_ = v.RegisterValidation("strongpass", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return strings.ContainsFunc(s, unicode.IsUpper) &&
			strings.ContainsFunc(s, unicode.IsLower) &&
			strings.ContainsFunc(s, unicode.IsDigit)
	})

	return &Validator{v: v}
}

// Struct returns nil or an *apierror.APIError with one FieldIssue per
// failing field.
func (v *Validator) Struct(payload any) error {
	err := v.v.Struct(payload)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("validate payload: %w", err)
	}

	issues := make([]apierror.FieldIssue, 0, len(ve))
	for _, fe := range ve {
		issues = append(issues, apierror.FieldIssue{Field: fe.Field(), Message: fieldMessage(fe)})
	}

	return apierror.Validation(invalidDataMessage, issues)
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "url":
		return field + " must be a valid URL"
	case "nospace":
		return field + " must not contain spaces"
	case "noangle":
		return field + " must not contain < or >"
	case "strongpass":
		return field + " must include an uppercase letter, a lowercase letter and a number"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
