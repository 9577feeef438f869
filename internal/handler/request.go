package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go-storefront/pkg/apierror"
)

const maxBodyBytes = 1 << 20

type payloadValidator interface {
	Struct(payload any) error
}

type normalizer interface {
	Normalize()
}

// bindJSON decodes the request body into dst, normalizes it when it knows
// how, and validates it.
func bindJSON(w http.ResponseWriter, r *http.Request, v payloadValidator, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		issue := apierror.FieldIssue{Field: "body", Message: "request body must be valid JSON"}

		var typeErr *json.UnmarshalTypeError
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &typeErr) && typeErr.Field != "":
			issue = apierror.FieldIssue{Field: typeErr.Field, Message: fmt.Sprintf("%s has the wrong type (got %s)", typeErr.Field, typeErr.Value)}
		case errors.As(err, &tooLarge):
			issue.Message = "request body is too large"
		}
		return apierror.Validation("invalid data", []apierror.FieldIssue{issue})
	}

	if n, ok := dst.(normalizer); ok {
		n.Normalize()
	}

	return v.Struct(dst)
}

func isValidationError(err error) bool {
	var apiErr *apierror.APIError
	return errors.As(err, &apiErr) && apiErr.Code == apierror.CodeValidation
}
