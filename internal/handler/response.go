package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"go-storefront/internal/model"
	"go-storefront/pkg/apierror"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, model.MessageResponse{Message: message})
}

// writeError renders err in the API error shape. Errors outside the known
// taxonomy are logged in full and reported to the client as a bare 500.
func writeError(w http.ResponseWriter, err error) {
	apiErr := toAPIError(err)
	if apiErr.HTTPStatus == http.StatusInternalServerError {
		slog.Error("unhandled error in writeError", "error", err.Error())
	}
	writeJSON(w, apiErr.HTTPStatus, apiErr)
}

func toAPIError(err error) *apierror.APIError {
	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, model.ErrInvalidCredentials):
		return apierror.Unauthenticated("invalid credentials")
	case errors.Is(err, model.ErrEmailTaken):
		return apierror.Conflict("email already registered")
	case errors.Is(err, model.ErrUsernameTaken):
		return apierror.Conflict("username already in use")
	case errors.Is(err, model.ErrUserNotFound):
		return apierror.NotFound("user not found")
	case errors.Is(err, model.ErrProductNotFound):
		return apierror.NotFound("product not found")
	case errors.Is(err, model.ErrCartItemNotFound):
		return apierror.NotFound("cart item not found")
	case errors.Is(err, model.ErrCartQuantity):
		return apierror.Validation("invalid data", []apierror.FieldIssue{{
			Field:   "quantity",
			Message: fmt.Sprintf("quantity in cart must be at most %d", model.MaxCartQuantity),
		}})
	case errors.Is(err, model.ErrNothingToUpdate):
		return apierror.Validation("nothing to update", []apierror.FieldIssue{{
			Field:   "body",
			Message: "at least one field must be provided",
		}})
	default:
		return apierror.Internal()
	}
}
