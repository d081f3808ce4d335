package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/arkiflo/arkiflo/pkg/composables"
	"github.com/arkiflo/arkiflo/pkg/constants"
	"github.com/arkiflo/arkiflo/pkg/serrors"
)

// ErrorEnvelope standardizes JSON error responses across all API namespaces.
type ErrorEnvelope struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// AccessDeniedMessage is the exact copy the client surfaces on 403.
const AccessDeniedMessage = "Access denied. You do not have permission to perform this action."

var ErrNotFound = serrors.ErrNotFound

func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		panic(err)
	}
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, &ErrorEnvelope{Code: code, Message: message})
}

func WriteValidationError(w http.ResponseWriter, fields map[string]string) {
	WriteJSON(w, http.StatusUnprocessableEntity, &ErrorEnvelope{
		Code:    "VALIDATION_FAILED",
		Message: "one or more fields are invalid",
		Fields:  fields,
	})
}

// RespondError maps service errors onto the error taxonomy: authorization,
// not-found, coded domain errors, and everything else as an opaque 500. The
// cause is logged; the payload never leaks internals.
func RespondError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, composables.ErrForbidden):
		WriteError(w, http.StatusForbidden, "FORBIDDEN", AccessDeniedMessage)
	case errors.Is(err, composables.ErrUnauthorized), errors.Is(err, composables.ErrNoUser):
		WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
	case errors.Is(err, ErrNotFound):
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
	default:
		var base *serrors.Base
		if errors.As(err, &base) {
			WriteJSON(w, http.StatusBadRequest, &ErrorEnvelope{Code: base.Code, Message: base.Message})
			return
		}
		composables.UseLogger(ctx).WithError(err).Error("request failed")
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal server error")
	}
}

// DecodeAndValidate parses a JSON body into dto and runs struct validation.
// Validation failures are written to the response; callers stop on false.
// This is the pre-submission check: invalid drafts never reach storage.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dto any) bool {
	if err := json.NewDecoder(r.Body).Decode(dto); err != nil {
		WriteError(w, http.StatusBadRequest, "BAD_JSON", "request body is not valid JSON")
		return false
	}
	if err := constants.Validate.Struct(dto); err != nil {
		fields := map[string]string{}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
		}
		WriteValidationError(w, fields)
		return false
	}
	return true
}

// Confirmed gates destructive actions behind an explicit confirmation value.
// When absent the request is rejected and not executed.
func Confirmed(w http.ResponseWriter, r *http.Request) bool {
	if r.URL.Query().Get("confirm") == "true" {
		return true
	}
	WriteError(w, http.StatusBadRequest, "CONFIRMATION_REQUIRED",
		"this action is destructive; repeat the request with confirm=true")
	return false
}
