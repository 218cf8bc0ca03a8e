// Package respond holds the JSON helpers shared by the HTTP handlers.
package respond

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"

	"github.com/ovaphlow/pitchfork/service-animal-go/internal/apperr"
)

// maxBodyBytes bounds request bodies; every payload here is a handful of
// short fields.
const maxBodyBytes = 1 << 20

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Message writes {"message": msg}.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"message": msg})
}

// Decode reads a JSON body into v. Malformed or empty bodies come back as
// a validation error so they never reach a service.
func Decode(r *http.Request, v any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return apperr.Validation(apperr.FieldError{Field: typeErr.Field, Message: "must be " + jsonKind(typeErr.Type)})
		}
		msg := "must be a JSON object"
		if errors.Is(err, io.EOF) {
			msg = "is required"
		}
		return apperr.Validation(apperr.FieldError{Field: "body", Message: msg})
	}
	return nil
}

// jsonKind names the JSON value a Go type decodes from.
func jsonKind(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Slice, reflect.Array:
		return "an array"
	default:
		return "an object"
	}
}

// Status maps an error to its default HTTP status. Handlers override it
// where an operation has its own contract (login, the authorization gate).
func Status(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindConflict:
		return http.StatusBadRequest
	case apperr.KindAuthentication:
		if apperr.CodeOf(err) == apperr.CodeLookupFailed {
			return http.StatusForbidden
		}
		return http.StatusUnauthorized
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindInfrastructure:
		if apperr.CodeOf(err) == apperr.CodeTimeout {
			return http.StatusServiceUnavailable
		}
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// ErrorBody is the generic error payload. Fields is only populated for
// validation errors; causes are never included.
type ErrorBody struct {
	Message string              `json:"message"`
	Errors  []apperr.FieldError `json:"errors,omitempty"`
}

// Error writes the default error response for err with msg as the message.
func Error(w http.ResponseWriter, err error, msg string) {
	JSON(w, Status(err), ErrorBody{Message: msg, Errors: apperr.FieldsOf(err)})
}
