// Provides adapters for standardizing HTTP handlers.

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/mavendb/mavend/internal/server/dto"
	"github.com/mavendb/mavend/internal/server/handlers"
)

// maxBodyBytes caps request body reads. The API is GET-only, so any body
// at all is unusual; the cap is purely defensive.
const maxBodyBytes = 1 << 20

// Wrap wraps a handler function to work as an http.Handler.
// The function must have signature: func(context.Context, *In) (*Out, error)
// where In can be unmarshalled from JSON and Out is a struct or slice.
// Path parameters are extracted from struct fields tagged `path:"name"`,
// query parameters from fields tagged `query:"name"`.
// *In must implement dto.Validatable.
//
// A nil *Out with a nil error produces 204 No Content.
//
// Example:
//
//	type GetFileRequest struct {
//	    FileName string `path:"file_name"`
//	}
//
//	func (h *Handler) GetFile(ctx context.Context, req *GetFileRequest) (*dto.Artifact, error)
func Wrap[In any, PtrIn interface {
	*In
	dto.Validatable
}, Out any](fn func(context.Context, PtrIn) (*Out, error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		input := new(In)
		if !readAndDecodeBody(ctx, w, r, input) {
			return
		}

		populatePathParams(r, input)
		if err := populateQueryParams(r, input); err != nil {
			handleValidationError(ctx, w, err)
			return
		}

		if err := PtrIn(input).Validate(); err != nil {
			handleValidationError(ctx, w, err)
			return
		}

		output, err := fn(ctx, PtrIn(input))
		writeJSONResponse(ctx, w, output, err)
	})
}

// WrapAdmin wraps a handler that requires an admin bearer token.
func WrapAdmin[In any, PtrIn interface {
	*In
	dto.Validatable
}, Out any](fn func(context.Context, PtrIn) (*Out, error), secret []byte) http.Handler {
	inner := Wrap[In, PtrIn, Out](fn)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tokenString, err := bearerToken(r)
		if err != nil {
			writeError(ctx, w, dto.Unauthorized())
			return
		}
		if err := handlers.ValidateAdminToken(ctx, tokenString, secret); err != nil {
			writeError(ctx, w, err)
			return
		}
		inner.ServeHTTP(w, r)
	})
}

var errInvalidAuthHdr = errors.New("invalid authorization header")

// bearerToken extracts the bearer token from the Authorization header.
func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errInvalidAuthHdr
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errInvalidAuthHdr
	}
	return parts[1], nil
}

// readAndDecodeBody reads the request body with size limit and decodes JSON
// into input. Returns false if an error occurred and was written to the
// response.
func readAndDecodeBody[In any](ctx context.Context, w http.ResponseWriter, r *http.Request, input *In) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	body, err := io.ReadAll(r.Body)
	if err2 := r.Body.Close(); err == nil {
		err = err2
	}
	if err != nil {
		slog.ErrorContext(ctx, "Failed to read request body", "err", err)
		writeError(ctx, w, dto.BadRequest("Failed to read request body"))
		return false
	}

	if len(body) > 0 {
		d := json.NewDecoder(bytes.NewReader(body))
		d.DisallowUnknownFields()
		if err := d.Decode(input); err != nil {
			slog.ErrorContext(ctx, "Failed to decode request body", "err", err)
			writeError(ctx, w, dto.BadRequest("Invalid request body"))
			return false
		}
	}
	return true
}

// writeJSONResponse writes a JSON response or error response.
func writeJSONResponse[Out any](ctx context.Context, w http.ResponseWriter, output *Out, err error) {
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if output == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(output); err != nil {
		slog.ErrorContext(ctx, "Failed to encode response", "err", err)
	}
}

// writeError maps an error to the JSON error envelope.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	errorCode := dto.ErrorCodeInternal
	details := make(map[string]any)

	var ewsErr dto.ErrorWithStatus
	if errors.As(err, &ewsErr) {
		statusCode = ewsErr.StatusCode()
		errorCode = ewsErr.Code()
		if d := ewsErr.Details(); d != nil {
			details = d
		}
	}

	if statusCode >= http.StatusInternalServerError {
		slog.ErrorContext(ctx, "Handler error", "err", err, "statusCode", statusCode, "code", errorCode)
	}
	writeErrorResponseWithCode(w, statusCode, errorCode, err.Error(), details)
}

// handleValidationError handles a validation error from a request's
// Validate method.
func handleValidationError(ctx context.Context, w http.ResponseWriter, err error) {
	statusCode := http.StatusBadRequest
	errorCode := dto.ErrorCodeValidationFailed
	details := make(map[string]any)

	var ewsErr dto.ErrorWithStatus
	if errors.As(err, &ewsErr) {
		statusCode = ewsErr.StatusCode()
		errorCode = ewsErr.Code()
		if d := ewsErr.Details(); d != nil {
			details = d
		}
	}

	slog.DebugContext(ctx, "Validation error", "err", err, "statusCode", statusCode, "code", errorCode)
	writeErrorResponseWithCode(w, statusCode, errorCode, err.Error(), details)
}

// writeErrorResponseWithCode writes a detailed error response as JSON with
// code and details.
func writeErrorResponseWithCode(w http.ResponseWriter, statusCode int, code dto.ErrorCode, message string, details map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := dto.ErrorResponse{
		Error: dto.ErrorDetails{
			Code:    code,
			Message: message,
		},
		Details: details,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("Failed to encode error response", "error", err)
	}
}

// populatePathParams extracts path parameters from the request and populates
// struct fields tagged with `path:"paramName"`.
func populatePathParams(r *http.Request, input any) {
	val := reflect.ValueOf(input)
	if val.Kind() != reflect.Pointer {
		return
	}

	elem := val.Elem()
	if elem.Kind() != reflect.Struct {
		return
	}

	typ := elem.Type()
	for i := range typ.NumField() {
		field := typ.Field(i)
		tag := field.Tag.Get("path")
		if tag == "" {
			continue
		}

		paramValue := r.PathValue(tag)
		if paramValue == "" {
			continue
		}

		if field.Type.Kind() == reflect.String {
			elem.Field(i).SetString(paramValue)
		}
	}
}

// populateQueryParams extracts query parameters from the request and
// populates struct fields tagged with `query:"paramName"`. A *int field
// stays nil when the parameter is absent, so handlers can tell an explicit
// 0 apart from a missing parameter. Unparsable numeric values are a
// validation error.
func populateQueryParams(r *http.Request, input any) error {
	val := reflect.ValueOf(input)
	if val.Kind() != reflect.Pointer {
		return nil
	}

	elem := val.Elem()
	if elem.Kind() != reflect.Struct {
		return nil
	}

	query := r.URL.Query()
	typ := elem.Type()
	for i := range typ.NumField() {
		field := typ.Field(i)
		tag := field.Tag.Get("query")
		if tag == "" {
			continue
		}

		paramValue := query.Get(tag)
		if paramValue == "" {
			continue
		}

		fieldVal := elem.Field(i)
		switch field.Type.Kind() {
		case reflect.String:
			fieldVal.SetString(paramValue)
		case reflect.Int:
			intVal, err := strconv.Atoi(paramValue)
			if err != nil {
				return dto.BadRequest("Invalid integer for query parameter " + tag)
			}
			fieldVal.SetInt(int64(intVal))
		case reflect.Pointer:
			if field.Type.Elem().Kind() != reflect.Int {
				continue
			}
			intVal, err := strconv.Atoi(paramValue)
			if err != nil {
				return dto.BadRequest("Invalid integer for query parameter " + tag)
			}
			p := reflect.New(field.Type.Elem())
			p.Elem().SetInt(int64(intVal))
			fieldVal.Set(p)
		}
	}
	return nil
}
