// Package httputil centralizes JSON response writing and domain error
// translation so every handler returns the same envelope.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "sprout/pkg/domain-errors"
)

// errorResponse is the wire envelope for failures.
type errorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

// statusByCode maps domain error codes to HTTP statuses.
var statusByCode = map[dErrors.Code]int{
	dErrors.CodeDuplicateRecord: http.StatusConflict,
	dErrors.CodeNotFound:        http.StatusNotFound,
	dErrors.CodeForbidden:       http.StatusForbidden,
	dErrors.CodeInvalidState:    http.StatusConflict,
	dErrors.CodeConflict:        http.StatusConflict,
	dErrors.CodeInvalidInput:    http.StatusBadRequest,
	dErrors.CodeBadRequest:      http.StatusBadRequest,
	dErrors.CodeUnauthorized:    http.StatusUnauthorized,
	dErrors.CodeInternal:        http.StatusInternalServerError,
}

// WriteError translates a domain error into the JSON error envelope.
// Internal errors omit the description so infrastructure details never leak
// to clients; the full error is in the server log.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
		code = dErrors.CodeInternal
	}

	resp := errorResponse{Error: string(code)}
	if code != dErrors.CodeInternal {
		var domainErr *dErrors.Error
		if errors.As(err, &domainErr) {
			resp.Description = domainErr.Message
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// WriteJSON writes a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}
