// Package handlers exposes the register operations over HTTP. Every response
// uses one envelope shape: {"success": bool, "message": string, ...payload},
// so failures are ordinary payloads with success=false rather than bare
// status codes.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Intern1-ss/Inward-outward-management-system/internal/contextutil"
	"github.com/Intern1-ss/Inward-outward-management-system/internal/service"
)

type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, payload envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeSuccess writes a success envelope with extra payload fields merged in.
func writeSuccess(w http.ResponseWriter, message string, extra envelope) {
	payload := envelope{"success": true, "message": message}
	for k, v := range extra {
		payload[k] = v
	}
	writeJSON(w, http.StatusOK, payload)
}

// writeFailure writes a failure envelope.
func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{"success": false, "message": message})
}

// writeServiceError maps a service error to its status code and user-facing
// message. Known operation errors carry their message verbatim; anything
// unexpected is hidden behind a generic message.
func writeServiceError(w http.ResponseWriter, ctx context.Context, err error) {
	logger := contextutil.LoggerFromContext(ctx)

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		writeFailure(w, http.StatusBadRequest, validationErr.Message)
		return
	}

	switch {
	case errors.Is(err, service.ErrBadEntryID),
		errors.Is(err, service.ErrMissingRequired),
		errors.Is(err, service.ErrEmptyQuery):
		writeFailure(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrEntryNotFound):
		writeFailure(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEntryIncomplete),
		errors.Is(err, service.ErrAlreadyConfirmed):
		writeFailure(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrAccessDenied):
		writeFailure(w, http.StatusForbidden, err.Error())
	default:
		logger.ErrorContext(ctx, "unexpected service error", "error", err)
		writeFailure(w, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		contextutil.LoggerFromContext(r.Context()).WarnContext(r.Context(), "invalid request body", "error", err)
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
