package api

import (
	"log/slog"
	"net/http"

	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Kind    sharedDomain.ErrorKind `json:"kind"`
	Message string                 `json:"message"`
	Hint    string                 `json:"hint,omitempty"`
	Label   string                 `json:"label,omitempty"`
}

// StatusForKind maps an error kind to its HTTP status.
func StatusForKind(kind sharedDomain.ErrorKind) int {
	switch kind {
	case sharedDomain.KindIncompleteSelection, sharedDomain.KindInvalidInput:
		return http.StatusBadRequest
	case sharedDomain.KindForbidden:
		return http.StatusForbidden
	case sharedDomain.KindNotFound:
		return http.StatusNotFound
	case sharedDomain.KindInvalidTransition, sharedDomain.KindAlreadyRequested,
		sharedDomain.KindStaleState, sharedDomain.KindBusyConflict:
		return http.StatusConflict
	case sharedDomain.KindPastTime:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeError classifies err and writes it. Internal errors are logged and
// their message is not exposed.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	kind := sharedDomain.KindOf(err)
	status := StatusForKind(kind)

	resp := ErrorResponse{
		Error:   http.StatusText(status),
		Kind:    kind,
		Message: err.Error(),
		Hint:    sharedDomain.Hint(err),
	}
	if label, ok := sharedDomain.BusyConflictLabel(err); ok {
		resp.Label = label
	}
	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		resp.Message = "internal error"
		resp.Hint = ""
	}
	writeJSON(w, status, resp)
}

func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   http.StatusText(http.StatusBadRequest),
		Kind:    sharedDomain.KindInvalidInput,
		Message: message,
	})
}
