package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pkordes/meetpoint/internal/domain"
)

// ErrorResponse is the envelope of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine-readable code and a human message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func errorBody(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// writeJSON writes v as the JSON body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// requestError rejects a request before it reaches the service layer
// (e.g. missing or malformed body).
func requestError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnprocessableEntity, errorBody("validation_error", message))
}

// paramError rejects a malformed path or query parameter.
func paramError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, errorBody("bad_request", err.Error()))
}

// writeError maps a service error onto the HTTP status and error envelope.
// notFound is the message for not-found errors (e.g. "meeting not found").
// Storage faults never leak their cause; the service layer has already logged it.
func writeError(w http.ResponseWriter, err error, notFound string) {
	switch domain.ErrorKind(err) {
	case "not_found":
		writeJSON(w, http.StatusNotFound, errorBody("not_found", notFound))
	case "validation":
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("validation_error", unwrapMessage(err, domain.ErrValidation)))
	case "conflict":
		msg := unwrapMessage(err, domain.ErrConflict)
		if errors.Is(err, domain.ErrAllocationExhausted) {
			msg = "could not allocate a meeting param, retry later"
		}
		writeJSON(w, http.StatusConflict, errorBody("conflict", msg))
	case "unauthorized":
		writeJSON(w, http.StatusForbidden, errorBody("forbidden", "not authorized for this meeting"))
	case "creation_failed":
		writeJSON(w, http.StatusInternalServerError, errorBody("creation_failed", "meeting could not be created"))
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody("internal_error", "internal server error"))
	}
}

// unwrapMessage extracts the human-readable part that follows the sentinel in
// a wrapped error, e.g.
// "service.MemberService.Join: conflict: nickname \"bob\" is taken" → "nickname \"bob\" is taken".
// Without a detail the sentinel text itself is returned.
func unwrapMessage(err, sentinel error) string {
	msg := err.Error()
	marker := sentinel.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return sentinel.Error()
}
