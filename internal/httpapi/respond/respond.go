// Package respond writes JSON responses for the HTTP façade.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/DataScyther/Neeva-AI-sub000/internal/errors"
)

// Kind is the failure class a client can branch on without parsing messages.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindUnauthenticated Kind = "unauthenticated"
	KindNotFound        Kind = "not_found"
	KindUnavailable     Kind = "unavailable"
	KindInternal        Kind = "internal"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Kind    Kind   `json:"kind"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

// WriteJSON writes data with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// WriteError writes an ErrorResponse.
func WriteError(w http.ResponseWriter, statusCode int, kind Kind, message string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Kind:    kind,
		Code:    statusCode,
		Message: message,
	})
}

func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, KindValidation, message)
}

func WriteUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="neeva"`)
	WriteError(w, http.StatusUnauthorized, KindUnauthenticated, message)
}

func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, KindNotFound, message)
}

func WriteUnavailable(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusServiceUnavailable, KindUnavailable, message)
}

func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, KindInternal, message)
}

// WriteClassified answers a failure from a remote collaborator. Recoverable
// and configuration failures are reported as unavailable; anything else is
// internal.
func WriteClassified(w http.ResponseWriter, err error) {
	switch {
	case errors.KindOf(err) == errors.KindConfig:
		WriteUnavailable(w, "service is not configured")
	case errors.IsRecoverable(err):
		WriteUnavailable(w, "temporarily unavailable, try again later")
	default:
		WriteInternalError(w, "internal error")
	}
}
