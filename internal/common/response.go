package common

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, ErrorResponse{Error: message})
}

// RespondWithServiceError writes the {error} body for an error returned by a
// service. Causes of 5xx errors are logged but not echoed back to the client.
func RespondWithServiceError(w http.ResponseWriter, err error) {
	RespondWithJSON(w, HTTPStatusFromError(err), ErrorBody(err))
}

// ErrorBody builds the client-facing error payload for err.
func ErrorBody(err error) ErrorResponse {
	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		log.WithField("details", upstreamErr.Details).Errorf("judge call failed: %v", err)
		return ErrorResponse{Error: "Failed to submit to Judge0", Details: upstreamErr.Details}
	}

	serverSide := HTTPStatusFromError(err) >= http.StatusInternalServerError
	if serverSide {
		log.Error(err)
	}

	var pubErr *PublicError
	if errors.As(err, &pubErr) {
		return ErrorResponse{Error: pubErr.Message}
	}
	if serverSide {
		return ErrorResponse{Error: "Internal server error"}
	}
	return ErrorResponse{Error: err.Error()}
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
