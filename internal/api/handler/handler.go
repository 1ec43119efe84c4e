package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"codeclash/internal/api/middleware"
	"codeclash/internal/common"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads the request body into dst and answers 400 itself when the
// body is too large or not valid JSON for dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			common.RespondWithError(w, http.StatusBadRequest, "Request body too large")
			return false
		}
		common.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return false
	}
	return true
}

// actingAs rejects requests where an authenticated caller names someone else.
// It passes when no caller is authenticated on this route.
func actingAs(w http.ResponseWriter, r *http.Request, id string) bool {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok || userID == id {
		return true
	}
	common.RespondWithError(w, http.StatusForbidden, "Not authorized: cannot act for another user")
	return false
}
