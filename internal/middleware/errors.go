package middleware

import (
	"encoding/json"
	"net/http"
)

// errorResponse mirrors the {"error": ...} body written by the API handlers,
// tagged with the request id when one was assigned
type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSONError(w http.ResponseWriter, r *http.Request, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: message, RequestID: GetRequestID(r.Context())})
}
