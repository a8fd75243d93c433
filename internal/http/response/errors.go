package response

import (
	"encoding/json"
	"net/http"

	"github.com/diagnosis/tourvisto-admin/pkg/logger"
)

// ErrorResponse represents a structured JSON error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// WriteJSON writes data as a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

// WriteError writes a structured JSON error response
func WriteError(w http.ResponseWriter, statusCode int, message string, code string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// Common error codes
const (
	CodeNotFound = "NOT_FOUND"
	CodeUpstream = "UPSTREAM_UNAVAILABLE"
)

func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message, CodeNotFound)
}

func BadGateway(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadGateway, message, CodeUpstream)
}
