package utils

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the error envelope returned to clients
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable code and a human readable message
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteJSONResponse writes payload as JSON with the given status
func WriteJSONResponse(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteError writes the error envelope
func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSONResponse(w, status, ErrorBody{Error: ErrorDetail{Code: code, Message: message}})
}
