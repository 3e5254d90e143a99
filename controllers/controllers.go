package controllers

import (
	"net/http"

	"vivaah_server/utils"
)

// HealthCheckHandler provides a basic health check
func HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSONResponse(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// WelcomeHandler provides a welcome message
func WelcomeHandler(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSONResponse(w, http.StatusOK, map[string]string{"message": "Welcome to the Vivaah API."})
}

// NotFoundHandler answers unknown routes with the error envelope
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	utils.WriteError(w, http.StatusNotFound, "NOT_FOUND", "route not found")
}

// MethodNotAllowedHandler answers known routes called with the wrong method
func MethodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	utils.WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
}
