package routes

import (
	"net/http"

	"vivaah_server/controllers"
	"vivaah_server/middleware"

	"github.com/gorilla/mux"
)

// RegisterInviteRoutes registers all invitation-related routes under `/api/invitations`
func RegisterInviteRoutes(api *mux.Router, controller *controllers.InviteController, limiter *middleware.RateLimiter) {
	var create http.Handler = http.HandlerFunc(controller.CreateInviteHandler)
	if limiter != nil {
		create = middleware.RateLimit(limiter)(create)
	}

	inviteRouter := api.PathPrefix("/invitations").Subrouter()
	inviteRouter.Handle("", create).Methods("POST")                                              // Send an invitation
	inviteRouter.HandleFunc("", controller.GetInvitesHandler).Methods("GET")                     // Sent + received
	inviteRouter.HandleFunc("/connections", controller.GetConnectionsHandler).Methods("GET")     // Accepted only
	inviteRouter.HandleFunc("/{id}/status", controller.UpdateInviteStatusHandler).Methods("PUT") // Accept / decline
}
