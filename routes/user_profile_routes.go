package routes

import (
	"vivaah_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterUserProfileRoutes sets up routes for user profile operations under /api/profiles.
// {id} is a profile id or "self".
func RegisterUserProfileRoutes(api *mux.Router, controller *controllers.UserProfileController) {
	profileRouter := api.PathPrefix("/profiles").Subrouter()

	profileRouter.HandleFunc("", controller.CreateUserProfile).Methods("POST")
	profileRouter.HandleFunc("", controller.ListProfiles).Methods("GET")
	profileRouter.HandleFunc("/{id}", controller.GetUserProfileByID).Methods("GET")
	profileRouter.HandleFunc("/{id}", controller.UpdateUserProfile).Methods("PATCH")
}
