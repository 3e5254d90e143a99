package routes

import (
	"vivaah_server/controllers"
	"vivaah_server/middleware"

	"github.com/gorilla/mux"
)

// RegisterAdminRoutes registers moderation routes under /api/admin
func RegisterAdminRoutes(api *mux.Router, controller *controllers.UserProfileController) {
	adminRouter := api.PathPrefix("/admin").Subrouter()
	adminRouter.Use(middleware.RequireAdmin)

	adminRouter.HandleFunc("/profiles", controller.ListProfilesForAdmin).Methods("GET")
	adminRouter.HandleFunc("/profiles/{id}/status", controller.SetProfileStatus).Methods("PUT")
	adminRouter.HandleFunc("/profiles/{id}", controller.DeleteUserProfile).Methods("DELETE")
}
