package routes

import (
	"vivaah_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterS3Routes sets up routes for photo upload operations
func RegisterS3Routes(api *mux.Router, controller *controllers.PhotoController) {
	api.HandleFunc("/uploads/presign", controller.GeneratePresignedURL).Methods("POST")
}
