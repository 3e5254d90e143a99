package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"vivaah_server/controllers"
	"vivaah_server/middleware"
	"vivaah_server/services"
)

// Dependencies are the services the HTTP surface is built from
type Dependencies struct {
	Profiles       *services.UserProfileService
	Invites        *services.InviteService
	Photos         *services.PhotoService // nil when S3 is not configured
	InviteLimiter  *middleware.RateLimiter
	Socket         http.Handler // nil when sockets are disabled
	JWTSecret      []byte
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// RegisterRoutes sets up the routes for the application
func RegisterRoutes(r *mux.Router, deps Dependencies) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.NotFoundHandler = http.HandlerFunc(controllers.NotFoundHandler)
	r.MethodNotAllowedHandler = http.HandlerFunc(controllers.MethodNotAllowedHandler)

	r.HandleFunc("/health", controllers.HealthCheckHandler).Methods("GET")
	r.HandleFunc("/", controllers.WelcomeHandler).Methods("GET")
	r.HandleFunc("/privacy-policy", PrivacyPolicyHandler).Methods("GET")

	// socket.io upgrades connections itself, so it stays outside the API middleware
	if deps.Socket != nil {
		r.PathPrefix("/socket.io/").Handler(deps.Socket)
	}

	api := r.PathPrefix("/api").Subrouter()
	api.Use(
		middleware.RequestID,
		middleware.Recover(logger),
		middleware.Logging(logger),
	)
	if deps.RequestTimeout > 0 {
		api.Use(middleware.Timeout(deps.RequestTimeout))
	}
	api.Use(middleware.AuthJWT(deps.JWTSecret, logger))

	RegisterUserProfileRoutes(api, controllers.NewUserProfileController(deps.Profiles, logger))
	RegisterAdminRoutes(api, controllers.NewUserProfileController(deps.Profiles, logger))
	RegisterInviteRoutes(api, controllers.NewInviteController(deps.Invites, logger), deps.InviteLimiter)
	RegisterS3Routes(api, controllers.NewPhotoController(deps.Photos, logger))
}
