package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"vivaah_server/config"
	"vivaah_server/middleware"
	"vivaah_server/routes"
	"vivaah_server/services"
	"vivaah_server/socket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	profiles, invitations, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}

	var (
		notifier     services.Notifier = services.NoopNotifier{}
		socketServer *socket.Server
	)
	if cfg.SocketEnabled {
		socketServer = socket.NewSocketServer([]byte(cfg.JWTSecret), logger)
		go socketServer.Serve()
		defer socketServer.Close()
		notifier = socketServer
		logger.Info("socket server started")
	}

	// Initialize Services
	userProfileService := services.NewUserProfileService(profiles, invitations, notifier, logger)
	inviteService := services.NewInviteService(invitations, profiles, notifier, logger)

	var photoService *services.PhotoService
	if cfg.S3BucketName != "" {
		photoService, err = services.NewPhotoService(ctx, cfg.AWSRegion, cfg.S3BucketName, cfg.PhotoBaseURL)
		if err != nil {
			return err
		}
	} else {
		logger.Warn("S3_BUCKET_NAME not set, photo uploads disabled")
	}

	limiter := middleware.NewRateLimiter(cfg.InviteRatePerMinute, cfg.InviteRateBurst, 5*time.Minute)
	go limiter.RunCleanup(ctx.Done())

	deps := routes.Dependencies{
		Profiles:       userProfileService,
		Invites:        inviteService,
		Photos:         photoService,
		InviteLimiter:  limiter,
		JWTSecret:      []byte(cfg.JWTSecret),
		RequestTimeout: cfg.RequestTimeout,
		Logger:         logger,
	}
	if socketServer != nil {
		deps.Socket = socketServer.Handler()
	}

	r := mux.NewRouter()
	routes.RegisterRoutes(r, deps)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
	}).Handler(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           corsHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "port", cfg.Port, "store", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStores(ctx context.Context, cfg config.Config, logger *slog.Logger) (services.ProfileStore, services.InvitationStore, error) {
	if cfg.StoreBackend == config.BackendMemory {
		logger.Warn("using in-memory stores, data is lost on restart")
		return services.NewMemoryProfileStore(), services.NewMemoryInvitationStore(), nil
	}

	logger.Info("initializing DynamoDB client", "region", cfg.AWSRegion, "endpoint", cfg.DynamoDBEndpoint)
	client, err := services.InitializeDynamoDBClient(ctx, cfg.AWSRegion, cfg.DynamoDBEndpoint)
	if err != nil {
		return nil, nil, err
	}
	dynamo := &services.DynamoService{Client: client, Logger: logger}
	return services.NewDynamoProfileStore(dynamo, cfg.ProfilesTable),
		services.NewDynamoInvitationStore(dynamo, cfg.InvitationsTable, cfg.InvitationPairsTable),
		nil
}
