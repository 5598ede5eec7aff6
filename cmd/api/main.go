package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/skyhire/skyhire-api/internal/config"
	"github.com/skyhire/skyhire-api/internal/domain/auth"
	"github.com/skyhire/skyhire-api/internal/domain/availability"
	"github.com/skyhire/skyhire-api/internal/domain/booking"
	"github.com/skyhire/skyhire-api/internal/domain/notification"
	"github.com/skyhire/skyhire-api/internal/domain/profile"
	"github.com/skyhire/skyhire-api/internal/domain/search"
	"github.com/skyhire/skyhire-api/internal/domain/user"
	"github.com/skyhire/skyhire-api/internal/pkg/database"
	"github.com/skyhire/skyhire-api/internal/pkg/imaging"
	"github.com/skyhire/skyhire-api/internal/pkg/jwt"
	"github.com/skyhire/skyhire-api/internal/pkg/logger"
	"github.com/skyhire/skyhire-api/internal/pkg/recommender"
	"github.com/skyhire/skyhire-api/internal/pkg/storage"
)

const userAgent = "skyhire-api/1.0"

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
	})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting SkyHire API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	files, err := storage.New(context.Background(), storage.Config{
		Driver:      cfg.StorageDriver,
		LocalPath:   cfg.StorageLocalPath,
		PublicURL:   cfg.StoragePublicURL,
		S3Endpoint:  cfg.S3Endpoint,
		S3Region:    cfg.S3Region,
		S3Bucket:    cfg.S3Bucket,
		S3AccessKey: cfg.S3AccessKey,
		S3SecretKey: cfg.S3SecretKey,
		R2: storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			AccessKeySecret: cfg.R2AccessKeySecret,
			BucketName:      cfg.R2BucketName,
			PublicURL:       cfg.R2PublicURL,
		},
	})
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StorageDriver).Msg("Failed to create storage")
	}

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	tx := database.NewTxManager(db)

	// ---------- WebSocket hub ----------
	hub := notification.NewHub(redis)
	go hub.Run()
	defer hub.Shutdown()

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	profileRepo := profile.NewRepository(db)
	availabilityRepo := availability.NewRepository(db)
	bookingRepo := booking.NewRepository(db)

	// ---------- Services ----------
	profileService := profile.NewService(profileRepo, userRepo, tx, files, imaging.NewProcessor(imaging.DefaultConfig()))
	authService := auth.NewService(userRepo, profileService, tx, jwtService, auth.NewRedisRefreshStore(redis))
	availabilityService := availability.NewService(availabilityRepo, profileService, profileRepo, tx)
	bookingService := booking.NewService(bookingRepo, userRepo, profileRepo, availabilityRepo, tx, notification.NewPublisher(hub))

	recommenderClient := recommender.NewClient(cfg.RecommenderBaseURL, cfg.RecommenderAPIKey, cfg.RecommenderModel, cfg.RecommenderTimeout(), userAgent)
	if !recommenderClient.Configured() {
		log.Warn().Msg("Recommender not configured, /search will answer DEPENDENCY_ERROR")
	}
	searchService := search.NewService(profileRepo, availabilityService, recommenderClient, search.NewRedisCache(redis), cfg.SearchCacheTTL)

	// ---------- Handlers ----------
	deps := &routerDeps{
		jwt:            jwtService,
		allowedOrigins: cfg.AllowedOrigins,
		auth:           auth.NewHandler(authService),
		profiles:       profile.NewHandler(profileService, availabilityService),
		availability:   availability.NewHandler(availabilityService),
		bookings:       booking.NewHandler(bookingService),
		search:         search.NewHandler(searchService),
		ws:             notification.NewHandler(hub, cfg.AllowedOrigins),
	}
	if local, ok := files.(*storage.LocalStorage); ok {
		deps.uploadsDir = local.BasePath()
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newRouter(deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
