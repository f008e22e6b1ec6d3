package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/AnshRaj112/journal-backend/internal/config"
	"github.com/AnshRaj112/journal-backend/internal/database"
	"github.com/AnshRaj112/journal-backend/internal/handlers"
	"github.com/AnshRaj112/journal-backend/internal/identity"
	"github.com/AnshRaj112/journal-backend/internal/routes"
	"github.com/AnshRaj112/journal-backend/internal/services"
	"github.com/AnshRaj112/journal-backend/internal/store"
	"github.com/AnshRaj112/journal-backend/pkg/logger"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		logger.Log.Info("no .env file found")
	}
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.IsProduction())

	if cfg.FirebaseKey == "" {
		logger.Log.Warn("FIREBASE_KEY not set: every identity call will be rejected by the provider")
	}

	logger.Log.WithField("uri", database.MaskURI(cfg.MongoURI)).Info("connecting to MongoDB")
	if err := database.Connect(cfg.MongoURI, cfg.MongoDatabase); err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer database.Disconnect()

	st := store.New(database.DB)
	idxCtx, idxCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := st.EnsureIndexes(idxCtx); err != nil {
		logger.Log.WithError(err).Warn("failed to ensure MongoDB indexes")
	}
	idxCancel()

	// Redis is optional: the subject cache and the shared rate limit need it.
	if cfg.RedisURI != "" {
		if err := database.ConnectRedis(cfg.RedisURI); err != nil {
			logger.Log.WithError(err).Warn("failed to connect to Redis, continuing without it")
		} else {
			defer database.DisconnectRedis()
		}
	}

	firebaseClient := identity.NewFirebaseClient(cfg.FirebaseKey)
	resolver := buildResolver(cfg, firebaseClient)

	var uploader services.Uploader
	if cfg.CloudinaryConfigured() {
		cld, err := services.NewCloudinaryService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			logger.Log.WithError(err).Warn("file uploads will not be available")
		} else {
			uploader = cld
			logger.Log.Info("cloudinary service initialized")
		}
	} else {
		logger.Log.Warn("cloudinary credentials not found, file uploads will not be available")
	}

	h := routes.Handlers{
		Users:    handlers.NewUserHandler(services.NewUserService(firebaseClient, resolver, st), cfg.RequestTimeout),
		Journals: handlers.NewJournalHandler(services.NewJournalService(st), cfg.RequestTimeout),
		Upload:   handlers.NewUploadHandler(services.NewUploadService(uploader), cfg.RequestTimeout),
	}
	r := routes.NewRouter(h, routes.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		Production:     cfg.IsProduction(),
		Redis:          database.RedisClient,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.WithField("port", cfg.Port).Info("journal backend running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.WithError(err).Fatal("failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("graceful shutdown failed")
	}
	logger.Log.Info("server stopped")
}

// buildResolver prefers local ID token verification when service account
// credentials are configured. Only that path is cached in Redis, since it
// knows each token's expiry; accounts:lookup answers are never reused.
func buildResolver(cfg *config.Config, fallback identity.Resolver) identity.Resolver {
	if cfg.FirebaseCredentialsFile == "" {
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	v, err := identity.NewAdminVerifier(ctx, cfg.FirebaseCredentialsFile)
	if err != nil {
		logger.Log.WithError(err).Warn("firebase admin verifier unavailable, using accounts:lookup")
		return fallback
	}
	if database.RedisClient != nil && cfg.IdentityCacheTTL > 0 {
		return identity.NewCachedResolver(v, database.RedisClient, cfg.IdentityCacheTTL)
	}
	return v
}
