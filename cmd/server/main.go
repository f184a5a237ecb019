// @title           Outfit Studio API
// @version         1.0.0
// @description     Backend for the outfit deck: the outfit collection, the shuffled and filtered catalog, generated image records and try-on rendering.

// @BasePath  /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"outfit-studio/internal/catalog"
	"outfit-studio/internal/config"
	"outfit-studio/internal/database"
	"outfit-studio/internal/handlers"
	"outfit-studio/internal/imagegen"
	"outfit-studio/internal/logging"
	"outfit-studio/internal/middleware"
	"outfit-studio/internal/services"
	"outfit-studio/internal/supabase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := supabase.NewDatabaseClient(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer dbClient.Close()

	if err := database.NewMigrator(dbClient.DB(), logger).Run(ctx); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	storageClient, err := supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, cfg.SupabaseStorageBucket)
	if err != nil {
		logger.Fatal("failed to initialize storage client", zap.Error(err))
	}

	var outfitSource catalog.OutfitSource = dbClient
	if cfg.OutfitSource == config.OutfitSourcePostgREST {
		table, err := supabase.NewOutfitTable(cfg.SupabaseURL, cfg.SupabasePublishableKey)
		if err != nil {
			logger.Fatal("failed to initialize outfit table", zap.Error(err))
		}
		outfitSource = table
	}
	logger.Info("outfit source selected", zap.String("source", cfg.OutfitSource))

	loader := catalog.NewLoader(outfitSource, storageClient, logger.Named("catalog"))
	imageClient := imagegen.NewClient(cfg.ImageAPIBaseURL, cfg.ImageAPIKey, cfg.ImageAPIModel)
	tryOnService := services.NewTryOnService(imageClient, storageClient, dbClient, dbClient, logger.Named("tryon"))

	tryOnLimiter := middleware.PerMinute(cfg.TryOnPerMinute)
	go sweepLimiter(ctx, tryOnLimiter)

	router := gin.New()
	router.Use(middleware.TraceID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))

	router.GET("/health", handlers.HealthHandler)
	router.GET("/ready", handlers.ReadinessHandler(dbClient.DB()))

	authHandler := handlers.NewAuthHandler(dbClient, dbClient, cfg.JWTSecret, cfg.JWTTTL, logger)
	outfitsHandler := handlers.NewOutfitsHandler(outfitSource, logger)
	catalogHandler := handlers.NewCatalogHandler(loader, dbClient, logger)
	imagesHandler := handlers.NewImagesHandler(dbClient, storageClient, logger)
	tryOnHandler := handlers.NewTryOnHandler(tryOnService, logger)

	router.POST("/signup", authHandler.Signup)
	router.POST("/signin", authHandler.Signin)
	router.GET("/getAllOutfits", outfitsHandler.GetAllOutfits)

	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg))

	api.GET("/profile", authHandler.GetProfile)

	api.GET("/catalog", catalogHandler.GetCatalog)
	api.GET("/catalog/filters", catalogHandler.GetFilterOptions)

	api.POST("/images", imagesHandler.RecordImage)
	api.GET("/images", imagesHandler.ListImages)
	api.DELETE("/images/:image_id", imagesHandler.DeleteImage)

	api.POST("/photos", tryOnHandler.UploadPhoto)
	api.POST("/tryon", middleware.RateLimit(tryOnLimiter), tryOnHandler.TryOn)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", server.Addr), zap.String("base_url", cfg.BaseURL))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func sweepLimiter(ctx context.Context, limiter *middleware.RateLimiter) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Sweep()
		}
	}
}
