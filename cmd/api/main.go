package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mummysfood/backend/config"
	"github.com/mummysfood/backend/internal/api"
	"github.com/mummysfood/backend/internal/cart"
	"github.com/mummysfood/backend/internal/database"
	"github.com/mummysfood/backend/internal/logging"
	"github.com/mummysfood/backend/internal/middleware"
	"github.com/mummysfood/backend/internal/router"
	"github.com/mummysfood/backend/internal/server"
	"github.com/mummysfood/backend/internal/service"
)

func main() {
	logger, err := logging.New()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logger); err != nil {
		logger.Fatalw("server error", "error", err)
	}
}

func run(logger *zap.SugaredLogger) error {
	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	db, err := database.Open(cfg, logger)
	if err != nil {
		return err
	}
	if err := database.RunMigrations(db, database.Migrations(), logger); err != nil {
		return err
	}

	// Without Redis, carts and revoked tokens fall back to process memory and rate limiting is off
	var (
		redisClient *redis.Client
		carts       cart.Store
		revoker     service.TokenRevoker
	)
	redisClient, err = database.NewRedisClient(context.Background(), cfg, logger)
	if err != nil {
		if config.IsProduction() {
			return err
		}
		logger.Warnw("redis unavailable, using in-memory sessions", "error", err)
		redisClient = nil
		carts = cart.NewMemoryStore(cfg.CartTTL)
		revoker = service.NewMemoryTokenRevoker()
	} else {
		defer redisClient.Close()
		carts = cart.NewRedisStore(redisClient, cfg.CartTTL)
		revoker = service.NewRedisTokenRevoker(redisClient)
	}

	ctx := context.Background()
	s3cfg, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		return err
	}
	images := service.NewImageService(service.NewS3ImageStore(s3cfg), logger)
	geocoder := service.NewNominatimGeocoder(cfg.GeocoderURL, cfg.GeocoderUserAgent, logger)

	svc := &api.Services{
		Auth:    service.NewAuthService(db, cfg.JWTSecret, cfg.TokenTTL, revoker, logger),
		Profile: service.NewProfileService(db, images),
		Address: service.NewAddressService(db, geocoder, logger),
		Meal:    service.NewMealService(db, images, logger),
		Cart:    service.NewCartService(db, carts),
	}
	var limits api.Limiters
	if redisClient != nil {
		limits.MealCreation = middleware.NewMealCreationRateLimiter(redisClient, logger)
		limits.ImageUpload = middleware.NewImageUploadRateLimiter(redisClient, logger)
	}

	srv := server.New(cfg.Addr(), router.SetupRouter(cfg, logger, db, svc, limits), logger)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		logger.Infow("received signal", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Infow("server stopped")
	return nil
}
