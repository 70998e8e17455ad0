package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/content"
	"storefront/internal/database"
	"storefront/internal/events"
	"storefront/internal/geocode"
	"storefront/internal/handler"
	"storefront/internal/payment"
	"storefront/internal/receipt"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting storefront API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, pool, logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	repos := repository.New(pool, logger)

	receipts, closeReceipts, err := newReceiptCache(ctx, cfg.Redis, logger)
	if err != nil {
		return err
	}
	defer closeReceipts()

	pages, err := newPageLibrary(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to load policy pages: %w", err)
	}

	shipping, err := decimal.NewFromString(cfg.Checkout.ShippingCharges)
	if err != nil {
		return fmt.Errorf("invalid shipping charges: %w", err)
	}

	geocoder := geocode.NewClient(cfg.Geocoder, logger)
	normalizer := checkout.NewNormalizer(logger)

	deps := service.OrderDependencies{
		Carts:           repos.Carts,
		Products:        repos.Products,
		Orders:          repos.Orders,
		Profiles:        repos.Profiles,
		Normalizer:      normalizer,
		Composer:        checkout.NewComposer(cfg.Checkout.DefaultRegion, logger),
		FanOut:          checkout.NewFanOutWriter(repos.Sellers, cfg.Checkout.FanOutConcurrency, logger),
		Recorder:        checkout.NewRecorder(repos.Carts, receipts, logger),
		Geocoder:        geocoder,
		ShippingCharges: shipping,
	}

	if cfg.Payment.Enabled() {
		deps.Gateway = payment.NewRazorpay(cfg.Payment, logger)
	} else {
		logger.Warn().Msg("payment gateway credentials not set, only cash on delivery is available")
	}

	if len(cfg.Kafka.Brokers) > 0 {
		publisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		defer publisher.Close()
		deps.Publisher = publisher
	} else {
		logger.Info().Msg("kafka brokers not set, order events are not published")
		deps.Publisher = events.Nop{}
	}

	// Initialize services
	productService := service.NewProductService(repos.Products, logger)
	cartService := service.NewCartService(repos.Carts, repos.Products, normalizer, logger)
	ratingService := service.NewRatingService(repos.Ratings, repos.Products, logger)
	profileService := service.NewProfileService(repos.Profiles, logger)
	orderService := service.NewOrderService(deps, logger)

	// Initialize router
	mux := router.New(router.Handlers{
		Products: handler.NewProductHandler(productService, ratingService, logger),
		Carts:    handler.NewCartHandler(cartService, logger),
		Orders:   handler.NewOrderHandler(orderService, logger),
		Profiles: handler.NewProfileHandler(profileService, logger),
		Geocode:  handler.NewGeocodeHandler(geocoder, logger),
		Pages:    handler.NewPageHandler(pages, logger),
		Receipts: handler.NewReceiptHandler(receipts, logger),
	}, cfg.Server, cfg.Auth, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newReceiptCache connects to Redis when enabled and otherwise keeps
// receipts in memory.
func newReceiptCache(ctx context.Context, cfg config.RedisConfig, logger zerolog.Logger) (receipt.Cache, func(), error) {
	if !cfg.Enabled {
		logger.Info().Msg("redis disabled, caching receipts in memory")
		return receipt.NewMemoryCache(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info().Str("addr", cfg.Addr).Msg("receipt cache connected to redis")
	return receipt.NewRedisCache(client, cfg.ReceiptTTL, logger), func() { client.Close() }, nil
}

// newPageLibrary loads the policy pages, preferring S3 when it is enabled.
func newPageLibrary(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*content.Library, error) {
	fileLoader := content.NewFileLoader(cfg.Content.Dir, logger)

	var s3Loader content.Loader
	if cfg.S3.Enabled {
		loader, err := content.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			s3Loader = loader
		}
	} else {
		logger.Info().Msg("using local file system for policy pages (S3 disabled)")
	}

	loader := content.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, s3Loader != nil, logger)
	return content.NewLibrary(ctx, cfg.Content.Slugs, loader, logger)
}
