package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"eventscout/config"
	_ "eventscout/docs"
	"eventscout/internal/adapters/auth"
	"eventscout/internal/adapters/cache"
	"eventscout/internal/adapters/email"
	"eventscout/internal/adapters/geocode"
	delivery "eventscout/internal/delivery/http"
	"eventscout/internal/delivery/http/controllers"
	"eventscout/internal/delivery/http/middleware"
	"eventscout/internal/discovery"
	"eventscout/internal/repository/postgres"
	"eventscout/internal/services"
)

const (
	contextTimeout  = 5 * time.Second
	ratingCacheTTL  = 5 * time.Minute
	shutdownTimeout = 10 * time.Second
	bcryptCost      = 12
)

// @title EventScout API
// @version 1.0
// @description Location based discovery of community events.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT in the form: Bearer {token}
func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "err", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), contextTimeout)
	err = db.PingContext(pingCtx)
	cancel()
	if err != nil {
		logger.Error("failed to reach database", "err", err)
		os.Exit(1)
	}

	// Redis is optional. Without it rating aggregates are read straight from
	// Postgres on every request.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Warn("invalid REDIS_URL, rating cache disabled", "err", err)
		} else {
			redisClient = redis.NewClient(opt)
			defer redisClient.Close()
		}
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, falling back to UTC", "timezone", cfg.Timezone, "err", err)
		loc = time.UTC
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFrom,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:             cfg.SESRegion,
			AccessKeyID:        cfg.SESAccessKeyID,
			SecretAccessKey:    cfg.SESSecretKey,
			InsecureSkipVerify: cfg.SESInsecureTLS,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}

	eventRepo := postgres.NewEventRepository(db)
	interactionRepo := postgres.NewInteractionRepository(db)
	ratingRepo := postgres.NewRatingRepository(db)
	userRepo := postgres.NewUserRepository(db)

	ratingCache := cache.NewRatingCache(redisClient, ratingCacheTTL, logger)
	geocoder := geocode.NewHTTPGeocoder(nil, cfg.GeocoderURL)
	hasher := auth.NewBcryptHasher(bcryptCost)
	jwt := auth.NewJWT(cfg.JWTSecret)
	engine := discovery.NewEngine(loc)

	ratingService := services.NewRatingService(ratingRepo, userRepo, ratingCache, contextTimeout)
	emailService := services.NewEmailService(mailer)
	eventService := services.NewEventService(eventRepo, interactionRepo, ratingService, userRepo, emailService, geocoder, contextTimeout)
	discoveryService := services.NewDiscoveryService(eventRepo, interactionRepo, ratingService, engine, contextTimeout)
	interactionService := services.NewInteractionService(interactionRepo, eventRepo, contextTimeout)
	authService := services.NewAuthService(userRepo, hasher, jwt, cfg.JWTExpiry, contextTimeout)

	router := delivery.NewRouter(
		controllers.NewDiscoveryController(logger, discoveryService, cfg.DefaultRadiusKm),
		controllers.NewEventController(logger, eventService),
		controllers.NewInteractionController(logger, interactionService),
		controllers.NewRatingController(logger, ratingService),
		controllers.NewAuthController(logger, authService),
		jwt,
	)

	handler := middleware.CORS(cfg.CORSOrigins, middleware.LoggingMiddleware(logger, router))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped unexpectedly", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}
}
