package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"sweet-shop/internal/config"
	custommiddleware "sweet-shop/internal/middleware"
	"sweet-shop/internal/repository"
	"sweet-shop/internal/service"
	"sweet-shop/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB, redisClient *redis.Client) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, !cfg.IsProduction()))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	sweetRepo := repository.NewSweetRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)

	// Initialize services
	tokens := service.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL())
	authService := service.NewAuthService(userRepo, tokens)
	purchaseService := service.NewPurchaseService(purchaseRepo, sweetRepo)
	inventoryService := service.NewInventoryService(sweetRepo, purchaseService, logger)

	// Initialize handlers
	authHandler := transport.NewAuthHandler(authService, logger)
	sweetHandler := transport.NewSweetHandler(inventoryService, logger)
	purchaseHandler := transport.NewPurchaseHandler(purchaseService, logger)

	authMiddleware := custommiddleware.AuthMiddleware(tokens, logger)
	authRateLimit := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: cfg.RateLimit.Requests,
		Window:            cfg.RateLimitWindow(),
		KeyPrefix:         "rate_limit:auth",
	}, logger)

	// Register routes
	authHandler.RegisterRoutes(router, authMiddleware, authRateLimit)
	sweetHandler.RegisterRoutes(router, authMiddleware)
	purchaseHandler.RegisterRoutes(router, authMiddleware)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
