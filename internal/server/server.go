package server

import (
	"fmt"
	"net/http"
	"time"

	"mypage-shop/internal/cache"
	"mypage-shop/internal/config"
	"mypage-shop/internal/database"
	"mypage-shop/internal/domain"
	"mypage-shop/internal/media"
	custommiddleware "mypage-shop/internal/middleware"
	"mypage-shop/internal/repository"
	"mypage-shop/internal/service"
	"mypage-shop/internal/session"
	"mypage-shop/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *database.Service
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *database.Service) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env == "development"))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithJSON(w, http.StatusOK, db.Health(r.Context()))
	})

	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Initialize repositories
	productRepo := repository.NewProductRepository(db.DB())
	categoryRepo := repository.NewCategoryRepository(db.DB())
	cartRepo := repository.NewCartRepository(db.DB())
	enrollmentRepo := repository.NewEnrollmentRepository(db.DB())
	settingsRepo := repository.NewSettingsRepository(db.DB())

	// Initialize services
	catalogService := service.NewCatalogService(productRepo, categoryRepo)
	cartService := service.NewCartService(cartRepo, productRepo)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo)

	var store media.Store
	if cfg.Cloudinary.Configured() {
		store = media.NewCloudinaryStore(cfg.Cloudinary, logger)
	} else {
		logger.Warn("Cloudinary credentials missing, upload endpoint degraded")
	}
	uploadService := service.NewUploadService(store, cfg.Cloudinary)

	// Page-level read caches
	settingsCache := cache.New[*domain.SystemSettings](time.Minute, 5*time.Minute)
	categoryCache := cache.New[[]*domain.Category](time.Minute, 5*time.Minute)
	badgeCache := cache.New[int](5*time.Second, 30*time.Second)

	// Session guard
	resolver := session.NewTokenResolver(cfg.Session.Secret)
	guard := session.NewGuard(resolver, logger)
	authMiddleware := custommiddleware.AuthMiddleware(resolver, logger)

	uploadRateLimit := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: 30,
		Window:            time.Minute,
		KeyPrefix:         "ratelimit:upload",
	}, logger)

	// Initialize handlers
	uploadHandler := transport.NewUploadHandler(uploadService, logger)
	catalogHandler := transport.NewCatalogHandler(catalogService, logger)
	cartHandler := transport.NewCartHandler(cartService, badgeCache, logger)
	enrollmentHandler := transport.NewEnrollmentHandler(enrollmentService, logger)
	settingsHandler := transport.NewSettingsHandler(settingsRepo, settingsCache, logger)
	myPageHandler := transport.NewMyPageHandler(
		guard,
		catalogService,
		cartService,
		enrollmentService,
		settingsRepo,
		settingsCache,
		categoryCache,
		badgeCache,
		logger,
	)

	// Register routes
	uploadHandler.RegisterRoutes(router, authMiddleware, uploadRateLimit)
	catalogHandler.RegisterRoutes(router)
	cartHandler.RegisterRoutes(router, authMiddleware)
	enrollmentHandler.RegisterRoutes(router, authMiddleware)
	settingsHandler.RegisterRoutes(router)
	myPageHandler.RegisterRoutes(router)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
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

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
