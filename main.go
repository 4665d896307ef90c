package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-service/config"
	"storefront-service/controllers"
	"storefront-service/database"
	"storefront-service/logger"
	"storefront-service/middleware"
	"storefront-service/models"
	awspkg "storefront-service/pkg/aws"
	"storefront-service/repository"
	"storefront-service/routes"
	"storefront-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Initialize("development")
		logger.Log.Fatal("Config load failed", zap.Error(err))
	}

	logger.Initialize(cfg.Environment)
	defer logger.Log.Sync()
	log := logger.Log

	// Database
	db, err := database.ConnectPostgres(cfg.DSN(), log,
		&models.Product{},
		&models.CartItem{},
		&models.UserRole{},
		&models.Profile{},
	)
	if err != nil {
		log.Fatal("DB connection failed", zap.Error(err))
	}
	defer database.Close(db)

	// Redis cache (non-fatal: the catalog works uncached)
	var cache *services.CatalogCache
	if redisClient, rerr := database.NewRedisClient(cfg.RedisURL); rerr != nil {
		log.Warn("Redis unavailable, product cache disabled", zap.Error(rerr))
	} else {
		cache = services.NewCatalogCache(redisClient, cfg.ProductCacheTTL, log)
	}

	// S3 presigner for product images (non-fatal when unconfigured)
	var presigner services.ImagePresigner
	if cfg.ImageBucket != "" {
		awsCfg, aerr := awspkg.LoadAWSConfig(context.Background())
		if aerr != nil {
			log.Warn("AWS config load failed, image uploads disabled", zap.Error(aerr))
		} else {
			presigner = awspkg.NewS3Presigner(awsCfg, cfg.ImageBucket)
		}
	}

	// Repositories
	productRepo := repository.NewGormProductRepository(db)
	cartRepo := repository.NewGormCartRepository(db)
	roleRepo := repository.NewGormRoleRepository(db)

	// Services
	catalogService := services.NewCatalogService(
		productRepo, cache, presigner,
		cfg.ImageBaseURL, time.Duration(cfg.PresignExpirySecs)*time.Second, log,
	)
	cartService := services.NewCartService(cartRepo, productRepo, log)
	notifier := services.NewNotificationClient(cfg.CheckoutNotifyURL, cfg.CheckoutNotifyTimeout)
	checkoutService := services.NewCheckoutService(cartRepo, productRepo, notifier, log)
	adminService := services.NewAdminService(roleRepo, log)

	// Router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())
	r.Use(middleware.SecurityHeaders())

	limiter := middleware.NewRateLimiter(rate.Limit(20), 40, 10*time.Minute)
	r.Use(limiter.Middleware())

	routes.RegisterRoutes(r, routes.Controllers{
		Catalog:  controllers.NewCatalogController(catalogService),
		Cart:     controllers.NewCartController(cartService),
		Checkout: controllers.NewCheckoutController(checkoutService),
		Admin:    controllers.NewAdminController(adminService),
	}, []byte(cfg.JWTSecret))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info("Storefront service is running", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Shutdown error", zap.Error(err))
	}
	log.Info("Server shutdown complete")
}
