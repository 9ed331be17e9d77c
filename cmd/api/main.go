package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/amazighishop/shop_api/internal/auth"
	"github.com/amazighishop/shop_api/internal/cache"
	"github.com/amazighishop/shop_api/internal/config"
	"github.com/amazighishop/shop_api/internal/database"
	"github.com/amazighishop/shop_api/internal/handler"
	"github.com/amazighishop/shop_api/internal/mail"
	"github.com/amazighishop/shop_api/internal/middleware"
	"github.com/amazighishop/shop_api/internal/repository"
	"github.com/amazighishop/shop_api/internal/service"
	"github.com/amazighishop/shop_api/internal/sse"
	"github.com/amazighishop/shop_api/internal/storage"
	"github.com/amazighishop/shop_api/internal/utils"
)

// main is the application entrypoint for the Amazighi Shop API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	utils.SetJWTSecret(cfg.JWTSecret)

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting shop api")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 3c. Caches
	codes := cache.NewVerificationCache(redisClient)
	catalogCache := cache.NewCatalogCache(redisClient, cfg.Auth.CatalogBoundsLifetime)

	// 4. Mail and image storage
	mailer := mail.NewSender(cfg.Mail)
	images, err := newImageStore(cfg.Storage)
	if err != nil {
		log.Error().Err(err).Str("driver", cfg.Storage.Driver).Msg("image storage initialization failed")
		fmt.Fprintf(os.Stderr, "image storage initialization failed: %v\n", err)
		os.Exit(1)
	}

	// 5. Initialize repositories
	userRepo := repository.NewUserRepository(db)
	typeRepo := repository.NewProductTypeRepository(db)
	methodRepo := repository.NewPaymentMethodRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	// 6. Initialize services
	hub := sse.NewHub()
	notifier := sse.NewHubNotifier(hub)

	authSvc := service.NewAuthService(userRepo, codes, mailer, cfg.Auth, cfg.AppURL)
	userSvc := service.NewUserService(userRepo, cfg.Auth.PhoneCountryPrefix)
	typeSvc := service.NewProductTypeService(db, typeRepo, catalogCache)
	methodSvc := service.NewPaymentMethodService(methodRepo, catalogCache)
	productSvc := service.NewProductService(db, productRepo, typeRepo, methodRepo, images, catalogCache)
	catalogSvc := service.NewCatalogService(productRepo, typeRepo, methodRepo, catalogCache, images)
	orderSvc := service.NewOrderService(db, orderRepo, productRepo, methodRepo, images, notifier)
	adminOrderSvc := service.NewAdminOrderService(orderRepo, productRepo, userRepo, images, notifier)

	seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := authSvc.EnsureAdmin(seedCtx, cfg.Admin); err != nil {
		log.Error().Err(err).Msg("admin seed failed")
	}
	seedCancel()

	// 7. Initialize handlers
	secureCookies := cfg.HTTPS.Force
	handlers := &Handlers{
		Health: handler.NewHealthHandler(map[string]handler.Pinger{
			"database": db,
			"redis":    handler.PingFunc(redisClient.Ping),
		}),
		Auth:          handler.NewAuthHandler(authSvc, cfg.Auth.SessionTTL, cfg.Auth.VerificationCodeTTL, secureCookies),
		User:          handler.NewUserHandler(userSvc),
		ProductType:   handler.NewProductTypeHandler(typeSvc),
		PaymentMethod: handler.NewPaymentMethodHandler(methodSvc),
		Product:       handler.NewProductHandler(productSvc, typeSvc, methodSvc),
		AdminOrder:    handler.NewAdminOrderHandler(adminOrderSvc),
		SSE:           handler.NewSSEHandler(hub),
		Client:        handler.NewClientHandler(catalogSvc, orderSvc, secureCookies),
	}

	// 8. Initialize middleware
	sessionMw := middleware.NewSessionMiddleware(authSvc, secureCookies)
	authLimiter := middleware.NewIPRateLimiter(cfg.Auth.AuthRequestsPerMin)

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.AppURL, cfg.CORSOrigins...))
	router.Use(middleware.HTTPSMiddleware(cfg.HTTPS))
	router.Use(middleware.PrefsMiddleware())
	router.Use(sessionMw.Handle())
	if cfg.Storage.Driver != "s3" && strings.HasPrefix(cfg.Storage.PublicURL, "/") {
		router.Static(cfg.Storage.PublicURL, cfg.Storage.PublicDir)
	}
	setupRoutes(router, handlers, authLimiter)

	// 10. Start HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 11. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 12. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health        *handler.HealthHandler
	Auth          *handler.AuthHandler
	User          *handler.UserHandler
	ProductType   *handler.ProductTypeHandler
	PaymentMethod *handler.PaymentMethodHandler
	Product       *handler.ProductHandler
	AdminOrder    *handler.AdminOrderHandler
	SSE           *handler.SSEHandler
	Client        *handler.ClientHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, authLimiter *middleware.IPRateLimiter) {
	router.GET("/health", handlers.Health.GetHealth)
	router.GET("/i18n/:lang", handler.Dictionary)
	router.GET("/me", handlers.Auth.Me)
	router.GET("/unauthorized", handler.Unauthorized)

	// Guest account flows
	limited := authLimiter.Handle()
	router.POST("/login", limited, handlers.Auth.Login)
	router.POST("/register", limited, handlers.Auth.Register)
	router.POST("/verify-email", limited, handlers.Auth.VerifyEmail)
	router.POST("/verify-email/resend", limited, handlers.Auth.ResendCode)
	router.POST("/forgot-password", limited, handlers.Auth.ForgotPassword)
	router.POST("/reset-password", limited, handlers.Auth.ResetPassword)
	router.POST("/password-strength", handlers.Auth.PasswordStrength)
	router.POST("/logout", handlers.Auth.Logout)

	// Back-office
	admin := router.Group("/admin")
	admin.Use(middleware.RequireAuth())
	{
		orders := admin.Group("", middleware.RequireCapability(auth.ManageOrders))
		orders.GET("/dashboard", handlers.AdminOrder.Dashboard)
		orders.GET("/orders", handlers.AdminOrder.List)
		orders.GET("/orders/stream", handlers.SSE.Stream)
		orders.GET("/orders/:id", handlers.AdminOrder.Show)
		orders.POST("/orders/:id/confirm", handlers.AdminOrder.Confirm)
		orders.POST("/orders/:id/cancel", handlers.AdminOrder.Cancel)
		orders.PUT("/orders/:id/notes", handlers.AdminOrder.Notes)

		catalog := admin.Group("", middleware.RequireCapability(auth.ManageCatalog))
		catalog.GET("/product-types", handlers.ProductType.List)
		catalog.POST("/product-types", handlers.ProductType.Create)
		catalog.GET("/product-types/:id", handlers.ProductType.Show)
		catalog.PUT("/product-types/:id", handlers.ProductType.Update)
		catalog.DELETE("/product-types/:id", handlers.ProductType.Delete)

		catalog.GET("/payment-methods", handlers.PaymentMethod.List)
		catalog.POST("/payment-methods", handlers.PaymentMethod.Create)
		catalog.GET("/payment-methods/:id", handlers.PaymentMethod.Show)
		catalog.PUT("/payment-methods/:id", handlers.PaymentMethod.Update)
		catalog.DELETE("/payment-methods/:id", handlers.PaymentMethod.Delete)

		catalog.GET("/products", handlers.Product.List)
		catalog.GET("/products/options", handlers.Product.Options)
		catalog.POST("/products", handlers.Product.Create)
		catalog.GET("/products/:id", handlers.Product.Show)
		catalog.PUT("/products/:id", handlers.Product.Update)
		catalog.DELETE("/products/:id", handlers.Product.Delete)
		catalog.POST("/products/:id/image", handlers.Product.UploadImage)

		users := admin.Group("/users", middleware.RequireCapability(auth.ManageUsers))
		users.GET("", handlers.User.List)
		users.POST("", handlers.User.Create)
		users.GET("/:id", handlers.User.Show)
		users.PUT("/:id", handlers.User.Update)
		users.DELETE("/:id", handlers.User.Delete)
		users.POST("/:id/block", handlers.User.Block)
		users.POST("/:id/unblock", handlers.User.Unblock)
	}

	// Shopping
	client := router.Group("/client")
	client.Use(middleware.RequireAuth(), middleware.RequireCapability(auth.Shop), middleware.PaymentMethodGate())
	{
		client.GET("/payment-methods", handlers.Client.PaymentMethods)
		client.POST("/payment-methods/select", handlers.Client.SelectMethod)
		client.GET("/products", handlers.Client.Products)
		client.GET("/products/:id", handlers.Client.Product)
		client.POST("/cart/preview", handlers.Client.PreviewCart)
		client.POST("/cart/update", handlers.Client.UpdateCart)
		client.GET("/checkout", handlers.Client.Checkout)
		client.POST("/orders", handlers.Client.PlaceOrder)
		client.GET("/orders", handlers.Client.Orders)
		client.GET("/orders/:id", handlers.Client.Order)
	}
}

// newImageStore picks the product image driver.
func newImageStore(cfg config.StorageConfig) (storage.ImageStore, error) {
	if cfg.Driver == "s3" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s3Store, err := storage.NewS3Store(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s3Store, nil
	}
	local, err := storage.NewLocalStore(cfg.PublicDir, cfg.PublicURL)
	if err != nil {
		return nil, err
	}
	return local, nil
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
