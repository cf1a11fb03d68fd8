package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"lapak/internal/assets"
	"lapak/internal/cache"
	"lapak/internal/handlers"
	"lapak/internal/middleware"
	"lapak/internal/models"
	"lapak/internal/repositories"
	"lapak/internal/services"
	"lapak/pkg/logger"
	"lapak/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DSN", "") // empty: use the local SQLite file
	viper.SetDefault("SQLITE_PATH", "lapak.db")
	viper.SetDefault("CACHE_DIR", ".lapak-cache")
	viper.SetDefault("CACHE_SECRET", "change-me")
	viper.SetDefault("CACHE_SQLITE_PATH", "lapak-cache.db")
	viper.SetDefault("ASSET_DIR", ".lapak-assets")
	viper.SetDefault("ASSET_BASE_URL", "http://localhost:8080/assets")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("JWT_SECRET", "dev_jwt_secret")
	viper.SetDefault("LOG_LEVEL", "INFO")
	viper.SetDefault("LOG_FORMAT", "console")
	viper.AutomaticEnv()

	log := logger.New(viper.GetString("LOG_LEVEL"), viper.GetString("LOG_FORMAT"))
	defer log.Sync()

	// --- Document store (source of truth) ---
	var dialector gorm.Dialector
	if dsn := viper.GetString("DATABASE_DSN"); dsn != "" {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(viper.GetString("SQLITE_PATH"))
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		log.Fatal("failed to open document store", zap.Error(err))
	}
	if err := db.AutoMigrate(&models.Store{}, &models.Product{}); err != nil {
		log.Fatal("failed to migrate document store", zap.Error(err))
	}

	// --- Local cache tiers (secure first, general-purpose fallback) ---
	secureTier, err := cache.NewSecureTier(viper.GetString("CACHE_DIR"), viper.GetString("CACHE_SECRET"))
	if err != nil {
		log.Fatal("failed to initialize secure cache tier", zap.Error(err))
	}
	sqliteTier, err := cache.NewSQLiteTier(viper.GetString("CACHE_SQLITE_PATH"))
	if err != nil {
		log.Fatal("failed to initialize sqlite cache tier", zap.Error(err))
	}
	localCache := cache.NewChained(log, secureTier, sqliteTier)

	// --- Object store + uploader ---
	objectStore, err := assets.NewFileObjectStore(viper.GetString("ASSET_DIR"), viper.GetString("ASSET_BASE_URL"))
	if err != nil {
		log.Fatal("failed to initialize object store", zap.Error(err))
	}
	uploader := assets.NewUploader(objectStore, log)

	// --- Event mirror (optional; sync must work without a broker) ---
	var events services.EventPublisher
	var mqClient *rabbitmq.Client
	if url := viper.GetString("RABBITMQ_URL"); url != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: url})
		if err != nil {
			log.Warn("RabbitMQ unavailable, sync events will not be mirrored", zap.Error(err))
		} else {
			defer mqClient.Close()
			events = mqClient
		}
	}

	// --- Repositories ---
	storeRepo := repositories.NewGORMStoreRepository(db, log)
	productRepo := repositories.NewGORMProductRepository(db)

	// --- Services ---
	syncService := services.NewSyncService(storeRepo, productRepo, localCache, uploader, events, log)
	storefrontService := services.NewStorefrontService(storeRepo, productRepo, log)

	// --- Handlers ---
	storeHandler := handlers.NewStoreHandler(syncService)
	productHandler := handlers.NewProductHandler(syncService)
	storefrontHandler := handlers.NewStorefrontHandler(storefrontService, syncService)

	// --- Fiber app ---
	app := fiber.New()
	app.Use(fiberlogger.New())
	app.Static("/assets", viper.GetString("ASSET_DIR"))

	apiV1 := app.Group("/api/v1")

	// Public storefront routes
	storefrontHandler.RegisterRoutes(apiV1)

	// Vendor routes behind the owner-id token
	vendorRoutes := apiV1.Group("", middleware.AuthRequired(viper.GetString("JWT_SECRET")))
	storeHandler.RegisterRoutes(vendorRoutes)
	productHandler.RegisterRoutes(vendorRoutes)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Sync event consumer (the mirror side; only logs today) ---
	if mqClient != nil && events != nil {
		if consumeErr := mqClient.ConsumeSyncEvents(func(msg amqp.Delivery) error {
			log.Info("sync event", zap.String("type", msg.Type), zap.ByteString("body", msg.Body))
			return nil
		}); consumeErr != nil {
			log.Warn("failed to start sync event consumer", zap.Error(consumeErr))
		}
	}

	// --- Start HTTP server with graceful shutdown ---
	appPort := viper.GetString("APP_PORT")
	log.Info("starting server", zap.String("port", appPort))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatal("server failed to start", zap.Error(err))
		}
	}()

	<-quit
	log.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Error("error during shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
