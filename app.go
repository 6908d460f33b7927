package main

import (
	"context"
	"fmt"
	"time"

	"vitrina/internal/config"
	"vitrina/internal/handlers"
	"vitrina/internal/metrics"
	"vitrina/internal/middleware"
	"vitrina/internal/repositories"
	"vitrina/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Integrations are the optional collaborators of the app. Nil fields get defaults
// built from the config, except Publisher which stays disabled.
type Integrations struct {
	Publisher services.EventPublisher
	Weather   services.WeatherLookup
	Payment   services.PaymentGateway
}

// NewApp builds the fiber app with every route group mounted on db.
func NewApp(cfg *config.Config, db *gorm.DB, logger *zap.Logger, in Integrations) (*fiber.App, error) {
	// --- Repositories ---
	productRepo := repositories.NewGORMProductRepository(db)
	taxonomyRepo := repositories.NewGORMTaxonomyRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)
	cityRepo := repositories.NewGORMCityRepository(db)

	// --- Services ---
	images, err := services.NewDiskImageStore(cfg.UploadDir)
	if err != nil {
		return nil, err
	}
	if in.Weather == nil {
		in.Weather = services.NewOpenWeatherClient(cfg.WeatherAPIURL, cfg.WeatherAPIKey, cfg.WeatherTimeout, logger)
	}
	if in.Payment == nil {
		in.Payment = services.NewFondyGateway(cfg.PaymentAPIURL, cfg.PaymentMerchantID, cfg.PaymentSecretKey, 10*time.Second)
	}

	catalogService := services.NewCatalogService(productRepo, taxonomyRepo)
	productService := services.NewProductService(productRepo, taxonomyRepo, images, in.Publisher, logger)
	taxonomyService := services.NewTaxonomyService(taxonomyRepo, logger)
	cartService := services.NewCartService(cartRepo, productRepo, logger)
	paymentService := services.NewPaymentService(in.Payment, cfg.PaymentCurrency, in.Publisher, logger)
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, logger)
	weatherService := services.NewWeatherService(cityRepo, in.Weather, logger)

	if err := authService.EnsureDemoUser(context.Background(), cfg.DemoUserID); err != nil {
		return nil, err
	}

	// --- Fiber ---
	app := fiber.New(fiber.Config{
		AppName:      "vitrina",
		BodyLimit:    8 * 1024 * 1024,
		ErrorHandler: handlers.NewErrorHandler(logger),
	})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(fiberlogger.New())

	m := metrics.New()
	app.Use(m.Middleware())
	app.Get("/metrics", m.Handler())

	catalog := app.Group("/catalog")
	handlers.NewTaxonomyHandler(taxonomyService).RegisterRoutes(catalog)
	handlers.NewCatalogHandler(catalogService, productService, images.Dir(), cfg.CardPageSize, cfg.RowPageSize).RegisterRoutes(catalog)

	shop := app.Group("/shop")
	handlers.NewAuthHandler(authService, logger).RegisterRoutes(shop)
	shopRoutes := shop.Group("", middleware.CurrentUser(authService, cfg.DemoUserID, logger))
	handlers.NewShopHandler(catalogService, cartService, paymentService, images.Dir()).RegisterRoutes(shopRoutes)

	handlers.NewWeatherHandler(weatherService).RegisterRoutes(app.Group("/weather"))
	handlers.RegisterGreeting(app.Group("/hello"))

	app.Get("/health", func(c *fiber.Ctx) error {
		status := "healthy"
		code := fiber.StatusOK
		if err := pingDB(c.UserContext(), db); err != nil {
			logger.Warn("health check: database unreachable", zap.Error(err))
			status = "degraded"
			code = fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"time":   time.Now().Format(time.RFC3339),
			"events": in.Publisher != nil,
		})
	})

	return app, nil
}

func pingDB(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
