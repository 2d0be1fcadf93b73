// Package app wires repositories, services and handlers into a Fiber app.
package app

import (
	"errors"
	"time"

	"roti/internal/config"
	"roti/internal/handlers"
	"roti/internal/middleware"
	"roti/internal/repositories"
	"roti/internal/services"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App is the HTTP application together with the services the process
// needs outside of request handling.
type App struct {
	Fiber         *fiber.App
	Auth          *services.AuthService
	Configuration *services.ConfigurationService
	Orders        *services.OrderService

	db     *gorm.DB
	logger *zap.Logger
}

// Options tweak the app for tests.
type Options struct {
	// DisableRequestLog turns off the per-request access log.
	DisableRequestLog bool
}

// New builds the application. publisher may be nil when messaging is
// disabled.
func New(cfg *config.Config, db *gorm.DB, publisher services.EventPublisher, logger *zap.Logger, opts Options) *App {
	// --- Repositories ---
	productRepo := repositories.NewGORMProductRepository(db)
	sizeRepo := repositories.NewGORMSizeRepository(db)
	productSizeRepo := repositories.NewGORMProductSizeRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)

	// --- Services ---
	configurationService := services.NewConfigurationService(productRepo, productSizeRepo, publisher,
		logger.Named("configuration"), cfg.CacheTTL, cfg.StoreTimeout)
	productService := services.NewProductService(productRepo, configurationService, logger.Named("products"), cfg.StoreTimeout)
	sizeService := services.NewSizeService(sizeRepo, configurationService, logger.Named("sizes"), cfg.StoreTimeout)
	productSizeService := services.NewProductSizeService(productSizeRepo, sizeRepo, productRepo, configurationService,
		logger.Named("product_sizes"), cfg.StoreTimeout)
	orderService := services.NewOrderService(orderRepo, productRepo, productSizeRepo, publisher, logger.Named("orders"), cfg.StoreTimeout)
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, logger.Named("auth"))

	// --- Handlers ---
	httpLogger := logger.Named("http")
	productHandler := handlers.NewProductHandler(productService, httpLogger)
	sizeHandler := handlers.NewSizeHandler(sizeService, httpLogger)
	productSizeHandler := handlers.NewProductSizeHandler(productSizeService, httpLogger)
	configurationHandler := handlers.NewConfigurationHandler(configurationService, httpLogger)
	orderHandler := handlers.NewOrderHandler(orderService, httpLogger)
	authHandler := handlers.NewAuthHandler(authService, httpLogger)

	f := fiber.New(fiber.Config{
		AppName:      "roti",
		Immutable:    true, // params outlive the request as cache keys
		ErrorHandler: errorHandler(httpLogger),
	})
	f.Use(recover.New())
	if !opts.DisableRequestLog {
		f.Use(fiberlogger.New())
	}

	a := &App{
		Fiber:         f,
		Auth:          authService,
		Configuration: configurationService,
		Orders:        orderService,
		db:            db,
		logger:        logger,
	}
	f.Get("/health", a.health)

	// --- API Routes ---
	auth := middleware.AuthRequired(authService, httpLogger)
	apiV1 := f.Group("/api/v1")
	admin := apiV1.Group("/admin", auth, middleware.AdminOnly())

	authHandler.RegisterRoutes(apiV1)
	sizeHandler.RegisterRoutes(apiV1, admin)
	productHandler.RegisterRoutes(apiV1, admin)
	configurationHandler.RegisterRoutes(apiV1)
	productSizeHandler.RegisterRoutes(admin)
	orderHandler.RegisterRoutes(apiV1, auth, admin)

	return a
}

func (a *App) health(c *fiber.Ctx) error {
	status, code := "healthy", fiber.StatusOK
	sqlDB, err := a.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.UserContext())
	}
	if err != nil {
		a.logger.Warn("Health check failed", zap.Error(err))
		status, code = "unhealthy", fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	})
}

// errorHandler renders errors that escape the handlers, such as unknown
// routes, in the response envelope.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
		}
		if code >= fiber.StatusInternalServerError {
			logger.Error("Unhandled error", zap.String("path", c.Path()), zap.Error(err))
		}
		return c.Status(code).JSON(handlers.Response{
			Success: false,
			Message: err.Error(),
		})
	}
}

var _ services.ConfigurationInvalidator = (*services.ConfigurationService)(nil)
