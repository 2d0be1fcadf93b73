package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"roti/internal/app"
	"roti/internal/config"
	"roti/internal/database"
	"roti/internal/logging"
	"roti/internal/models"
	"roti/internal/repositories"
	"roti/internal/services"
	"roti/pkg/rabbitmq"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// Global flags
	envFile string

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "roti",
	Short: "roti - bakery storefront backend",
	Long: `roti serves the bakery catalog, prices cake sizes and takes orders.

Configuration is read from the environment (optionally seeded from a .env
file): APP_PORT, DATABASE_DRIVER, DATABASE_DSN, JWT_SECRET, RABBITMQ_URL,
STORE_TIMEOUT, CACHE_TTL, LOG_LEVEL, LOG_ENCODING, ADMIN_USERNAME,
ADMIN_EMAIL, ADMIN_PASSWORD.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(envFile); err != nil {
			return err
		}
		var err error
		cfg, err = config.Load(viper.New())
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.LogLevel, cfg.LogEncoding)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		logger.Info("Database schema is up to date", zap.String("driver", cfg.DatabaseDriver))
		return closeDatabase(db)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the sample catalog and the admin account",
	RunE:  runSeed,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openDatabase connects and migrates the schema.
func openDatabase() (*gorm.DB, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := repositories.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return db, nil
}

func closeDatabase(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	// --- Messaging ---
	var publisher services.EventPublisher
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, logger.Named("rabbitmq"))
		if err != nil {
			return fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		defer mqClient.Close()
		publisher = mqClient
	} else {
		logger.Warn("RABBITMQ_URL not set, events are disabled")
	}

	a := app.New(cfg, db, publisher, logger, app.Options{})

	if cfg.AdminPassword != "" {
		if _, err := a.Auth.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return fmt.Errorf("failed to provision admin account: %w", err)
		}
	}

	if mqClient != nil {
		if err := startConsumers(mqClient, a); err != nil {
			return err
		}
	}

	// --- Start HTTP Server ---
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server", zap.String("addr", cfg.AppPort))
		serverErr <- a.Fiber.Listen(cfg.AppPort)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	if err := a.Fiber.Shutdown(); err != nil {
		logger.Error("Error during Fiber shutdown", zap.Error(err))
	}
	logger.Info("Server gracefully stopped")
	return nil
}

// startConsumers subscribes this replica to configuration invalidations
// and the order log.
func startConsumers(mqClient *rabbitmq.Client, a *app.App) error {
	// Every replica needs its own copy of each invalidation.
	err := mqClient.Consume("", services.RoutingKeyConfigurationInvalidated, func(msg amqp.Delivery) error {
		return a.Configuration.HandleInvalidationEvent(msg.Body)
	})
	if err != nil {
		return fmt.Errorf("failed to start invalidation consumer: %w", err)
	}

	orderLog := logger.Named("order_events")
	err = mqClient.Consume("roti.orders", services.RoutingKeyOrderCreated, func(msg amqp.Delivery) error {
		orderLog.Info("Order event received",
			zap.Uint64("delivery_tag", msg.DeliveryTag),
			zap.ByteString("body", msg.Body))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to start order consumer: %w", err)
	}
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	a := app.New(cfg, db, nil, logger, app.Options{DisableRequestLog: true})
	if cfg.AdminPassword != "" {
		if _, err := a.Auth.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return err
		}
	}

	sizeRepo := repositories.NewGORMSizeRepository(db)
	existing, err := sizeRepo.GetAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.Info("Catalog already seeded, skipping", zap.Int("sizes", len(existing)))
		return nil
	}
	return seedCatalog(ctx, db)
}

// seedCatalog loads a small sample catalog in one transaction.
func seedCatalog(ctx context.Context, db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		sizeRepo := repositories.NewGORMSizeRepository(tx)
		productRepo := repositories.NewGORMProductRepository(tx)
		optionRepo := repositories.NewGORMProductSizeRepository(tx)

		sizes := []models.Size{
			{Name: "Small", PersonCapacity: 6, AdditionalPrice: decimal.Zero},
			{Name: "Medium", PersonCapacity: 10, AdditionalPrice: decimal.RequireFromString("15.00")},
			{Name: "Large", PersonCapacity: 16, AdditionalPrice: decimal.RequireFromString("30.00")},
		}
		for i := range sizes {
			if err := sizeRepo.Create(ctx, &sizes[i]); err != nil {
				return err
			}
		}

		offer := decimal.RequireFromString("49.00")
		products := []struct {
			product     models.Product
			sizes       []int
			defaultSize int
		}{
			{models.Product{Name: "Chocolate Cake", Description: "Dark chocolate sponge with ganache", Price: decimal.RequireFromString("45.00"), Stock: 12}, []int{0, 1, 2}, 1},
			{models.Product{Name: "Strawberry Cheesecake", Description: "Baked cheesecake with fresh strawberries", Price: decimal.RequireFromString("55.00"), IsOnOffer: true, OfferPrice: &offer, Stock: 8}, []int{0, 1}, 0},
			{models.Product{Name: "Sourdough Loaf", Description: "48h fermented country loaf", Price: decimal.RequireFromString("8.50"), Stock: 40}, nil, -1},
		}
		for _, p := range products {
			product := p.product
			if err := productRepo.Create(ctx, &product); err != nil {
				return err
			}
			ids := make([]string, 0, len(p.sizes))
			defaultID := ""
			for _, i := range p.sizes {
				ids = append(ids, sizes[i].ID)
				if i == p.defaultSize {
					defaultID = sizes[i].ID
				}
			}
			if len(ids) == 0 {
				continue
			}
			if _, err := optionRepo.ReplaceAll(ctx, product.ID, ids, defaultID); err != nil {
				return err
			}
		}
		logger.Info("Sample catalog seeded", zap.Int("sizes", len(sizes)), zap.Int("products", len(products)))
		return nil
	})
}
