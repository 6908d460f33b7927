package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vitrina/internal/config"
	"vitrina/internal/database"
	"vitrina/internal/logging"
	"vitrina/internal/repositories"
	"vitrina/internal/services"
	"vitrina/pkg/rabbitmq"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "vitrina",
		Short: "Catalog manager, storefront and weather dashboard",
		// Running without a subcommand serves.
		RunE:          func(cmd *cobra.Command, args []string) error { return runServe() },
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  func(cmd *cobra.Command, args []string) error { return runServe() },
	})
	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE:  func(cmd *cobra.Command, args []string) error { return runMigrate() },
	})

	var out string
	export := &cobra.Command{
		Use:   "export",
		Short: "Write every product as JSON",
		RunE:  func(cmd *cobra.Command, args []string) error { return runExport(cmd.OutOrStdout(), out) },
	}
	export.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	root.AddCommand(export)

	return root
}

// bootstrap loads the configuration, builds the logger and opens the database.
func bootstrap() (*config.Config, *zap.Logger, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := logging.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		return nil, nil, nil, err
	}
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, db, nil
}

func runMigrate() error {
	_, logger, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := database.Migrate(db); err != nil {
		return err
	}
	logger.Info("database migrated")
	return nil
}

func runExport(stdout io.Writer, path string) error {
	_, logger, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	products, err := repositories.NewGORMProductRepository(db).GetAll(context.Background())
	if err != nil {
		return err
	}

	w := stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(products); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	logger.Info("products exported", zap.Int("count", len(products)))
	return nil
}

func runServe() error {
	cfg, logger, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := database.Migrate(db); err != nil {
		return err
	}

	var in Integrations

	// --- RabbitMQ (optional) ---
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.EventsQueue}, logger)
		if err != nil {
			logger.Warn("events disabled", zap.Error(err))
		} else {
			defer mqClient.Close()
			in.Publisher = mqClient
			if err := mqClient.ConsumeEvents(logEvent(logger)); err != nil {
				logger.Warn("event consumer not started", zap.Error(err))
			}
		}
	}

	// --- Weather cache (optional) ---
	weather := services.NewOpenWeatherClient(cfg.WeatherAPIURL, cfg.WeatherAPIKey, cfg.WeatherTimeout, logger)
	in.Weather = weather
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rdb.Ping(ctx).Err()
		cancel()
		if err != nil {
			logger.Warn("weather cache disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		} else {
			cached := services.NewCachedWeatherClient(weather, rdb, services.WeatherCacheTTL, logger)
			in.Weather = cached
			if cfg.WeatherRefreshSchedule != "" {
				refresher := services.NewWeatherRefresher(repositories.NewGORMCityRepository(db), cached, time.Minute, logger)
				if err := refresher.Start(cfg.WeatherRefreshSchedule); err != nil {
					return err
				}
				defer refresher.Stop()
			}
		}
	}

	app, err := NewApp(cfg, db, logger, in)
	if err != nil {
		return err
	}

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", cfg.AppPort))
		listenErr <- app.Listen(cfg.AppPort)
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	logger.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
	}
	logger.Info("server gracefully stopped")
	return nil
}

// logEvent is the consumer of the events queue: it records every event in the log.
func logEvent(logger *zap.Logger) func(msg amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		ev, err := rabbitmq.Decode(msg.Body)
		if err != nil {
			return err
		}
		logger.Info("event received",
			zap.String("type", ev.Type),
			zap.Time("occurred_at", ev.OccurredAt),
			zap.ByteString("payload", ev.Payload),
		)
		return nil
	}
}
