// main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"sauvini-api/cmd"
	"sauvini-api/internal/adaptor"
	"sauvini-api/internal/data/repository"
	"sauvini-api/internal/wire"
	"sauvini-api/pkg/database"
	"sauvini-api/pkg/mailer"
	"sauvini-api/pkg/redis"
	"sauvini-api/pkg/throttle"
	"sauvini-api/pkg/token"
	"sauvini-api/pkg/utils"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.Name, config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config, logger); err != nil {
		logger.Error("Application stopped with error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("Application stopped")
}

func run(ctx context.Context, config *utils.Config, logger *zap.Logger) error {
	// Connect to database
	db, err := database.InitDB(ctx, config.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	checks := map[string]adaptor.Pinger{"database": db}

	throttler := throttle.NewNoop()
	if config.Redis.Enabled() {
		client, err := redis.NewClient(ctx, config.Redis)
		if err != nil {
			return err
		}
		defer client.Close()

		throttler = throttle.NewRedis(client, "sauvini:throttle:")
		checks["redis"] = adaptor.PingFunc(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
		logger.Info("Redis connected successfully")
	} else {
		logger.Warn("REDIS_HOST not set, email throttling disabled")
	}

	mail, err := mailer.New(config.Email, logger)
	if err != nil {
		return err
	}

	tokens, err := token.NewService(token.Config{
		Secret:           config.JWT.Secret,
		Issuer:           config.JWT.Issuer,
		AccessExpiry:     config.JWT.AccessExpiry,
		RefreshExpiry:    config.JWT.RefreshExpiry,
		VerifyCodeExpiry: config.Auth.VerifyCodeExpiry,
		ResetCodeExpiry:  config.Auth.ResetCodeExpiry,
	})
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, wire.Infra{
		Tokens:    tokens,
		Mailer:    mail,
		Throttler: throttler,
		Checks:    checks,
		Registry:  registry,
	}, config, logger)

	if err := app.Service.Admin.EnsureAdmin(ctx, config.Admin.Email, config.Admin.Password); err != nil {
		return err
	}

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))
	return cmd.APIServer(ctx, app.Router, config.App.Port, logger)
}
