// Package main is the entry point for the marketplace API.
// It wires storage, services and the HTTP server together.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketplace/internal/config"
	"marketplace/internal/handlers"
	"marketplace/internal/repositories"
	"marketplace/internal/routes"
	"marketplace/internal/services/auth"
	"marketplace/internal/services/checkout"
	"marketplace/internal/services/copyright"
	"marketplace/internal/services/notification"
	"marketplace/internal/services/payment"
	"marketplace/internal/services/settings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer repositories.Close()

	sqlDB, err := repositories.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("✅ Successfully connected to database with connection pooling")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := repositories.NewStore(repositories.DB)
	cacheSvc := repositories.CacheService

	settingsSvc := settings.NewService(store, cacheSvc)
	copyrightSvc := copyright.NewService(store,
		copyright.NewVersionedSource(store.BannedWords(), cacheSvc),
		copyright.Config{
			AdminEmail:            cfg.AdminNotifyEmail,
			StrikeReviewThreshold: cfg.StrikeReviewThreshold,
		})
	if n, err := copyright.SeedDefaults(ctx, store.BannedWords()); err != nil {
		log.Printf("⚠️ Failed to seed banned words: %v", err)
	} else if n > 0 {
		log.Printf("✅ Seeded %d default banned words", n)
	}

	gateway := payment.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	checkoutSvc := checkout.NewService(store, settingsSvc, gateway, checkout.Config{
		Currency:   cfg.Currency,
		SuccessURL: cfg.CheckoutSuccessURL,
		CancelURL:  cfg.CheckoutCancelURL,
		AdminEmail: cfg.AdminNotifyEmail,
	})
	authSvc := auth.NewService(store.Users(), cfg.JWTSecret, cfg.JWTTTL)

	health := handlers.NewHealthHandler(map[string]handlers.HealthCheck{
		"database": sqlDB.PingContext,
		"redis":    cacheSvc.Ping,
	}, cacheSvc)

	go runOutbox(ctx, cfg, store)

	app := fiber.New()
	app.Use(recover.New())

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Use("/api/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	}))

	routes.SetupRoutes(app, routes.Services{
		Auth:      authSvc,
		Checkout:  checkoutSvc,
		Settings:  settingsSvc,
		Copyright: copyrightSvc,
		Health:    health,
	})

	go func() {
		<-ctx.Done()
		log.Println("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("⚠️ Server shutdown failed: %v", err)
		}
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Printf("⚠️ Server stopped: %v", err)
	}
}

// runOutbox delivers queued notifications until ctx is cancelled. Mail goes
// to Kafka when brokers are configured and to the log otherwise.
func runOutbox(ctx context.Context, cfg config.Config, store repositories.Store) {
	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("component", "outbox")

	var sender notification.Sender = notification.NewLogSender(slogger)
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := notification.NewKafkaSender(cfg.KafkaBrokers, cfg.KafkaEmailTopic)
		if err != nil {
			log.Printf("⚠️ Kafka sender unavailable, logging notifications instead: %v", err)
		} else {
			defer kafka.Close()
			sender = kafka
		}
	}

	worker := notification.NewOutboxWorker(slogger, store.Outbox(), sender,
		cfg.OutboxInterval, cfg.OutboxBatchSize, cfg.OutboxClaimTTL, cfg.OutboxMaxRetries)
	if err := worker.Run(ctx); err != nil && ctx.Err() == nil {
		log.Printf("⚠️ Outbox worker stopped: %v", err)
	}
}
