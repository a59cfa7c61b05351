package main

import (
	"context"
	"log"
	"os"

	"cadence-support/config"
	"cadence-support/middleware"
	"cadence-support/routes"
	"cadence-support/socket"
	"cadence-support/utils"
	"cadence-support/worker"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := log.New(os.Stdout, "SUPPORT: ", log.Ldate|log.Ltime|log.Lshortfile)

	// Load configuration
	if err := config.LoadConfig(); err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Sentry
	if config.AppConfig.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         config.AppConfig.SentryDSN,
			Environment: config.AppConfig.Environment,
		}); err != nil {
			logger.Fatalf("Failed to initialize Sentry: %v", err)
		}
	}

	// Initialize database connection
	if err := config.ConnectDB(); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Create Fiber app
	app := fiber.New()

	// Add CORS middleware
	app.Use(middleware.CORS())

	// Hub relays webhook activity to connected dashboard clients
	hub := socket.NewHub()

	// Initialize and start the health worker
	workerLogger := logrus.New()
	workerLogger.SetFormatter(&logrus.JSONFormatter{})
	alertMailer := utils.NewAlertMailer(&config.AppConfig)
	healthWorker := worker.NewHealthWorker(config.AppConfig.HealthServices, alertMailer, workerLogger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go healthWorker.Start(ctx)

	// Setup routes
	routes.SetupRoutes(app, config.DB, hub)

	// Health check endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "running",
			"version": "1.0.0",
		})
	})

	// Start server
	logger.Printf("🚀 Server starting on port %s", config.AppConfig.ServerPort)
	if err := app.Listen(":" + config.AppConfig.ServerPort); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
