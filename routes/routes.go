package routes

import (
	"log"
	"os"

	controller "cadence-support/controllers"
	"cadence-support/middleware"
	"cadence-support/socket"
	"cadence-support/stats"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
	"gorm.io/gorm"
)

func SetupAPIRoutes(app *fiber.App, db *gorm.DB, hub *socket.Hub) {
	// Initialize controllers with their respective loggers
	aggregator := stats.NewAggregator(stats.NewGormStore(db))
	cadenceController := controller.NewCadenceController(db, log.New(os.Stdout, "CADENCE: ", log.LstdFlags), aggregator)
	companyController := controller.NewCompanyController(db, log.New(os.Stdout, "COMPANY: ", log.LstdFlags))
	settingsController := controller.NewSettingsController(db, log.New(os.Stdout, "SETTINGS: ", log.LstdFlags))

	// API group with versioning and protection
	api := app.Group("/api/v1", middleware.Protected(), logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Company routes
	company := api.Group("/companies")
	company.Get("/:id", companyController.GetCompany)
	company.Get("/:id/license", companyController.GetCompanyLicense)
	company.Get("/:id/users", companyController.GetCompanyUsers)
	company.Get("/:id/settings", settingsController.GetSettings)
	company.Get("/:id/cadences", cadenceController.GetCadences)

	// Cadence routes
	cadence := api.Group("/cadences")
	cadence.Get("/", cadenceController.GetCadences)
	cadence.Get("/:id", cadenceController.GetCadence)
	cadence.Get("/:id/leads", cadenceController.GetCadenceLeads)

	// Statistics routes carry an extra rate limit; the aggregates are the
	// most expensive queries the panel runs
	cadence.Get("/:id/statistics", middleware.StatsRateLimiter(), cadenceController.GetCadenceStatistics)
	api.Get("/nodes/:id/stats", middleware.StatsRateLimiter(), cadenceController.GetNodeStats)

	log.Println("API routes initialized successfully")
}

func SetupWebhookRoutes(app *fiber.App, db *gorm.DB, hub *socket.Hub) {
	webhookController := controller.NewWebhookController(db, log.New(os.Stdout, "WEBHOOK: ", log.LstdFlags), hub)

	webhook := app.Group("/webhook", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	webhook.Post("/activity", webhookController.HandleActivityWebhook)
}

func SetupSocketRoutes(app *fiber.App, hub *socket.Hub) {
	// Only websocket upgrade requests reach the handler
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/activities", websocket.New(func(c *websocket.Conn) {
		hub.Register(c)
		defer func() {
			hub.Deregister(c)
			c.Close()
		}()

		// Hold the connection open; the read loop only notices closure
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}))
}

func SetupRoutes(app *fiber.App, db *gorm.DB, hub *socket.Hub) {
	// Setup health check endpoint
	app.Get("/healthcheck", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	SetupAPIRoutes(app, db, hub)
	SetupWebhookRoutes(app, db, hub)
	SetupSocketRoutes(app, hub)

	// Setup 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested resource was not found",
		})
	})
}
