package api

import (
	"time"

	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RateLimit struct {
	Max        int
	Expiration time.Duration
}

func NewApp(serviceName string, limit RateLimit, h *DirectoryHandler) *fiber.App {
	app := fiber.New(fiber.Config{AppName: serviceName})
	app.Use(otelfiber.Middleware())
	app.Use(PrometheusMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": serviceName})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Use(limiter.New(limiter.Config{
		Max:        limit.Max,
		Expiration: limit.Expiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many request, please try again later.",
			})
		},
	}))

	SetupRoutes(app, h)
	return app
}

func SetupRoutes(app *fiber.App, h *DirectoryHandler) {
	v1 := app.Group("/v1")

	directory := v1.Group("/directory")
	directory.Get("/", h.GetView)
	directory.Put("/page", h.SetPage)
	directory.Post("/reload", h.Reload)
	directory.Post("/records", h.CreateRecord)
	directory.Put("/records/:id", h.UpdateRecord)
	directory.Post("/records/:id/delete", h.MarkDelete)
	directory.Post("/delete/confirm", h.ConfirmDelete)
	directory.Delete("/delete", h.CancelDelete)
	directory.Delete("/error", h.DismissError)
	directory.Post("/alert/ack", h.AcknowledgeAlert)
}
