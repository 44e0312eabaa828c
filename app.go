package main

import (
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alarmclock/config"
	"alarmclock/database"
	"alarmclock/handlers"
	"alarmclock/logger"
	"alarmclock/overlay"
	"alarmclock/services"
)

// NewApp builds the HTTP server: middleware, API routes and, in
// production, the single-page frontend.
func NewApp(cfg *config.Config, routes handlers.Routes) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Alarm Clock",
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
		Output: logger.Writer(),
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	api := app.Group("/api")
	handlers.Register(api, routes)

	// Unknown API paths must not fall through to the SPA
	api.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Not found")
	})

	// Serve static files (frontend) in production
	if cfg.Production {
		index := filepath.Join(cfg.StaticDir, "index.html")
		app.Static("/", cfg.StaticDir)
		app.Get("/*", func(c *fiber.Ctx) error {
			if strings.HasPrefix(c.Path(), "/api") {
				return fiber.ErrNotFound
			}
			return c.SendFile(index)
		})
	}

	return app
}

// defaultRoutes wires the production collaborators of the route layer.
func defaultRoutes(cfg *config.Config) handlers.Routes {
	signer := services.NewChallengeSigner(cfg.JWTSecret, cfg.ServerSecret, cfg.ChallengeTTL())
	overlays := handlers.NewOverlayHandler(signer, overlay.NewManager(), database.AlarmStore{})
	pro := handlers.NewProHandler(services.MockVerifier{Delay: cfg.ProVerifyDelay()})

	return handlers.Routes{
		Overlay: overlays,
		Pro:     pro,
	}
}
