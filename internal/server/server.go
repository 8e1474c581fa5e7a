// Package server assembles the Fiber application.
package server

import (
	"storefront/internal/handlers"
	"storefront/internal/metrics"
	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// Options carries everything the HTTP layer depends on.
type Options struct {
	ProductService   *services.ProductService
	AuthService      *services.AuthService
	Metrics          *metrics.Metrics
	PingDB           handlers.PingFunc
	FrontendURL      string
	CORSAllowOrigins string
	// DisableRequestLog turns off the per-request access log line.
	DisableRequestLog bool
}

// New builds the application with its middleware and routes.
func New(opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "storefront",
		DisableStartupMessage: true,
		ErrorHandler:          handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	if !opts.DisableRequestLog {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		}))
	}
	allowOrigins := opts.CORSAllowOrigins
	if allowOrigins == "" {
		allowOrigins = "*"
	}
	app.Use(cors.New(cors.Config{AllowOrigins: allowOrigins}))
	if opts.Metrics != nil {
		app.Use(middleware.Metrics(opts.Metrics))
		app.Get("/metrics", adaptor.HTTPHandler(opts.Metrics.Handler()))
	}

	handlers.NewHealthHandler(opts.PingDB).RegisterRoutes(app)

	api := app.Group("/api")
	handlers.NewProductHandler(opts.ProductService).RegisterRoutes(api)
	handlers.NewAuthHandler(opts.AuthService, opts.FrontendURL).RegisterRoutes(api)

	return app
}
