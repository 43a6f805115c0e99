package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ServerConfig holds fiber app settings.
type ServerConfig struct {
	AppName        string
	RequestTimeout time.Duration
}

// NewApp builds the fiber application with global middleware and every route attached.
func NewApp(cfg ServerConfig, logger *zap.Logger, routes RouteConfig) *fiber.App {
	if logger == nil {
		logger = zap.NewNop()
	}
	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler(logger),
	})
	RegisterMiddlewares(app, logger, routes.Metrics, cfg.RequestTimeout)
	RegisterRoutes(app, routes)
	return app
}
