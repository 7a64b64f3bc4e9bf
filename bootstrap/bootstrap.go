package bootstrap

import (
	"quantum-energy-backend/internal/config"
	"quantum-energy-backend/internal/interfaces/router"
	"quantum-energy-backend/internal/pkg/logging"

	"github.com/gofiber/fiber/v2"
)

// New creates the Fiber app for serverless hosts (the api handler imports this package, not internal).
func New() (*fiber.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.LogLevel, false)
	app, _, _, err := router.CreateApp(cfg)
	return app, err
}
