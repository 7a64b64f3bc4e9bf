package router

import (
	"context"
	"fmt"
	"net/http"

	expsvc "quantum-energy-backend/internal/application/experiments"
	lesvc "quantum-energy-backend/internal/application/listingevents"
	mktsvc "quantum-energy-backend/internal/application/marketplace"
	nftsvc "quantum-energy-backend/internal/application/nfts"
	"quantum-energy-backend/internal/config"
	"quantum-energy-backend/internal/infrastructure/cache"
	"quantum-energy-backend/internal/infrastructure/database"
	adminhandler "quantum-energy-backend/internal/interfaces/handlers/admin"
	balhandler "quantum-energy-backend/internal/interfaces/handlers/balances"
	exphandler "quantum-energy-backend/internal/interfaces/handlers/experiments"
	healthhandler "quantum-energy-backend/internal/interfaces/handlers/health"
	lehandler "quantum-energy-backend/internal/interfaces/handlers/listingevents"
	mkthandler "quantum-energy-backend/internal/interfaces/handlers/marketplace"
	nfthandler "quantum-energy-backend/internal/interfaces/handlers/nfts"
	"quantum-energy-backend/internal/middleware"
	"quantum-energy-backend/internal/pkg/clock"
	"quantum-energy-backend/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CreateApp opens the database and Redis from cfg and registers every route.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open database: %w", err)
	}
	if cfg.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, nil, fmt.Errorf("migrate database: %w", err)
		}
	}
	rdb, err := cache.OpenRedis(context.Background(), cfg.RedisURL)
	if err != nil {
		return nil, nil, nil, err
	}
	if rdb == nil {
		log.Warn().Msg("REDIS_URL not set; request stats disabled")
	}
	return NewApp(cfg, db, rdb, clock.System{}), db, rdb, nil
}

// NewApp builds the Fiber app on already opened stores. rdb may be nil.
func NewApp(cfg *config.Config, db *gorm.DB, rdb *redis.Client, clk clock.Clock) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix:  cfg.CORSAllowedSuffix,
		AllowLocalhost: !cfg.IsProduction(),
	}))
	app.Use(middleware.Tracing())
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.RouteLogger())

	hh := &healthhandler.Handlers{Rdb: rdb, AdminKey: cfg.AdminKey}
	if sqlDB, err := db.DB(); err == nil {
		hh.DB = sqlDB
	}
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)
	app.Get("/metrics", metrics.Handler())

	ms := &mktsvc.Service{DB: db, Clock: clk}

	mh := &mkthandler.Handlers{Service: ms}
	mg := app.Group("/api/v1/marketplace", middleware.RequirePrincipal())
	mg.Post("/create-listing", mh.CreateListing)
	mg.Post("/purchase-energy", mh.PurchaseEnergy)
	mg.Post("/cancel-listing", mh.CancelListing)
	mg.Get("/get-listing/:listing_id", mh.GetListing)
	mg.Get("/get-active-listings", mh.GetActiveListings)
	mg.Get("/get-my-listings", mh.GetMyListings)

	bh := &balhandler.Handlers{Service: ms}
	bg := app.Group("/api/v1/balances", middleware.RequirePrincipal())
	bg.Get("/view-balances", bh.ViewBalances)

	adh := &adminhandler.Handlers{Service: ms}
	ag := app.Group("/api/v1/admin", middleware.RequireAdminKey(cfg.AdminKey))
	ag.Put("/set-balance", adh.SetBalance)

	leh := &lehandler.Handlers{Service: &lesvc.Service{DB: db}}
	leg := app.Group("/api/v1/listing-events", middleware.RequirePrincipal())
	leg.Get("/get-listing-events/:listing_id", leh.GetListingEvents)

	eh := &exphandler.Handlers{Service: &expsvc.Service{DB: db, Clock: clk}}
	eg := app.Group("/api/v1/experiments", middleware.RequirePrincipal())
	eg.Post("/start-experiment", eh.StartExperiment)
	eg.Post("/end-experiment", eh.EndExperiment)
	eg.Get("/get-experiment/:experiment_id", eh.GetExperiment)
	eg.Get("/get-my-experiments", eh.GetMyExperiments)

	nh := &nfthandler.Handlers{Service: &nftsvc.Service{DB: db, Clock: clk}}
	ng := app.Group("/api/v1/nfts", middleware.RequirePrincipal())
	ng.Post("/mint-hotspot", nh.MintHotspot)
	ng.Post("/mint-vacuum-energy", nh.MintVacuumEnergy)
	ng.Post("/transfer", nh.Transfer)
	ng.Get("/get-my-tokens", nh.GetMyTokens)
	ng.Get("/:collection/:token_id", nh.GetToken)

	return app
}

func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
