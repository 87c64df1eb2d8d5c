package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/joefazee/betsolana/app"
	"github.com/joefazee/betsolana/app/api"
	"github.com/joefazee/betsolana/app/database"
	"github.com/joefazee/betsolana/app/markets"
	"github.com/joefazee/betsolana/internal/cache"
	"github.com/joefazee/betsolana/internal/deps"
	"github.com/joefazee/betsolana/internal/ledger"
	"github.com/joefazee/betsolana/internal/logger"
	"github.com/joefazee/betsolana/internal/router"
	"github.com/joefazee/betsolana/internal/sanitizer"
	"github.com/joefazee/betsolana/models"
)

// @title BetSolana API
// @version 1.0
// @description Read side of the BetSolana binary prediction markets: market listings, odds, positions, bet quotes and claims.

// @license.name MIT License
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https
func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	newLogger := logger.NewZeroLogger
	if cfg.Env == "development" {
		newLogger = logger.NewConsoleLogger
	}
	appLogger := newLogger(os.Stdout, logger.ParseLevel(cfg.LogLevel), logger.Fields{
		"service": "betsolana",
		"env":     cfg.Env,
	})

	if err := database.MigrateUp(cfg.DB.MigrationsPath, cfg.DB.URL()); err != nil {
		appLogger.Fatal(err, map[string]interface{}{"stage": "migrate"})
	}

	db, err := database.New(&cfg.DB)
	if err != nil {
		appLogger.Fatal(err, map[string]interface{}{"stage": "database"})
	}

	snapshotCache, err := cache.NewCache[models.Snapshot](cfg.Cache)
	if err != nil {
		appLogger.Fatal(err, map[string]interface{}{"stage": "cache"})
	}

	ledgerClient, err := ledger.NewClient(&cfg.Ledger, appLogger)
	if err != nil {
		appLogger.Fatal(err, map[string]interface{}{"stage": "ledger"})
	}

	container := deps.NewContainer(db, ledgerClient, snapshotCache, sanitizer.NewHTMLStripper(), appLogger)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(api.CorsMiddleware())

	router.NewMounter(container).
		Public(r).
		Mount(mountHealth(api.HealthInfo{
			Env:       cfg.Env,
			Version:   "1.0.0",
			Cluster:   cfg.Ledger.RPCEndpoint,
			ProgramID: cfg.Ledger.ProgramID,
		})).
		Mount(mountMarkets(&cfg.Markets))

	appLogger.Info("starting BetSolana API server", map[string]interface{}{
		"host":    cfg.AppHost,
		"port":    cfg.AppPort,
		"program": cfg.Ledger.ProgramID,
		"rpc":     cfg.Ledger.RPCEndpoint,
	})
	if err := r.Run(fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort)); err != nil {
		appLogger.Fatal(err, map[string]interface{}{"stage": "serve"})
	}
}

func mountHealth(info api.HealthInfo) router.MountFunc {
	return func(r *gin.RouterGroup, _ *deps.Container) {
		r.GET("/healthz", api.HealthCheck(info))
	}
}

func mountMarkets(config *markets.Config) router.MountFunc {
	return func(r *gin.RouterGroup, c *deps.Container) {
		markets.Init(r, markets.Dependencies{
			Ledger:    c.Ledger,
			DB:        c.DB,
			Cache:     c.SnapshotCache,
			Logger:    c.Logger,
			Sanitizer: c.Sanitizer,
			Config:    config,
		})
	}
}
