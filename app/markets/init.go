package markets

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/joefazee/betsolana/app/api"
	"github.com/joefazee/betsolana/internal/cache"
	"github.com/joefazee/betsolana/internal/logger"
	"github.com/joefazee/betsolana/internal/sanitizer"
	"github.com/joefazee/betsolana/models"
)

// Dependencies represents the dependencies needed for the markets module
type Dependencies struct {
	Ledger    Ledger
	DB        *gorm.DB
	Cache     cache.Cache[models.Snapshot]
	Logger    logger.Logger
	Sanitizer sanitizer.HTMLStripperer
	Config    *Config
}

// Init initializes the markets module and mounts routes
func Init(r *gin.RouterGroup, deps Dependencies) {
	config := deps.Config
	if config == nil {
		config = GetDefaultConfig()
	}

	if err := config.Validate(); err != nil {
		panic("Invalid markets configuration: " + err.Error())
	}

	log := deps.Logger
	if log == nil {
		log = logger.NewNullLogger()
	}

	snapshotCache := deps.Cache
	if snapshotCache == nil {
		snapshotCache = cache.NewMemoryCache[models.Snapshot]()
	}

	pe := NewPricingEngine(config)
	claimRepo := NewClaimRepository(deps.DB)
	srvs := NewService(deps.Ledger, claimRepo, snapshotCache, config, pe, log, deps.Sanitizer)
	handler := NewHandler(srvs, config, deps.Sanitizer, log)

	registerRoutes(r, handler)
}

func registerRoutes(r *gin.RouterGroup, handler *Handler) {
	marketsGroup := r.Group("/markets", api.Viewer())
	marketsGroup.GET("", handler.GetMarkets)
	marketsGroup.POST("/refresh", handler.RefreshSnapshot)
	marketsGroup.GET("/:address", handler.GetMarket)
	marketsGroup.GET("/:address/quote", handler.QuoteBet)
	marketsGroup.GET("/:address/claims", handler.GetClaims)
	marketsGroup.POST("/:address/claims", handler.RecordClaim)

	r.GET("/dashboard", api.Viewer(), api.RequireViewer(), handler.GetDashboard)
}
