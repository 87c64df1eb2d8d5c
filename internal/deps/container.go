package deps

import (
	"gorm.io/gorm"

	"github.com/joefazee/betsolana/internal/cache"
	"github.com/joefazee/betsolana/internal/ledger"
	"github.com/joefazee/betsolana/internal/logger"
	"github.com/joefazee/betsolana/internal/sanitizer"
	"github.com/joefazee/betsolana/models"
)

// Container holds all shared dependencies
type Container struct {
	DB            *gorm.DB
	Ledger        *ledger.Client
	SnapshotCache cache.Cache[models.Snapshot]
	Sanitizer     sanitizer.HTMLStripperer
	Logger        logger.Logger
}

// NewContainer bundles the shared dependencies
func NewContainer(
	db *gorm.DB,
	ledgerClient *ledger.Client,
	snapshotCache cache.Cache[models.Snapshot],
	sanitizer sanitizer.HTMLStripperer,
	logger logger.Logger,
) *Container {
	return &Container{
		DB:            db,
		Ledger:        ledgerClient,
		SnapshotCache: snapshotCache,
		Sanitizer:     sanitizer,
		Logger:        logger,
	}
}
