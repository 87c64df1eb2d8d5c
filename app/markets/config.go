package markets

import (
	"time"

	"github.com/joefazee/betsolana/models"
)

// Config represents the configuration for the markets module
type Config struct {
	OddsPrecision   int32         `env:"MARKETS_ODDS_PRECISION" env-default:"4"`
	SnapshotTTL     time.Duration `env:"MARKETS_SNAPSHOT_TTL" env-default:"10s"`
	SnapshotKey     string        `env:"MARKETS_SNAPSHOT_KEY" env-default:"betsolana:markets:snapshot"`
	DefaultPageSize int           `env:"MARKETS_DEFAULT_PAGE_SIZE" env-default:"20"`
	MaxPageSize     int           `env:"MARKETS_MAX_PAGE_SIZE" env-default:"100"`
	SearchMaxRunes  int           `env:"MARKETS_SEARCH_MAX_RUNES" env-default:"200"`
}

// Validate validates the market configuration
func (c *Config) Validate() error {
	if c.OddsPrecision < 1 || c.OddsPrecision > 18 {
		return models.ErrInvalidOddsPrecision
	}

	if c.SnapshotTTL < 0 {
		return models.ErrInvalidCacheTTL
	}

	if c.DefaultPageSize <= 0 || c.MaxPageSize < c.DefaultPageSize {
		return models.ErrInvalidPageSize
	}

	return nil
}

// GetDefaultConfig returns the default configuration
func GetDefaultConfig() *Config {
	return &Config{
		OddsPrecision:   4,
		SnapshotTTL:     10 * time.Second,
		SnapshotKey:     "betsolana:markets:snapshot",
		DefaultPageSize: 20,
		MaxPageSize:     100,
		SearchMaxRunes:  200,
	}
}
