package app

import (
	"github.com/joefazee/betsolana/app/database"
	"github.com/joefazee/betsolana/app/markets"
	"github.com/joefazee/betsolana/internal/cache"
	"github.com/joefazee/betsolana/internal/ledger"
	"github.com/joefazee/betsolana/internal/nexus"
)

type Config struct {
	DB      database.Config
	Ledger  ledger.Config
	Cache   cache.Config
	Markets markets.Config

	AppHost  string `env:"APP_HOST" env-default:"localhost"`
	AppPort  string `env:"APP_PORT" env-default:"8080"`
	Env      string `env:"APP_ENV" env-default:"development" validate:"oneof=development staging production test"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
}

// Validate checks the nested module configurations
func (c *Config) Validate() error {
	if err := c.DB.Validate(); err != nil {
		return err
	}
	if err := c.Ledger.Validate(); err != nil {
		return err
	}
	return c.Markets.Validate()
}

// LoadConfig loads the application configuration from environment variables or a config file.
func LoadConfig() (*Config, error) {
	c := &Config{}
	err := nexus.NewLoader().Load(c)
	return c, err
}
