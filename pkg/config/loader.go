package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load populates cfg from environment variables using `env` struct tags.
// Required variables fail the parse; defaults come from `envDefault`.
//
// Example:
//
//	type Config struct {
//	    HTTPPort int    `env:"BOOKCART_HTTP_PORT" envDefault:"8004"`
//	    MongoURI string `env:"MONGO_URI,required"`
//	}
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
