package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays Config with CUPID_IDENTITY_* environment variables.
// Panics on malformed values.
func parseEnv(cfg *Config) {
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}
}
