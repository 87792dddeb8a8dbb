package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays Config with CUPID_* environment variables. Unset
// variables leave the current values alone. Panics on malformed values.
func parseEnv(cfg *Config) {
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}
}
