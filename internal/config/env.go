package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every environment variable read by parseEnv.
const EnvPrefix = "MUSICARCHIVE_"

// parseEnv overlays cfg with MUSICARCHIVE_* variables. Unset variables leave
// the current values untouched.
func parseEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
