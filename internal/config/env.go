package config

import "strconv"

const (
	envDatabaseDSN        = "DATABASE_DSN"
	envEmbeddedPassphrase = "EMBEDDED_PASSPHRASE"
	envPreferredBackend   = "DOCSTORE_BACKEND"
	envAllowFallback      = "DOCSTORE_FALLBACK"
)

// parseEnv overlays secrets and deployment-specific values from the environment.
func parseEnv(config *Config, lookup func(string) (string, bool)) {
	if v, ok := lookup(envDatabaseDSN); ok && v != "" {
		config.DatabaseDSN = v
	}
	if v, ok := lookup(envEmbeddedPassphrase); ok {
		config.EmbeddedPassphrase = v
	}
	if v, ok := lookup(envPreferredBackend); ok && v != "" {
		config.PreferredBackend = v
	}
	if v, ok := lookup(envAllowFallback); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			config.AllowFallback = b
		}
	}
}
