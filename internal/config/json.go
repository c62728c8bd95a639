package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/docstore/internal/flagx"
	"github.com/dmitrijs2005/docstore/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations use
// timex.Duration so both "1s" and integer nanoseconds are accepted.
// Absent fields leave the current value untouched.
type JsonConfig struct {
	PreferredBackend   *string         `json:"preferred_backend"`
	DatabaseDSN        *string         `json:"database_dsn"`
	ConnectTimeout     *timex.Duration `json:"connect_timeout"`
	StatementTimeout   *timex.Duration `json:"statement_timeout"`
	MaxOpenConns       *int            `json:"max_open_conns"`
	EmbeddedPath       *string         `json:"embedded_path"`
	EmbeddedPassphrase *string         `json:"embedded_passphrase"`
	ConnectAttempts    *int            `json:"connect_attempts"`
	ConnectBaseDelay   *timex.Duration `json:"connect_base_delay"`
	AllowFallback      *bool           `json:"allow_fallback"`
	LogLevel           *string         `json:"log_level"`
}

// parseJson overlays values from the file named by -c/-config, if any.
func parseJson(config *Config, args []string) error {
	jsonConfigFile := flagx.ConfigPath(args)

	// nothing to load
	if jsonConfigFile == "" {
		return nil
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", jsonConfigFile, err)
	}

	setString(&config.PreferredBackend, c.PreferredBackend)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.EmbeddedPath, c.EmbeddedPath)
	setString(&config.EmbeddedPassphrase, c.EmbeddedPassphrase)
	setString(&config.LogLevel, c.LogLevel)
	if c.ConnectTimeout != nil {
		config.ConnectTimeout = c.ConnectTimeout.Duration
	}
	if c.StatementTimeout != nil {
		config.StatementTimeout = c.StatementTimeout.Duration
	}
	if c.ConnectBaseDelay != nil {
		config.ConnectBaseDelay = c.ConnectBaseDelay.Duration
	}
	if c.MaxOpenConns != nil {
		config.MaxOpenConns = *c.MaxOpenConns
	}
	if c.ConnectAttempts != nil {
		config.ConnectAttempts = *c.ConnectAttempts
	}
	if c.AllowFallback != nil {
		config.AllowFallback = *c.AllowFallback
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
