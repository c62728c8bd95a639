package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/docstore/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-backend string   preferred backend (postgres or sqlite)
//	-d string         PostgreSQL DSN
//	-f string         embedded database file
//	-attempts int     connection attempts against the preferred backend
//	-delay int        base retry delay, milliseconds
//	-timeout int      connect timeout, seconds
//	-fallback bool    use the other backend when the preferred one is down
//	-log string       log level
//
// The passphrase is deliberately not a flag so it never shows up in
// process listings.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-backend", "-d", "-f", "-attempts", "-delay", "-timeout", "-fallback", "-log"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.PreferredBackend, "backend", config.PreferredBackend, "preferred backend")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.EmbeddedPath, "f", config.EmbeddedPath, "embedded database file")
	fs.IntVar(&config.ConnectAttempts, "attempts", config.ConnectAttempts, "connect attempts")
	delay := fs.Int("delay", int(config.ConnectBaseDelay.Milliseconds()), "base retry delay (in milliseconds)")
	timeout := fs.Int("timeout", int(config.ConnectTimeout.Seconds()), "connect timeout (in seconds)")
	fs.BoolVar(&config.AllowFallback, "fallback", config.AllowFallback, "use the other backend when the preferred one is down")
	fs.StringVar(&config.LogLevel, "log", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "delay":
			config.ConnectBaseDelay = time.Duration(*delay) * time.Millisecond
		case "timeout":
			config.ConnectTimeout = time.Duration(*timeout) * time.Second
		}
	})
	return nil
}
