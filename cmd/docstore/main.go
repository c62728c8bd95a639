package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/docstore/internal/app"
	"github.com/dmitrijs2005/docstore/internal/config"
	"github.com/dmitrijs2005/docstore/internal/logging"
)

func main() {
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := app.EnsurePassphrase(cfg, os.Stderr); err != nil {
		log.Fatalf("%v", err)
	}

	logger, err := logging.NewJSON(os.Stderr, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	if err := app.NewApp(cfg, logger, os.Stdout).Run(context.Background()); err != nil {
		os.Exit(1)
	}
}
