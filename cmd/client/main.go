package main

import (
	"context"
	"log"

	"github.com/rootpulse/pulse-cli/internal/client/cli"
	"github.com/rootpulse/pulse-cli/internal/client/config"
	"github.com/rootpulse/pulse-cli/internal/logging"
)

func main() {
	cfg := config.LoadConfig()
	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
