package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/huectl/internal/cli"
)

func main() {
	// Create context that cancels on shutdown signal
	ctx, stop := cli.SignalContext(context.Background())

	app := cli.New()
	err := app.Run(ctx, os.Args[1:])
	stop()
	if err != nil {
		log.Fatal().Err(err).Str("run_id", app.RunID()).Msg("huectl failed")
	}
}
