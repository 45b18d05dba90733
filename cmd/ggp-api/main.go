package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/tausif4802/ggp-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	portal, err := app.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("portal api init failed")
	}
	defer portal.Close()

	if err := portal.Run(ctx); err != nil {
		log.Error().Err(err).Msg("portal api stopped")
	}
}
