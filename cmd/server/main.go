package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/config"
	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/database"
	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/server"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	zerolog.TimeFieldFormat = time.RFC3339

	cfg := config.Load()
	database.Init(cfg, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, database.DB, log)
	if err := srv.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
