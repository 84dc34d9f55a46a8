package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"quizroom/internal/app"
	"quizroom/internal/config"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if err := app.SetupLogging(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatal().Err(err).Msg("invalid LOG_LEVEL")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}

	log.Info().
		Str("port", cfg.Port).
		Str("publicBaseUrl", cfg.PublicBaseURL).
		Bool("redis", cfg.RedisURI != "").
		Bool("nats", cfg.NATSURL != "").
		Msg("quiz room server configured")

	if err := server.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
