package main

import (
	"context"
	"flag"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"quizroom/internal/app"
	"quizroom/internal/config"
	"quizroom/internal/repository"
)

// seed replaces the Mongo question bank with the contents of a YAML file.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if err := app.SetupLogging(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatal().Err(err).Msg("invalid LOG_LEVEL")
	}

	file := flag.String("file", cfg.QuestionsFile, "YAML question bank to import")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	questions, err := repository.LoadBank(ctx, repository.NewFileQuestionSource(*file))
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("read question bank")
	}

	client, err := app.ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	repo := repository.NewQuestionRepo(client, cfg.MongoDB)
	if err := repo.ReplaceAll(ctx, questions); err != nil {
		log.Fatal().Err(err).Msg("seed questions")
	}
	count, err := repo.Count(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("count questions")
	}
	log.Info().Int64("questions", count).Str("database", cfg.MongoDB).Msg("question bank seeded")
}
