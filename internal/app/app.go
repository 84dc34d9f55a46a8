package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quizroom/internal/cache"
	"quizroom/internal/config"
	"quizroom/internal/model"
	"quizroom/internal/publisher"
	"quizroom/internal/repository"
	"quizroom/internal/service"
	"quizroom/internal/transport/rest"
	"quizroom/internal/transport/ws"
)

const (
	inboxSize       = 1024
	eventQueueSize  = 256
	sinkTimeout     = 2 * time.Second
	connectTimeout  = 5 * time.Second
	shutdownTimeout = 15 * time.Second
	qrImageSize     = 256
)

// App is the wired quiz server.
type App struct {
	cfg    *config.Config
	Engine *service.Engine
	Hub    *ws.Hub
	Server *http.Server

	fanout  *service.EventFanout
	closers []func(context.Context) error
}

// New connects the configured backends, loads the question bank and wires the engine.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{cfg: cfg}

	questions, err := a.loadQuestions(ctx)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}
	log.Info().Int("questions", len(questions)).Str("source", string(cfg.QuestionSource)).Msg("question bank loaded")

	var (
		sinks       []service.RoomEventSink
		leaderboard cache.LeaderboardCache
	)
	if cfg.RedisURI != "" {
		rdb, err := connectRedis(ctx, cfg.RedisURI)
		if err != nil {
			a.Close(ctx)
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })
		leaderboard = cache.NewLeaderboardCache(rdb)
		sinks = append(sinks, cache.NewEventSink(cache.NewRoomCache(rdb), leaderboard))
		log.Info().Msg("connected to Redis")
	}
	if cfg.NATSURL != "" {
		nc, err := publisher.Connect(cfg.NATSURL)
		if err != nil {
			a.Close(ctx)
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return nc.Drain() })
		sinks = append(sinks, publisher.NewNATSPublisher(nc))
		log.Info().Str("url", nc.ConnectedUrl()).Msg("connected to NATS")
	}

	clock := clockwork.NewRealClock()
	inbox := service.NewInbox(inboxSize)
	a.Hub = ws.NewHub()

	machine := service.NewSessionMachine(questions, service.NewRoundScheduler(clock, inbox), a.Hub, clock, service.SessionConfig{
		RoundBuffer:   cfg.RoundBuffer,
		CorrectReward: cfg.CorrectReward,
	})
	if len(sinks) > 0 {
		a.fanout = service.NewEventFanout(eventQueueSize, sinkTimeout, sinks...)
		machine.SetEvents(a.fanout)
	}
	a.Engine = service.NewEngine(inbox, machine, a.Hub, service.NewQRService(qrImageSize), cfg.PublicBaseURL)

	wsHandler := ws.NewHandler(a.Hub, a.Engine, ws.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		RatePerSec:     cfg.WSRatePerSec,
		Burst:          cfg.WSBurst,
	})
	a.Server = &http.Server{
		Addr: ":" + cfg.Port,
		Handler: rest.NewRouter(&rest.Container{
			Rooms:          a.Engine,
			Leaderboard:    leaderboard,
			WSHandler:      wsHandler,
			AllowedOrigins: cfg.AllowedOrigins,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return a, nil
}

func (a *App) loadQuestions(ctx context.Context) ([]model.Question, error) {
	switch a.cfg.QuestionSource {
	case config.QuestionSourceMongo:
		client, err := ConnectMongo(ctx, a.cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Disconnect)
		return repository.LoadBank(ctx, repository.NewQuestionRepo(client, a.cfg.MongoDB))
	default:
		return repository.LoadBank(ctx, repository.NewFileQuestionSource(a.cfg.QuestionsFile))
	}
}

// Run serves until ctx is cancelled, then drains HTTP, stops the engine and flushes events.
func (a *App) Run(ctx context.Context) error {
	engineCtx, stopEngine := context.WithCancel(context.Background())
	defer stopEngine()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.Engine.Run(engineCtx)
	}()
	if a.fanout != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.fanout.Run(engineCtx)
		}()
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", a.Server.Addr).Msg("server starting")
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server")
	case runErr = <-serveErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	stopEngine()
	wg.Wait()
	a.Close(shutdownCtx)
	log.Info().Msg("server exited")
	return runErr
}

// Close releases backend connections in reverse order of acquisition.
func (a *App) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			log.Warn().Err(err).Msg("close backend")
		}
	}
	a.closers = nil
}

func connectRedis(ctx context.Context, uri string) (*redis.Client, error) {
	opts, err := redis.ParseURL(uri)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URI: %w", err)
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping Redis: %w", err)
	}
	return rdb, nil
}

// ConnectMongo connects and pings MongoDB.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}
	return client, nil
}
