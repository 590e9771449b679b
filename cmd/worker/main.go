package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/inboop/inboop_server/config"
	"github.com/inboop/inboop_server/internal/database"
	"github.com/inboop/inboop_server/internal/logging"
	"github.com/inboop/inboop_server/internal/pkg/pubsub"
	"github.com/inboop/inboop_server/internal/pkg/queue"
	"github.com/inboop/inboop_server/internal/repository"
	"github.com/inboop/inboop_server/internal/worker"
)

func main() {
	cfg, err := config.Load(config.PathFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logging.Init(cfg.Log, "worker")

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	log.Info().Msg("database connected")

	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("connect redis")
	}
	log.Info().Msg("redis connected")

	eventQueue := queue.NewQueue(rdb, cfg.Webhook.Queue)
	processor := worker.NewProcessor(
		repository.NewChannelAccountRepository(db),
		repository.NewConversationRepository(db),
		pubsub.NewPublisher(rdb),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info().Msg("received shutdown signal")
		cancel()
	}()

	if n, err := eventQueue.Length(ctx); err == nil {
		log.Info().Int64("backlog", n).Int("workers", cfg.Webhook.MaxWorkers).Str("queue", cfg.Webhook.Queue).Msg("worker started")
	}

	worker.NewPool(eventQueue, processor, cfg.Webhook.MaxWorkers).Run(ctx)

	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("close redis")
	}
	log.Info().Msg("worker shutdown complete")
}
