package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nfonseca1/chat-app-server/internal/api"
	"github.com/nfonseca1/chat-app-server/internal/cache"
	"github.com/nfonseca1/chat-app-server/internal/chat"
	cfgpkg "github.com/nfonseca1/chat-app-server/internal/config"
	"github.com/nfonseca1/chat-app-server/internal/events"
	"github.com/nfonseca1/chat-app-server/internal/kafka"
	"github.com/nfonseca1/chat-app-server/internal/metrics"
	"github.com/nfonseca1/chat-app-server/internal/store"
	"github.com/nfonseca1/chat-app-server/internal/ws"
)

func main() {
	_ = godotenv.Load()

	cfg, err := cfgpkg.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("config load")
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	mc, err := store.NewMongoClient(ctx, cfg.Mongo.URI)
	if err != nil {
		log.Fatal().Err(err).Msg("mongo init")
	}
	defer func() { _ = mc.Disconnect(context.Background()) }()
	st := store.NewMongoStore(mc.Database(cfg.Mongo.Database))

	var convCache chat.ConversationCache
	if cfg.Redis.Addr != "" {
		rc, err := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.CacheTTL)
		if err != nil {
			log.Fatal().Err(err).Msg("redis init")
		}
		defer rc.Close()
		convCache = rc
	}

	var publisher *events.Publisher
	if cfg.Nats.URL != "" {
		publisher, err = events.NewPublisher(cfg.Nats.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("nats init")
		}
		defer publisher.Close()
	}

	var producer *kafka.Producer
	var consumer *kafka.Consumer
	if len(cfg.Kafka.Brokers) > 0 {
		producer = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicOut)
		defer producer.Close()
		consumer = kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicIn, cfg.Kafka.GroupID)
		defer consumer.Close()
	}

	users := chat.NewUsers(st)
	index := chat.NewConversationIndex(st, convCache, publisher)
	messages := chat.NewMessageStore(st)

	hub := ws.NewHub()
	var pub ws.MessagePublisher
	if producer != nil {
		pub = producer
	}
	dispatcher := ws.NewDispatcher(messages, hub, pub)
	wsrv := ws.NewServer(hub, dispatcher)

	if consumer != nil {
		go consumer.Run(ctx, hub)
	}

	app := api.NewServer(api.NewHandlers(users, index, messages), wsrv)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
		if err := http.ListenAndServe(addr, metrics.Handler()); err != nil {
			log.Error().Err(err).Msg("metrics listen")
		}
	}()

	go func() {
		if err := app.Listen(fmt.Sprintf(":%d", cfg.App.Port)); err != nil {
			log.Fatal().Err(err).Msg("server listen")
		}
	}()
	log.Info().Int("port", cfg.App.Port).Msg("chat-app-server started")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(shutdownCtx)
	log.Info().Msg("chat-app-server stopped")
}

func setupLogging(cfg *cfgpkg.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.App.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
