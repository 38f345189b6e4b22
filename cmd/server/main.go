package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"climatestation/backend/internal/config"
	"climatestation/backend/internal/mqttsource"
	"climatestation/backend/internal/station"
	"climatestation/backend/internal/web"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("LOG_PRETTY") == "true" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	setupCtx, cancelSetup := context.WithTimeout(ctx, 10*time.Second)
	store, err := station.NewPostgresStore(setupCtx, cfg.DatabaseURL, int32(cfg.PGMaxConns))
	cancelSetup()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create postgres store")
	}
	defer store.Close()

	buffer := station.NewBuffer(cfg.BufferCapacity)
	hub := station.NewHub(log.Logger)
	reconciler := station.NewReconciler(buffer, store, hub, cfg.HistoryLimit, log.Logger)

	source := mqttsource.New(mqttsource.Config{
		BrokerURL:    cfg.BrokerURL(),
		ClientID:     cfg.MQTTClientID,
		Topic:        cfg.Topic,
		CommandTopic: cfg.LightSwitchTopic,
	}, log.Logger)
	if err := source.Connect(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mqtt broker")
	}
	defer source.Close()

	relay := station.NewRelay(source, hub, log.Logger)
	pipeline := station.NewPipeline(buffer, store, hub, log.Logger)
	go pipeline.Run(ctx, source.Messages())

	api := web.NewAPI(store, hub, reconciler, relay, web.Options{
		BasicAuthUsername: cfg.BasicAuthUsername,
		BasicAuthPassword: cfg.BasicAuthPassword,
		APIRequestLimit:   cfg.APIRequestLimit,
	}, log.Logger)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("topic", cfg.Topic).Msg("climate station listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
}
