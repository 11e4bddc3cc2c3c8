package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/AndrewChmutov/big-medicine/internal/config"
	"github.com/AndrewChmutov/big-medicine/internal/server"
)

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load environment")
	}
	server.InitLogger(env)

	if env.ConfigPath == "" {
		log.Fatal().Msgf("please provide the %s environment variable", config.ConfigPathEnv)
	}
	cfg, err := config.Load(env.ConfigPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	app, cleanup, err := server.New(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize server")
	}

	addr := cfg.Network.Server.Addr()
	go func() {
		log.Info().Str("addr", addr).Msg("starting server")
		if err := app.Listen(addr); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(env.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	log.Info().Msg("waiting for in-flight requests to complete...")
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	cleanup()
	log.Info().Msg("server stopped")
}
