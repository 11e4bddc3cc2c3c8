package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/AndrewChmutov/big-medicine/internal/config"
	"github.com/AndrewChmutov/big-medicine/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the reservation API server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := config.LoadEnv()
		if err != nil {
			return err
		}
		server.InitLogger(env)

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		app, cleanup, err := server.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		addr := cfg.Network.Server.Addr()
		go func() {
			log.Info().Str("addr", addr).Msg("starting server")
			if err := app.Listen(addr); err != nil {
				log.Fatal().Err(err).Msg("failed to start server")
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		sig := <-quit
		log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(env.ShutdownTimeout)*time.Second,
		)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("error during server shutdown")
		}
		cleanup()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
