// Package server wires configuration, store session, repositories, services
// and handlers into a runnable fiber application. It is shared by cmd/api and
// the CLI serve command.
package server

import (
	"context"
	"os"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/AndrewChmutov/big-medicine/internal/config"
	"github.com/AndrewChmutov/big-medicine/internal/handler"
	"github.com/AndrewChmutov/big-medicine/internal/metrics"
	"github.com/AndrewChmutov/big-medicine/internal/repository"
	"github.com/AndrewChmutov/big-medicine/internal/service"
	"github.com/AndrewChmutov/big-medicine/internal/validator"
	"github.com/AndrewChmutov/big-medicine/pkg/database"
)

// InitLogger configures zerolog from the process environment.
func InitLogger(env *config.Env) {
	level, err := zerolog.ParseLevel(env.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if env.LogPretty {
		// Human-readable output for development
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
	} else {
		// JSON output for production
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}

// New connects to the store, bootstraps the keyspace and assembles the fiber
// application. The returned cleanup releases the store session and must be
// called after the app shuts down.
func New(ctx context.Context, cfg *config.Config) (*fiber.App, func(), error) {
	session, err := database.NewSession(ctx, cfg.Cassandra, 5)
	if err != nil {
		return nil, nil, err
	}
	stmts := database.NewStatements(cfg.Cassandra.Keyspace)

	monitor := metrics.NewMonitor(prometheus.DefaultRegisterer)
	validate := validator.New()

	catalogRepo := repository.NewCatalogRepository(session, stmts)
	reservationRepo := repository.NewReservationRepository(session, stmts)
	adminRepo := repository.NewAdminRepository(session, cfg.Cassandra)

	reservationService := service.NewReservationService(catalogRepo, reservationRepo, monitor)
	queryService := service.NewQueryService(catalogRepo, reservationRepo)
	adminService := service.NewAdminService(adminRepo)

	reservationHandler := handler.NewReservationHandler(reservationService, validate, monitor)
	queryHandler := handler.NewQueryHandler(queryService, monitor)
	adminHandler := handler.NewAdminHandler(adminService, monitor)

	app := fiber.New(fiber.Config{
		AppName:      "Big Medicine",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    1 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New())

	app.Post("/reserve", reservationHandler.Reserve)
	app.Post("/update", reservationHandler.Update)
	app.Get("/query", queryHandler.QueryByID)
	app.Get("/query-account", queryHandler.QueryByAccount)
	app.Get("/query-all", queryHandler.QueryAll)
	app.Get("/medicine", queryHandler.Medicine)
	app.Get("/clean", adminHandler.Clean)
	app.Get("/direct", adminHandler.Direct)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	cleanup := func() {
		log.Info().Msg("closing store session...")
		session.Close()
		log.Info().Msg("store session closed")
	}
	return app, cleanup, nil
}
