package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	analyticshandler "github.com/wb-tools/seller-atlas/pkg/handlers/analytics"
	assistanthandler "github.com/wb-tools/seller-atlas/pkg/handlers/assistant"
	cabinetshandler "github.com/wb-tools/seller-atlas/pkg/handlers/cabinets"
	selleratlasmiddleware "github.com/wb-tools/seller-atlas/pkg/server/middleware"
	"github.com/wb-tools/seller-atlas/pkg/services/assistant"
	"github.com/wb-tools/seller-atlas/pkg/services/cabinet"
	"github.com/wb-tools/seller-atlas/pkg/store/sqlite/cache"
)

type WebAPI struct {
	router *chi.Mux
	logger *zerolog.Logger
	server *http.Server
}

type Dependencies struct {
	Cabinets  cabinet.Registry
	Runner    analyticshandler.Runner
	Cache     cache.Store
	Optimizer *assistant.Optimizer // nil disables the assistant endpoint
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	deps := config.Dependencies
	analyticsHandler := analyticshandler.NewHandler(deps.Cabinets, deps.Runner, deps.Cache)
	cabinetsHandler := cabinetshandler.NewHandler(deps.Cabinets)
	assistantHandler := assistanthandler.NewHandler(deps.Cabinets, deps.Runner, deps.Optimizer)

	router := chi.NewRouter()

	router.Use(selleratlasmiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/cabinets", cabinetsHandler.ListCabinets)
		r.Get("/analytics/comprehensive", analyticsHandler.GetComprehensive)
		r.Post("/assistant/optimize", assistantHandler.Optimize)
	})

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: router,
		},
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
