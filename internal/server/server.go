package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/yigit/skillswap/internal/bootstrap"
	"github.com/yigit/skillswap/internal/config"
)

const shutdownTimeout = 10 * time.Second

// Server holds the state for the HTTP server.
type Server struct {
	config *config.Config
	router *gin.Engine
	deps   *bootstrap.Dependencies
	logger zerolog.Logger
	http   *http.Server

	// cancel stops the bus forwarder and the websocket hub
	cancel context.CancelFunc
	ctx    context.Context
}

// NewServer creates and initializes a new server instance by calling bootstrap functions.
func NewServer(configPath string) (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	storage, err := bootstrap.SetupStorage(ctx, cfg, lgr)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to setup storage: %w", err)
	}

	bus, err := bootstrap.SetupBus(ctx, cfg, lgr)
	if err != nil {
		cancel()
		storage.Close()
		return nil, fmt.Errorf("failed to setup realtime bus: %w", err)
	}

	bootstrap.SeedDemoData(ctx, cfg, storage, lgr)

	deps := bootstrap.BuildDependencies(cfg, storage, bus, lgr)
	router := bootstrap.SetupRouter(cfg, deps, lgr)

	return &Server{
		config: cfg,
		router: router,
		deps:   deps,
		logger: lgr,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Run starts the HTTP server and the websocket hub and blocks until a
// signal arrives or one of them fails, then shuts down gracefully.
func (s *Server) Run() error {
	s.http = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(s.ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(sigCtx)

	g.Go(func() error {
		s.deps.Hub.Run(gctx)
		return nil
	})

	g.Go(func() error {
		s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error starting server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info().Msg("Initiating shutdown...")
		return s.Shutdown(context.Background())
	})

	return g.Wait()
}

// Shutdown gracefully stops the server and closes resources.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	var errs error

	if s.http != nil {
		s.logger.Info().Msg("Shutting down HTTP server...")
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server shutdown error")
			errs = errors.Join(errs, err)
		}
	}

	// Stops the hub and the Redis forwarder.
	s.cancel()

	if err := s.deps.Bus.Close(); err != nil {
		s.logger.Error().Err(err).Msg("Realtime bus close error")
		errs = errors.Join(errs, err)
	}

	s.logger.Info().Msg("Closing storage...")
	s.deps.Storage.Close()

	s.logger.Info().Msg("Server shutdown process complete.")
	return errs
}
