package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jiyaaat/Doctor-listings/config"
	"github.com/jiyaaat/Doctor-listings/db/kvdb"
	"github.com/jiyaaat/Doctor-listings/db/searchdb"
	"github.com/jiyaaat/Doctor-listings/logger"
	"github.com/jiyaaat/Doctor-listings/services/directory"
	"github.com/jiyaaat/Doctor-listings/services/feed"
	"github.com/jiyaaat/Doctor-listings/validation"
)

const shutdownTimeout = 10 * time.Second

type server struct {
	cfg        *config.Config
	router     *gin.Engine
	httpServer *http.Server
	kvdb       kvdb.DB
	searchdb   searchdb.DB
	directory  *directory.Service
	validator  *validation.Validator
	logger     logger.Logger
}

// Run serves the doctor directory until ctx is cancelled or the process is interrupted.
func Run(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)

	defer cancel()

	s := &server{
		cfg:    cfg,
		logger: logger.New(cfg.GetLogLevel()),
	}
	if err := s.setupDependencies(ctx); err != nil {
		return err
	}
	s.setupRouter()

	errC := make(chan error, 1)
	s.setupHTTPServer(errC)

	return s.waitForShutdown(ctx, errC)
}

func (s *server) setupDependencies(ctx context.Context) error {
	var err error
	s.kvdb, err = kvdb.New(s.logger, s.cfg)
	if err != nil {
		s.logger.Error("error creating kvDB", "err", err.Error())
		return err
	}
	s.searchdb, err = searchdb.New(s.logger, s.cfg)
	if err != nil {
		s.logger.Error("error creating searchDB", "err", err.Error())
		return err
	}
	s.validator, err = validation.New(s.logger)
	if err != nil {
		s.logger.Error("error creating validator", "err", err.Error())
		return err
	}

	source, err := feed.NewSource(s.logger, s.cfg)
	if err != nil {
		s.logger.Error("error creating doctor feed source", "err", err.Error())
		return err
	}

	s.directory = directory.New(ctx, s.logger, source, s.kvdb, s.searchdb, s.cfg.GetRefreshInterval())

	loadCtx, cancel := context.WithTimeout(ctx, s.cfg.GetFeedTimeout()+time.Minute)
	defer cancel()
	if err := s.directory.Load(loadCtx); err != nil {
		// The service answers 503 until a refresh succeeds.
		s.logger.Warn("starting without doctors", "err", err.Error())
	}

	return nil

}

func (s *server) setupRouter() {
	router := newRouter()

	router.Use(loggingMiddleware(s.logger))

	setupRoutes(router, s.logger, s.directory, s.validator)

	s.router = router
}

func (s *server) setupHTTPServer(errC chan<- error) {

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", s.cfg.GetPort()),
		Handler:           s.router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpServer
	go func() {
		s.logger.Info("starting http server", "addr", httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- fmt.Errorf("listen: %w", err)
		}
	}()
}

func (s *server) waitForShutdown(ctx context.Context, errC <-chan error) error {
	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errC:
		s.logger.Error("http server stopped", "err", serveErr.Error())
	}

	s.logger.Info("starting to shut down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("error shutting down http server", "err", err.Error())
	}
	if err := s.directory.Close(); err != nil {
		s.logger.Warn("error closing doctor feed source", "err", err.Error())
	}
	if err := s.kvdb.Close(); err != nil {
		s.logger.Warn("error closing kvDB", "err", err.Error())
	}
	if err := s.searchdb.Close(); err != nil {
		s.logger.Warn("error closing searchDB", "err", err.Error())
	}

	s.logger.Info("shut down http server successfully")
	return serveErr
}
