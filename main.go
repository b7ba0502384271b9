package main

import (
	"context"
	"dashboard/src/api"
	"dashboard/src/config"
	"dashboard/src/utils"
	"dashboard/src/worker"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.WithError(err).Warn("could not read .env file")
	}

	cfg, err := config.LoadConfig("./settings", os.Getenv("ENV"))
	if err != nil {
		logrus.WithError(err).Fatal("Error while loading config")
	}
	logger := utils.NewLoggerFromLevel(cfg.Logging.Level, cfg.Logging.File)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.WithError(err).Fatal("Error while running")
	}
}

type service interface {
	http.Handler
	Close() error
}

func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	var (
		server     service
		httpServer *http.Server
	)
	switch cfg.Service.Type {
	case config.WORKER:
		workerServer, err := worker.NewServer(cfg, logger)
		if err != nil {
			return err
		}
		server, httpServer = workerServer, worker.NewHTTPServer(workerServer, cfg)
	default:
		apiServer, err := api.NewServer(ctx, cfg, logger)
		if err != nil {
			return err
		}
		server, httpServer = apiServer, api.NewHTTPServer(apiServer, cfg)
	}
	defer func() {
		if err := server.Close(); err != nil {
			logger.WithError(err).Warn("error while closing connections")
		}
	}()

	errC := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{"port": cfg.Service.Port, "service": cfg.Service.Type}).Info("Starting server")

		// "ListenAndServe always returns a non-nil error. After Shutdown or Close, the returned error is
		// ErrServerClosed."
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
		close(errC)
	}()

	select {
	case err := <-errC:
		return err
	case <-ctx.Done():
		logger.Info("Shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
