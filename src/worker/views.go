package worker

import (
	"dashboard/src/config"
	"dashboard/src/database"
	"dashboard/src/utils"
	"dashboard/src/worker/controllers"
	"dashboard/src/worker/handlers"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

type Server struct {
	Router     *chi.Mux
	Handler    *handlers.Handler
	Controller *controllers.Controller
	logger     *logrus.Logger
	closers    []func() error
}

// NewServer connects to the database and starts the scheduled prune of
// expired access grants.
func NewServer(cfg *config.Config, logger *logrus.Logger) (*Server, error) {
	db, err := database.SetupDB(cfg, logger)
	if err != nil {
		return nil, err
	}

	controller := controllers.NewController(db, logger)
	if err := controller.SchedulePruning(cfg.Worker.PruneCron, cfg.Service.RequestTimeout); err != nil {
		return nil, err
	}

	server := NewServerWithController(controller, cfg, logger)
	server.closers = append(server.closers, func() error {
		controller.StopPruning()
		return nil
	})
	if sqlDB, err := db.DB(); err == nil {
		server.closers = append(server.closers, sqlDB.Close)
	}
	return server, nil
}

func NewServerWithController(controller *controllers.Controller, cfg *config.Config, logger *logrus.Logger) *Server {
	server := &Server{
		Router:     chi.NewRouter(),
		Handler:    handlers.NewHandler(controller, logger, cfg.Service.RequestTimeout, cfg.Worker.PruneCron),
		Controller: controller,
		logger:     logger,
	}
	server.InitRoutes()
	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) InitRoutes() {
	s.Router.Use(middleware.RequestID)
	s.Router.Use(utils.RequestLogger(s.logger))
	s.Router.Use(middleware.Recoverer)

	s.Router.Get("/alive", handlers.Healthcheck)
	s.Router.Route("/api/grants", func(r chi.Router) {
		r.Get("/prune", s.Handler.GetPruneStatus)
		r.Post("/prune", s.Handler.PruneGrants)
	})
}

// Close stops the scheduler and releases the database connection.
func (s *Server) Close() error {
	var firstErr error
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func NewHTTPServer(server *Server, cfg *config.Config) *http.Server {
	httpServer := &http.Server{
		Addr:         ":" + cfg.Service.Port,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Handler:      server,
	}
	return httpServer
}
