package api

import (
	"context"
	"dashboard/src/api/auth"
	"dashboard/src/api/controllers"
	"dashboard/src/api/handlers"
	apimiddleware "dashboard/src/api/middleware"
	"dashboard/src/config"
	"dashboard/src/database"
	"dashboard/src/timezones"
	"dashboard/src/utils"
	aws_handler "dashboard/src/utils/aws"
	redis_utils "dashboard/src/utils/redis"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

type Server struct {
	Router      *chi.Mux
	Handler     *handlers.Handler
	Controller  *controllers.Controller
	Tokens      *auth.TokenIssuer
	DefaultZone *time.Location
	cfg         *config.Config
	logger      *logrus.Logger
	closers     []func() error
}

// NewServer connects to the database, the optional Redis cache and, when the
// JWT secret lives in AWS, Secrets Manager, then builds the router.
func NewServer(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Server, error) {
	db, err := database.SetupDB(cfg, logger)
	if err != nil {
		return nil, err
	}

	resolver, err := timezones.NewResolver(cfg.Timezones.DefaultDisplayZone, cfg.Timezones.Locations)
	if err != nil {
		return nil, err
	}

	var closers []func() error
	if sqlDB, err := db.DB(); err == nil {
		closers = append(closers, sqlDB.Close)
	}

	var cache utils.Store = utils.NewMemoryStore()
	if cfg.Databases.Redis.Enabled() {
		redisHandler, err := redis_utils.NewRedisHandler(ctx, cfg)
		if err != nil {
			logger.WithError(err).Warn("redis unavailable, caching in process")
		} else {
			cache = redisHandler
			closers = append(closers, redisHandler.Close)
		}
	}

	var secrets auth.SecretSource
	if cfg.Auth.JWTSecret == "" && cfg.Auth.JWTSecretID != "" {
		awsHandler, err := aws_handler.NewAWSHandler(cfg.AWS.Region)
		if err != nil {
			return nil, err
		}
		secrets = awsHandler.SecretManager
	}
	secret, err := auth.ResolveSecret(ctx, cfg.Auth, secrets)
	if err != nil {
		return nil, err
	}
	tokens := auth.NewTokenIssuer(secret, cfg.Auth.TokenTTL)

	controller, err := controllers.NewController(db, cfg, resolver, cache, tokens)
	if err != nil {
		return nil, err
	}

	server, err := NewServerWithController(controller, tokens, cfg, logger)
	if err != nil {
		return nil, err
	}
	server.closers = closers
	return server, nil
}

// NewServerWithController builds the router around an existing controller.
func NewServerWithController(controller *controllers.Controller, tokens *auth.TokenIssuer, cfg *config.Config, logger *logrus.Logger) (*Server, error) {
	defaultZone, err := timezones.LoadZone(cfg.Timezones.DefaultDisplayZone)
	if err != nil {
		return nil, err
	}

	server := &Server{
		Router:      chi.NewRouter(),
		Handler:     handlers.NewHandler(controller, logger, cfg.Service.RequestTimeout, defaultZone),
		Controller:  controller,
		Tokens:      tokens,
		DefaultZone: defaultZone,
		cfg:         cfg,
		logger:      logger,
	}
	server.InitRoutes()
	return server, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) InitRoutes() {
	s.Router.Use(middleware.RequestID)
	s.Router.Use(middleware.RealIP)
	s.Router.Use(utils.RequestLogger(s.logger))
	s.Router.Use(middleware.Recoverer)
	s.Router.Use(cors.New(cors.Options{
		AllowedOrigins:   s.cfg.Cors.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler)

	s.Router.Get("/alive", handlers.Healthcheck)
	s.Router.Get("/_debug_headers", s.Handler.DebugHeaders)
	s.Router.Post("/api/token", s.Handler.PostToken)

	s.Router.Group(func(r chi.Router) {
		r.Use(s.Tokens.Verifier())
		r.Use(auth.Authenticator)
		r.Use(apimiddleware.Timezone(s.Controller, s.DefaultZone))

		r.Route("/api/my", func(r chi.Router) {
			r.Get("/reports", s.Handler.GetMyReports)
			r.Get("/reports/{slug}", s.Handler.GetMyReport)
			r.Get("/settings", s.Handler.GetSettings)
			r.Put("/settings", s.Handler.UpdateSettings)
		})

		r.Route("/api/admin", func(r chi.Router) {
			r.Use(auth.RequireStaff)
			r.Get("/reports", s.Handler.ListReports)
			r.Post("/reports", s.Handler.CreateReport)
			r.Get("/reports/{slug}", s.Handler.GetReport)
			r.Put("/reports/{slug}", s.Handler.UpdateReport)
			r.Put("/reports/{slug}/access/{userID}", s.Handler.GrantAccess)
			r.Delete("/reports/{slug}/access/{userID}", s.Handler.RevokeAccess)
			r.Post("/users", s.Handler.CreateUser)
		})
	})
}

// Close releases the database and cache connections opened by NewServer.
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
