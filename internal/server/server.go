// Package server is the composition root: it wires config, database,
// services and handlers into a chi router and runs the HTTP server with
// graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/arenax/arenax-api/internal/auth"
	"github.com/arenax/arenax-api/internal/config"
	"github.com/arenax/arenax-api/internal/handler"
	"github.com/arenax/arenax-api/internal/middleware"
	sqliteRepo "github.com/arenax/arenax-api/internal/repository/sqlite"
	"github.com/arenax/arenax-api/internal/service"
	"github.com/arenax/arenax-api/internal/sports"
)

// Server owns the router and the database connection; the connection is
// closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	cfg    *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency graph.
//
// Wiring order: database → repositories → token/password services →
// auth/sports services → handlers → routes. Each layer receives interfaces
// or concrete services, never the layers above it.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}
	return s, nil
}

func (s *Server) setupRoutes() error {
	cfg := s.cfg

	tokens, err := auth.NewTokenService(
		cfg.JWTSecret, cfg.JWTRefreshSecret,
		cfg.JWTAccessTTL, cfg.JWTRefreshTTL, cfg.JWTResetTTL,
	)
	if err != nil {
		return err
	}
	passwords := auth.NewPasswordService()

	// OAuth providers are optional: a nil map entry makes the handler
	// answer 500 "not configured" instead of redirecting nowhere.
	providers := map[string]auth.Provider{}
	if cfg.GitHubClientID != "" && cfg.GitHubClientSecret != "" {
		providers["github"] = auth.NewGitHubProvider(cfg.GitHubClientID, cfg.GitHubClientSecret, cfg.GitHubCallbackURL)
	} else {
		s.logger.Warn("GitHub OAuth credentials not set — GitHub sign-in disabled")
	}
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		providers["google"] = auth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleCallbackURL)
	} else {
		s.logger.Warn("Google OAuth credentials not set — Google sign-in disabled")
	}

	authSvc := service.NewAuthService(s.db.Users(), tokens, passwords, s.logger)
	sportsSvc := service.NewSportsService(
		sports.NewClient(cfg.SportsAPIURL, cfg.SportsAPIKey),
		service.SportsTTLs{Listing: cfg.ListingTTL, Schedule: cfg.ScheduleTTL, News: cfg.NewsTTL},
		s.logger,
	)

	dev := cfg.IsDevelopment()
	authHandler := handler.NewAuthHandler(authSvc, providers, cfg.FrontendURL, s.logger, dev)
	sportsHandler := handler.NewSportsHandler(sportsSvc)
	siteHandler := handler.NewSiteHandler(s.db, s.db.Contacts(), authSvc, s.logger, dev)

	r := s.router
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Logger(s.logger))
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.Get("/", siteHandler.HandleRoot)
	r.Get("/health", siteHandler.HandleHealth)
	r.Get("/stats/users-count", siteHandler.HandleUsersCount)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.HandleSignup)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/refresh", authHandler.HandleRefresh)
		r.Post("/logout", authHandler.HandleLogout)
		r.Post("/forgot-password", authHandler.HandleForgotPassword)
		r.Post("/reset-password", authHandler.HandleResetPassword)

		r.Get("/github", authHandler.HandleOAuthURL("github"))
		r.Post("/github/callback", authHandler.HandleOAuthCallback("github"))
		r.Get("/google", authHandler.HandleOAuthURL("google"))
		r.Post("/google/callback", authHandler.HandleOAuthCallback("google"))

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Get("/me", authHandler.HandleMe)
			r.Put("/profile", authHandler.HandleUpdateProfile)
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/football/teams", sportsHandler.HandleTeams)
		r.Get("/football/players", sportsHandler.HandlePlayers)
		r.Get("/football/matches", sportsHandler.HandleMatches)
		r.Get("/football/news", sportsHandler.HandleNews)
		r.Get("/f1/drivers", sportsHandler.HandleDrivers)
		r.Get("/f1/races", sportsHandler.HandleRaces)
		r.Get("/f1/news", sportsHandler.HandleF1News)
		r.Post("/contact", siteHandler.HandleContact)
	})

	return nil
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully:
// stop accepting connections, drain in-flight requests (30s budget), close
// the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ServerReadTimeout,
		WriteTimeout: s.cfg.ServerWriteTimeout,
		IdleTimeout:  s.cfg.ServerIdleTimeout,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.String("addr", srv.Addr),
			slog.String("env", s.cfg.Env),
			slog.String("database", s.cfg.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

// Router exposes the configured router for tests.
func (s *Server) Router() http.Handler {
	return s.router
}
