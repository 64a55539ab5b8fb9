// Package main is the entry point for the meetpoint API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/pkordes/meetpoint/internal/config"
	"github.com/pkordes/meetpoint/internal/handler"
	"github.com/pkordes/meetpoint/internal/middleware"
	"github.com/pkordes/meetpoint/internal/repo"
	"github.com/pkordes/meetpoint/internal/service"
	"github.com/pkordes/meetpoint/migrations"
	"github.com/pkordes/meetpoint/spec"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// JSON handler writes machine-readable output suitable for log aggregators.
	// Load has already rejected unknown levels.
	logLevel, _ := config.ParseLogLevel(cfg.LogLevel)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	// pgxpool manages a pool of Postgres connections.
	// New() does not open connections immediately; the first query does.
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	if cfg.MigrateOnStart {
		// goose drives database/sql; borrow a connection from the pool for it.
		sqlDB := stdlib.OpenDBFromPool(pool)
		applied, err := migrations.Up(context.Background(), sqlDB)
		sqlDB.Close()
		if err != nil {
			slog.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("migrations applied", "count", applied)
	}

	// --- Services ---------------------------------------------------------
	meetingRepo := repo.NewMeetingRepo(pool)
	memberRepo := repo.NewMemberRepo(pool)
	placeRepo := repo.NewPlaceRepo(pool)
	stationRepo := repo.NewStationRepo(pool)

	meetings := service.NewMeetingService(meetingRepo, logger, service.MeetingOptions{
		MaxParamAttempts:     cfg.ParamMaxAttempts,
		CheckCreatorNickname: cfg.CheckCreatorNickname,
	})
	members := service.NewMemberService(meetingRepo, memberRepo, logger)
	places := service.NewPlaceService(memberRepo, placeRepo, stationRepo, cfg.SuggestionLimit, logger)

	server := handler.NewServer(meetings, members, places,
		handler.WithPinger(pool),
		handler.WithOpenAPI(spec.OpenAPI),
	)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order:
	// RequestID → RealIP → Logger → Recoverer → CORS → MaxBody → Timeout → Authenticator.
	// RequestID generates a unique trace ID per request.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind a proxy).
	// SlogLogger writes one structured JSON log line per request.
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	// Authenticator resolves an optional bearer token into the caller's user id.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.NewAuthenticator(cfg.JWTSecret))
	r.Mount("/", server.Routes())

	if cfg.JWTSecret == "" {
		slog.Warn("JWT_SECRET not set; bearer tokens are ignored and account routes answer 401")
	}

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
