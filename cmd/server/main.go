// Package main initializes and starts the vault auth server, setting up
// configuration, logging, the database connection, repositories, services,
// and handlers.
package main

import (
	"cmp"
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"github.com/evanli/vaultkeep/internal/config"
	"github.com/evanli/vaultkeep/internal/db"
	"github.com/evanli/vaultkeep/internal/logger"
	"github.com/evanli/vaultkeep/internal/repository"
	"github.com/evanli/vaultkeep/internal/server/handler/http"
	"github.com/evanli/vaultkeep/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Sweep expired sessions in the background.
	db.StartSessionCleaner(context.Background(), postgresDB, time.Hour, zapLogger)

	// Initialize repositories for users and sessions.
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	sessionRepo := repository.NewPostgresSessionRepository(postgresDB)

	// Initialize the business-logic service.
	sessionTTL := time.Duration(options.SessionTTLHours) * time.Hour
	authService := service.NewAuthService(userRepo, sessionRepo, sessionTTL, zapLogger)

	// Create the HTTP handler for the auth endpoints.
	authHandler := &http.AuthHandler{AuthService: authService, Log: zapLogger}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, zapLogger)

	server := &nethttp.Server{
		Addr:    options.Port,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Port))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
