package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	"github.com/golang-cz/devslog"
	_ "github.com/lib/pq"

	"socialnet/internal/auth"
	"socialnet/internal/config"
	"socialnet/internal/core"
	"socialnet/internal/database"
	"socialnet/internal/utils/databaseutils"
)

type application struct {
	config  config.Config
	logger  *slog.Logger
	core    *core.Core
	auth    *auth.Auth
	session databaseutils.Session
}

func main() {
	cfg := config.Load()
	logger := configLogger()
	logger.Info("Starting application...")

	db, err := openDBConnection(cfg.DSN)
	if err != nil {
		logger.Error("Error opening database connection", "error", err)
		os.Exit(1)
	}

	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Error closing database connection", "error", err)
			os.Exit(1)
		}
	}()

	logger.Info("Database connection established successfully")

	if err := database.Migrate(db); err != nil {
		logger.Error("Error migrating database schema", "error", err)
		os.Exit(1)
	}

	app := application{
		config:  cfg,
		logger:  logger,
		core:    core.New(db, logger),
		auth:    auth.New(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		session: databaseutils.NewSession(db),
	}

	if err := app.serve(); err != nil {
		logger.Error("Error starting server", "error", err)
		os.Exit(1)
	}
}

func configLogger() *slog.Logger {
	handler := devslog.NewHandler(
		os.Stdout, &devslog.Options{
			HandlerOptions: &slog.HandlerOptions{
				AddSource: true,
				Level:     slog.LevelDebug,
			},
			NewLineAfterLog: false,
		})

	logger := slog.New(handler)
	return logger
}

func openDBConnection(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(10)
	db.SetConnMaxIdleTime(10 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	return db, nil
}
