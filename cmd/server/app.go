package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/flashdeck/flashdeck-api/internal/config"
	"github.com/flashdeck/flashdeck-api/internal/domain/srs"
	"github.com/flashdeck/flashdeck-api/internal/generation"
	"github.com/flashdeck/flashdeck-api/internal/media"
	"github.com/flashdeck/flashdeck-api/internal/platform/gemini"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
	"github.com/flashdeck/flashdeck-api/internal/platform/postgres"
	"github.com/flashdeck/flashdeck-api/internal/platform/unsplash"
	"github.com/flashdeck/flashdeck-api/internal/service/auth"
	"github.com/flashdeck/flashdeck-api/internal/service/deck"
	"github.com/flashdeck/flashdeck-api/internal/service/invite"
	"github.com/flashdeck/flashdeck-api/internal/service/live"
	"github.com/flashdeck/flashdeck-api/internal/service/study"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

// application bundles the configuration, infrastructure and services the
// server needs. It is built once at startup and shared by the router.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore store.UserStore

	jwtService auth.JWTService
	passwords  auth.PasswordService

	deckService   deck.Service
	studyService  study.Service
	inviteService invite.Service
	liveService   live.Service

	generator generation.Generator
	images    media.Finder
}

// newApplication loads configuration, connects to the database, applies
// migrations, and wires up stores and services.
func newApplication(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	db, err := openDatabase(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	userStore := postgres.NewPostgresUserStore(db, appLogger)
	deckStore := postgres.NewPostgresDeckStore(db, appLogger)
	itemStore := postgres.NewPostgresItemStore(db, appLogger)
	accessStore := postgres.NewPostgresAccessStore(db, appLogger)
	invitationStore := postgres.NewPostgresInvitationStore(db, appLogger)
	sessionStore := postgres.NewPostgresSessionStore(db, appLogger)
	resultStore := postgres.NewPostgresResultStore(db, appLogger)
	reviewStore := postgres.NewPostgresReviewStore(db, appLogger)
	studyStore := postgres.NewPostgresStudyStore(db, appLogger)
	statsStore := postgres.NewPostgresStatsStore(db, appLogger)

	app := &application{
		config:     cfg,
		logger:     appLogger,
		db:         db,
		userStore:  userStore,
		jwtService: jwtService,
		passwords:  auth.NewBcryptVerifier(cfg.Auth.BcryptCost),
		deckService: deck.NewService(
			db, deckStore, itemStore, accessStore, userStore, appLogger),
		studyService: study.NewService(
			db, deckStore, itemStore, accessStore, reviewStore, studyStore,
			statsStore, srs.NewService(), appLogger),
		inviteService: invite.NewService(
			db, invitationStore, accessStore, deckStore, userStore, studyStore, appLogger),
		liveService: live.NewService(
			db, sessionStore, resultStore, deckStore, itemStore, userStore, appLogger),
	}

	app.generator = setupGenerator(ctx, cfg, appLogger)
	app.images = setupImageFinder(cfg, appLogger)

	return app, nil
}

// setupGenerator builds the fallback-wrapped draft generator. A missing
// Gemini API key disables the provider; the wrapper then serves placeholder
// drafts.
func setupGenerator(ctx context.Context, cfg *config.Config, log *slog.Logger) generation.Generator {
	if cfg.LLM.GeminiAPIKey == "" {
		log.Info("card generation disabled, serving placeholder drafts")
		return generation.WithFallback(nil, log)
	}

	inner, err := gemini.NewGenerator(ctx, log, cfg.LLM)
	if err != nil {
		log.Warn("failed to create gemini generator, serving placeholder drafts", "error", err)
		return generation.WithFallback(nil, log)
	}

	return generation.WithFallback(inner, log)
}

// setupImageFinder builds the image lookup client. A missing Unsplash key
// disables lookup.
func setupImageFinder(cfg *config.Config, log *slog.Logger) media.Finder {
	if cfg.Media.UnsplashAccessKey == "" {
		log.Info("image lookup disabled")
		return media.NoopFinder{}
	}

	client, err := unsplash.NewClient(log, cfg.Media)
	if err != nil {
		log.Warn("failed to create unsplash client, image lookup disabled", "error", err)
		return media.NoopFinder{}
	}

	return client
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", "error", err)
		}
	}
}
