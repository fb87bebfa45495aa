package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/octobees/placepack/api/internal/auth"
	"github.com/octobees/placepack/api/internal/config"
	"github.com/octobees/placepack/api/internal/database"
	"github.com/octobees/placepack/api/internal/handler"
	"github.com/octobees/placepack/api/internal/intent"
	"github.com/octobees/placepack/api/internal/logger"
	middlewarepkg "github.com/octobees/placepack/api/internal/middleware"
	"github.com/octobees/placepack/api/internal/placesapi"
	"github.com/octobees/placepack/api/internal/repository"
	"github.com/octobees/placepack/api/internal/router"
	"github.com/octobees/placepack/api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	places, actions, closeDB, err := openRepositories(ctx, cfg)
	if err != nil {
		log.Fatal("failed to open database", "driver", cfg.DatabaseDriver, "error", err)
	}
	defer closeDB()

	placesClient, err := placesapi.New(ctx, placesapi.Options{
		APIKey:   cfg.PlacesAPIKey,
		Language: cfg.PlacesLanguage,
	})
	if err != nil {
		log.Fatal("failed to create places client", "error", err)
	}

	var extractor service.IntentExtractor = intent.NewRuleExtractor()
	if cfg.GeminiAPIKey != "" {
		gemini, err := intent.NewGeminiExtractor(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatal("failed to create gemini client", "error", err)
		}
		extractor = gemini
	} else {
		log.Warn("GEMINI_API_KEY not set, using rule based intent extraction")
	}

	var images service.ImageResolver
	if cfg.PhotoURLMode == config.PhotoModeDirect {
		images = service.NewDirectImageResolver(placesClient, cfg.PhotoMaxWidth)
	} else {
		images = service.NewProxyImageResolver(cfg.PublicBaseURL, cfg.PhotoMaxWidth)
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	searchService := service.NewSearchService(places, actions, placesClient, extractor, images, log.With("component", "search"), service.SearchOptions{
		PhoneRegion:      cfg.PhoneRegion,
		SkipMalformed:    cfg.MalformedRecordPolicy == config.MalformedSkip,
		ExtractorTimeout: cfg.ExtractorTimeout,
	})
	placeService := service.NewPlaceService(places, cfg.PhoneRegion)
	userActionService := service.NewUserActionService(actions, places, images)

	handlers := router.Handlers{
		Search:      handler.NewSearchHandler(searchService, log),
		Places:      handler.NewPlacesHandler(placeService, images, log),
		UserActions: handler.NewUserActionsHandler(userActionService, log),
	}
	if cfg.PhotoURLMode == config.PhotoModeProxy {
		handlers.Photos = handler.NewPhotoHandler(placesClient, cfg.PhotoMaxWidth, log)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewRequestValidator()

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging(log.With("component", "http")))
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, jwtManager, handlers)

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "port", cfg.Port, "database", cfg.DatabaseDriver, "photo_mode", cfg.PhotoURLMode)
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", "error", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

// openRepositories connects the configured backend, applies migrations and
// returns the matching repositories.
func openRepositories(ctx context.Context, cfg *config.Config) (repository.PlacesRepository, repository.UserActionsRepository, func(), error) {
	switch cfg.DatabaseDriver {
	case config.DriverSQLite:
		db, err := database.OpenSQLite(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.MigrateSQLite(ctx, db); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		return repository.NewSQLPlacesRepository(db), repository.NewSQLUserActionsRepository(db), closeSQL(db), nil
	default:
		pool, err := database.Connect(ctx, cfg.DatabaseURL, database.PoolOptions{MaxConns: cfg.DBMaxConns})
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.MigratePostgres(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		return repository.NewPGXPlacesRepository(pool), repository.NewPGXUserActionsRepository(pool), closePool(pool), nil
	}
}

func closeSQL(db *sql.DB) func() {
	return func() { _ = db.Close() }
}

func closePool(pool *pgxpool.Pool) func() {
	return pool.Close
}
