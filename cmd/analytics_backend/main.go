package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/JawdatSaleh/ContractorPro-sub000/internal/core/domain"
	"github.com/JawdatSaleh/ContractorPro-sub000/internal/core/services"
	"github.com/JawdatSaleh/ContractorPro-sub000/internal/handlers"
	"github.com/JawdatSaleh/ContractorPro-sub000/internal/middleware"
	"github.com/JawdatSaleh/ContractorPro-sub000/internal/platform/config"
	"github.com/JawdatSaleh/ContractorPro-sub000/internal/repositories/database/pgsql"
	"github.com/JawdatSaleh/ContractorPro-sub000/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	portssvc "github.com/JawdatSaleh/ContractorPro-sub000/internal/core/ports/services"
	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title ContractorPro Analytics API
// @version 1.0
// @description Read-only earned-value and cash-flow analytics for construction projects.

// @host localhost:8080
// @BasePath /api/v1
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)

	if err := runMigrations(logger, cfg.DatabaseURL); err != nil {
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.StructuredLoggingMiddleware(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
	}))

	rateLimiter := limiter.New(memory.NewStore(), limiter.Rate{
		Period: cfg.RateLimitPeriod,
		Limit:  cfg.RateLimitRequests,
	})
	router.Use(middleware.RateLimit(rateLimiter))

	provider := pgsql.NewPgxProjectDataProvider(dbPool)
	session := services.NewAnalysisSession(cfg.DefaultLanguage)
	session.Subscribe(func(snapshot domain.SessionSnapshot) {
		logger.Debug("Session state changed",
			slog.String("project_id", snapshot.ProjectID),
			slog.Int("selected_phases", len(snapshot.SelectedPhaseIDs)),
			slog.Uint64("generation", snapshot.Generation))
	})
	container := &portssvc.ServiceContainer{
		Analytics: services.NewAnalyticsService(provider, session,
			services.WithDefaultDisplayCurrency(cfg.DefaultDisplayCurrency)),
	}

	handlers.RegisterRoutes(router, cfg, container)

	logger.Info("Starting analytics backend", slog.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Error("Server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations from the migrations
// directory using a temporary database/sql connection compatible with the
// main pgx pool.
func runMigrations(logger *slog.Logger, databaseURL string) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		logger.Error("Failed to open database connection for migrations", slog.String("error", err.Error()))
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		logger.Error("Could not create postgres driver instance for migrations", slog.String("error", err.Error()))
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		logger.Error("Could not create migrate instance", slog.String("error", err.Error()))
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		return err
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
