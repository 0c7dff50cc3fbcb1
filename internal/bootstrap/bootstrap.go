package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/mberk/coursedex/internal/app/controllers"
	appMigrations "github.com/mberk/coursedex/internal/app/migrations"
	appRepos "github.com/mberk/coursedex/internal/app/repositories"
	appRoutes "github.com/mberk/coursedex/internal/app/routes"
	appServices "github.com/mberk/coursedex/internal/app/services"
	"github.com/mberk/coursedex/internal/bulk"
	"github.com/mberk/coursedex/internal/config"
	"github.com/mberk/coursedex/internal/db"
	appMiddleware "github.com/mberk/coursedex/internal/middleware"
	"github.com/mberk/coursedex/internal/pkg/logger"
	"github.com/mberk/coursedex/internal/runlog"
	"github.com/mberk/coursedex/internal/scraper"
	"github.com/mberk/coursedex/internal/search"
	"github.com/mberk/coursedex/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos             *appRepos.Repositories
	Redis             *redis.Client
	Index             search.Index
	RunLog            runlog.Log
	BulkExporter      *bulk.Exporter
	SearchService     *appServices.SearchService
	CatalogService    *appServices.CatalogService
	IndexService      *appServices.IndexService
	CourseController  *appControllers.CourseController
	SessionController *appControllers.SessionController
	NetworkController *appControllers.NetworkController
	APIKeyMiddleware  *appMiddleware.APIKeyMiddleware
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Seeding is best-effort; an operator can create networks by hand.
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// SetupRedis connects the redis client used for the run log and API keys.
func SetupRedis(cfg *config.Config, lgr zerolog.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
	}
	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connection established")
	return rdb, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, rdb *redis.Client, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, Redis: rdb}

	deps.Repos = appRepos.NewRepositories(dbPool)

	// The in-memory index serves development and tests; a hosted engine
	// plugs in behind the same interface.
	deps.Index = search.NewMemoryIndex()
	if cfg.Search.Backend != "memory" {
		lgr.Warn().Str("backend", cfg.Search.Backend).
			Msg("Unknown search backend, falling back to in-memory index")
	}

	deps.RunLog = runlog.NewRedisLog(rdb)

	exporter, err := bulk.NewExporter(deps.Repos.CourseRepository, cfg.Bulk.Root, cfg.Bulk.Charset, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize bulk exporter: %w", err)
	}
	deps.BulkExporter = exporter

	deps.SearchService = appServices.NewSearchService(deps.Index)
	deps.CatalogService = appServices.NewCatalogService(
		deps.Repos.NetworkRepository,
		deps.Repos.SessionRepository,
		deps.Index,
	)
	deps.IndexService = appServices.NewIndexService(
		deps.Repos.CourseRepository,
		deps.Repos.SessionRepository,
		deps.Index,
	)

	deps.APIKeyMiddleware = appMiddleware.NewAPIKeyMiddleware(rdb)

	deps.CourseController = appControllers.NewCourseController(deps.SearchService)
	deps.SessionController = appControllers.NewSessionController(deps.CatalogService)
	deps.NetworkController = appControllers.NewNetworkController(deps.CatalogService)

	return deps, nil
}

// BuildOrchestrator assembles the scrape pipeline around an already-built
// dependency set. Scraper registration stays with the caller; the binary
// decides which scrapers it ships.
func BuildOrchestrator(deps *Dependencies) (*scraper.Registry, *scraper.Orchestrator) {
	registry := scraper.NewRegistry(deps.Repos.NetworkRepository)
	orch := scraper.NewOrchestrator(
		registry,
		deps.Repos.SessionRepository,
		deps.Repos.CourseRepository,
		deps.IndexService,
		deps.BulkExporter,
		deps.RunLog,
		deps.Logger,
	)
	return registry, orch
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestID())
	router.Use(appMiddleware.RequestLogger())

	appRoutes.SetupRouter(router,
		deps.CourseController,
		deps.SessionController,
		deps.NetworkController,
		deps.APIKeyMiddleware,
		cfg.IsDevelopment(),
	)

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
