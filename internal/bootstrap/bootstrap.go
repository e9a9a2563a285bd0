package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/vineyard/internal/app/controllers"
	appMigrations "github.com/yigit/vineyard/internal/app/migrations"
	appRepos "github.com/yigit/vineyard/internal/app/repositories"
	appRoutes "github.com/yigit/vineyard/internal/app/routes"
	appServices "github.com/yigit/vineyard/internal/app/services"
	"github.com/yigit/vineyard/internal/config"
	"github.com/yigit/vineyard/internal/db"
	appMiddleware "github.com/yigit/vineyard/internal/middleware"
	pkgAuth "github.com/yigit/vineyard/internal/pkg/auth"
	"github.com/yigit/vineyard/internal/pkg/helpers"
	"github.com/yigit/vineyard/internal/pkg/logger"
	"github.com/yigit/vineyard/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	ReportService    appServices.ReportService
	GradeService     appServices.GradeService
	ReportController *appControllers.ReportController
	GradeController  *appControllers.GradeController
	AuthMiddleware   *appMiddleware.AuthMiddleware
	JWTService       *pkgAuth.JWTService
	Health           appRoutes.Pinger
	Logger           zerolog.Logger
}

// Stores bundles the persistence ports the services need. Both the PostgreSQL
// repositories and the in-memory store can fill it.
type Stores struct {
	Snapshots appServices.SnapshotReader
	Courses   appServices.CourseReader
	Students  appServices.StudentFinder
	Scores    appServices.ScoreStore
	Health    appRoutes.Pinger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.FromSettings(cfg.Logging.Level, cfg.Logging.Format))
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// optionally loads demo data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database.Pool, lgr).MigrateFromDirectory(ctx, migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if cfg.Database.SeedDemo {
		if err := seed.CreateDemoData(ctx, database, lgr); err != nil {
			// Demo data is a convenience; the service runs without it.
			lgr.Error().Err(err).Msg("Failed to create demo data, proceeding anyway...")
		}
	}

	return database, nil
}

// PostgresStores adapts the repositories to the service ports.
func PostgresStores(database *db.PostgresDB) Stores {
	repos := appRepos.NewRepositories(database.Pool)
	return Stores{
		Snapshots: repos.OutcomeGraphRepository,
		Courses:   repos.OutcomeGraphRepository,
		Students:  repos.UserRepository,
		Scores:    repos.ScoreRepository,
		Health:    database.Pool,
	}
}

// BuildDependencies initializes application services, controllers and middleware.
func BuildDependencies(cfg *config.Config, stores Stores, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Logger: lgr, Health: stores.Health}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.ReportService = appServices.NewReportService(
		stores.Snapshots,
		helpers.ParseDuration(cfg.Report.SnapshotTimeout, 30*time.Second),
		lgr.With().Str("component", "reports").Logger(),
	)
	deps.GradeService = appServices.NewGradeService(
		stores.Courses,
		stores.Students,
		stores.Scores,
		lgr.With().Str("component", "grades").Logger(),
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)
	deps.ReportController = appControllers.NewReportController(deps.ReportService)
	deps.GradeController = appControllers.NewGradeController(deps.GradeService)

	return deps
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(lgr))

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.ReportController, deps.GradeController, deps.AuthMiddleware)
	appRoutes.SetupHealth(router, deps.Health)

	return router
}
