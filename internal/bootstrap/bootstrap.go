package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/campushub/backend/internal/app/controllers"
	appMigrations "github.com/campushub/backend/internal/app/migrations"
	"github.com/campushub/backend/internal/app/models"
	appRepos "github.com/campushub/backend/internal/app/repositories"
	appRoutes "github.com/campushub/backend/internal/app/routes"
	appServices "github.com/campushub/backend/internal/app/services"
	"github.com/campushub/backend/internal/config"
	"github.com/campushub/backend/internal/db"
	appMiddleware "github.com/campushub/backend/internal/middleware"
	pkgAuth "github.com/campushub/backend/internal/pkg/auth"
	"github.com/campushub/backend/internal/pkg/filestorage"
	"github.com/campushub/backend/internal/pkg/logger"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	UserService         appServices.UserService
	NoticeService       appServices.NoticeService
	IssueService        appServices.IssueService
	LostFoundService    appServices.LostFoundService
	UserController      *appControllers.UserController
	NoticeController    *appControllers.NoticeController
	IssueController     *appControllers.IssueController
	LostFoundController *appControllers.LostFoundController
	AuthMiddleware      *appMiddleware.AuthMiddleware
	Repos               *appRepos.Repositories
	JWTService          *pkgAuth.JWTService
	Logger              zerolog.Logger
	FileStorage         filestorage.FileStorage
}

// statsCounters bridges the repositories that hold dashboard counters.
type statsCounters struct {
	issues  *appRepos.IssueRepository
	notices *appRepos.NoticeRepository
}

func (s *statsCounters) CountIssuesByStatus(ctx context.Context, status models.IssueStatus) (int64, error) {
	return s.issues.CountByStatus(ctx, status)
}

func (s *statsCounters) CountPinnedNotices(ctx context.Context) (int64, error) {
	return s.notices.CountPinned(ctx)
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
	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	var err error
	if cfg.Storage.Bucket != "" {
		deps.FileStorage, err = filestorage.NewS3Storage(context.Background(), filestorage.S3Config{
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			BaseURL:   cfg.Storage.BaseURL,
		})
	} else {
		baseURL := "http://localhost:" + cfg.Server.Port + "/uploads"
		deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Storage.Path, baseURL)
	}
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	accessTokenExp, err := time.ParseDuration(cfg.JWT.AccessTokenExpiration)
	if err != nil {
		return nil, fmt.Errorf("invalid access token expiration: %w", err)
	}
	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: accessTokenExp,
		TokenIssuer:    cfg.JWT.Issuer,
	})

	counters := &statsCounters{
		issues:  deps.Repos.IssueRepository,
		notices: deps.Repos.NoticeRepository,
	}

	deps.UserService = appServices.NewUserService(deps.Repos.UserRepository, counters, deps.JWTService, deps.FileStorage)
	deps.NoticeService = appServices.NewNoticeService(deps.Repos.NoticeRepository, deps.FileStorage)
	deps.IssueService = appServices.NewIssueService(deps.Repos.IssueRepository, deps.Repos.UserRepository, deps.FileStorage)
	deps.LostFoundService = appServices.NewLostFoundService(deps.Repos.LostFoundRepository, deps.FileStorage)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.UserService)

	deps.UserController = appControllers.NewUserController(deps.UserService, deps.JWTService, cfg.Server.SecureCookie)
	deps.NoticeController = appControllers.NewNoticeController(deps.NoticeService)
	deps.IssueController = appControllers.NewIssueController(deps.IssueService)
	deps.LostFoundController = appControllers.NewLostFoundController(deps.LostFoundService)

	return deps, nil
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
	router.Use(appMiddleware.RequestLogger())
	router.Use(appMiddleware.Metrics())
	router.Use(appMiddleware.CORS(cfg.Server.CORSOrigin))

	appRoutes.SetupRouter(router,
		deps.UserController,
		deps.NoticeController,
		deps.IssueController,
		deps.LostFoundController,
		deps.AuthMiddleware,
	)

	// Locally stored uploads are served directly; S3 URLs point elsewhere.
	if cfg.Storage.Bucket == "" {
		router.Static("/uploads", cfg.Storage.Path)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
