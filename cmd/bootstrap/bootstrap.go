package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dentalcare-scheduling/config"
	deliveryHttp "dentalcare-scheduling/internal/delivery/http"
	"dentalcare-scheduling/internal/delivery/http/handler"
	"dentalcare-scheduling/internal/delivery/http/middleware"
	"dentalcare-scheduling/internal/infrastructure/cache"
	"dentalcare-scheduling/internal/infrastructure/database"
	"dentalcare-scheduling/internal/infrastructure/directory"
	"dentalcare-scheduling/internal/repository"
	"dentalcare-scheduling/internal/service"
	"dentalcare-scheduling/internal/usecase"
	"dentalcare-scheduling/pkg/jwt"
	"dentalcare-scheduling/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server

	// Background workers stopped during shutdown
	locks       *service.DentistLocks
	notifier    *service.RedisNotifier
	rateLimiter *middleware.RateLimiter
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	log := setupLogger(cfg.App.LogLevel)
	app.Log = log
	log.Info("Configuration loaded successfully")

	// Apply schema migrations before the pool opens
	if cfg.DB.AutoMigrate {
		if err := database.RunMigrations(cfg.DB, log); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	log.Info("Database connected successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	log.Info("Redis connected successfully")

	// Initialize all layers
	app.initializeServer()

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(level logrus.Level) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(level)
	return log
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer() {
	cfg, log, db := app.Config, app.Log, app.DB

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	appointmentRepo := repository.NewAppointmentRepository()
	dentistRepo := repository.NewDentistRepository()
	patientRepo := repository.NewPatientRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	directoryClient := directory.NewClient(cfg.Directory, log)
	cachedDirectory := service.NewCachedDirectory(directoryClient, app.RedisClient, cfg.Directory.CacheTTL, log)
	enricher := service.NewEnricher(db, log, patientRepo, dentistRepo, cachedDirectory, cfg.Directory.Timeout)
	projector := service.NewCalendarProjector(enricher, cfg.Scheduling.Location)
	auditService := service.NewAuditService(log, auditLogRepo, time.Now)
	app.notifier = service.NewRedisNotifier(app.RedisClient, cfg.Notify.Channel, cfg.Notify.Timeout, log)
	app.locks = service.NewDentistLocks(log)

	// Initialize usecases
	appointmentUsecase := usecase.NewAppointmentUsecase(
		db,
		log,
		appointmentRepo,
		dentistRepo,
		patientRepo,
		auditService,
		enricher,
		projector,
		app.notifier,
		app.locks,
		cfg.Scheduling.PastGrace,
		time.Now,
	)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo, appointmentRepo)

	// Initialize handlers
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	var authMiddleware *middleware.AuthMiddleware
	if cfg.JWT.Enabled {
		authMiddleware = middleware.NewAuthMiddleware(jwt.NewJWTService(cfg.JWT), log)
	} else {
		log.Warn("Authentication is disabled; scheduling routes are public")
	}
	if cfg.RateLimit.RPS > 0 {
		app.rateLimiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	// Initialize router
	router := deliveryHttp.NewRouter(
		appointmentHandler,
		auditLogHandler,
		authMiddleware,
		middleware.NewCORSMiddleware(),
		middleware.NewLoggingMiddleware(log),
		app.rateLimiter,
	)

	// Create server
	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close stops background workers, then closes database and Redis connections
func (app *App) Close() {
	if app.rateLimiter != nil {
		app.rateLimiter.Stop()
	}
	if app.locks != nil {
		app.locks.Stop()
	}
	// In-flight event publishes need Redis
	if app.notifier != nil {
		app.notifier.Wait()
	}

	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
