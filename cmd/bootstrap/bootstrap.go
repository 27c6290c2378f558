package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vitaliscar/Proyecto-PRM/config"
	deliveryHttp "github.com/vitaliscar/Proyecto-PRM/internal/delivery/http"
	"github.com/vitaliscar/Proyecto-PRM/internal/delivery/http/handler"
	"github.com/vitaliscar/Proyecto-PRM/internal/delivery/http/middleware"
	"github.com/vitaliscar/Proyecto-PRM/internal/infrastructure/cache"
	"github.com/vitaliscar/Proyecto-PRM/internal/infrastructure/database"
	"github.com/vitaliscar/Proyecto-PRM/internal/repository"
	"github.com/vitaliscar/Proyecto-PRM/internal/service"
	"github.com/vitaliscar/Proyecto-PRM/internal/usecase"
	"github.com/vitaliscar/Proyecto-PRM/pkg/jwt"
	"github.com/vitaliscar/Proyecto-PRM/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	logrus.Info("Database connected and migrated")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	// Clinic clock: appointments are interpreted in the clinic's timezone.
	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", cfg.App.Timezone, err)
	}

	server := initializeServer(cfg, db, redisClient, loc)
	app.Server = server

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, loc *time.Location) *http.Server {
	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()
	log := logrus.StandardLogger()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	patientRepo := repository.NewPatientRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	historyRepo := repository.NewAppointmentHistoryRepository()
	reminderRepo := repository.NewAppointmentReminderRepository()

	// Initialize services
	historyRecorder := service.NewHistoryRecorder(log, historyRepo)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, jwtService, redisClient)
	patientUsecase := usecase.NewPatientUsecase(db, log, patientRepo, userRepo, appointmentRepo)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, loc, appointmentRepo, patientRepo, userRepo, historyRepo, historyRecorder)
	reminderUsecase := usecase.NewReminderUsecase(db, log, reminderRepo, appointmentRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	patientHandler := handler.NewPatientHandler(patientUsecase, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator)
	reminderHandler := handler.NewReminderHandler(reminderUsecase, customValidator)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize router
	router := deliveryHttp.NewRouter(authHandler, patientHandler, appointmentHandler, reminderHandler, authMiddleware, corsMiddleware)
	httpRouter := router.Setup()

	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
