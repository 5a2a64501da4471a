package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"alcyxob/workout-tracker/internal/api"
	"alcyxob/workout-tracker/internal/config"
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/logging"
	"alcyxob/workout-tracker/internal/metrics"
	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/repository/memory"
	"alcyxob/workout-tracker/internal/repository/mongo"
	"alcyxob/workout-tracker/internal/service"
	"alcyxob/workout-tracker/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// @title Workout Tracker API
// @version 1.0
// @description Workout sessions, set logging and training plan progression for trainers and trainees.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	if err := run(); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

// repositories is the storage backend chosen by database.driver.
type repositories struct {
	stores    service.Stores
	exercises repository.ExerciseRepository
	close     func() error
}

func openRepositories(ctx context.Context, cfg config.DatabaseConfig) (*repositories, error) {
	if cfg.Driver == config.DriverMemory {
		log.Warn("using the in-memory store; data is lost on shutdown")
		store := memory.NewStore()
		return &repositories{
			stores: service.Stores{
				Tx:           store,
				Users:        store.Users(),
				Workouts:     store.Workouts(),
				Plans:        store.TrainingPlans(),
				Sessions:     store.Sessions(),
				ExerciseLogs: store.ExerciseLogs(),
				SetLogs:      store.SetLogs(),
				Progress:     store.PlanProgress(),
			},
			exercises: store.Exercises(),
			close:     func() error { return nil },
		}, nil
	}

	client, err := mongo.ConnectDB(cfg.URI)
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	db := client.Database(cfg.Name)
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		return nil, multierr.Append(err, mongo.DisconnectDB(client))
	}
	log.WithField("database", cfg.Name).Info("database connection established")

	return &repositories{
		stores: service.Stores{
			Tx:           mongo.NewTransactor(client, cfg.TxTimeout),
			Users:        mongo.NewMongoUserRepository(db),
			Workouts:     mongo.NewMongoWorkoutRepository(db),
			Plans:        mongo.NewMongoTrainingPlanRepository(db),
			Sessions:     mongo.NewMongoSessionRepository(db),
			ExerciseLogs: mongo.NewMongoExerciseLogRepository(db),
			SetLogs:      mongo.NewMongoSetLogRepository(db),
			Progress:     mongo.NewMongoPlanProgressRepository(db),
		},
		exercises: mongo.NewMongoExerciseRepository(db),
		close:     func() error { return mongo.DisconnectDB(client) },
	}, nil
}

func run() (err error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.Log.File,
		LogToStdout:   cfg.Log.Stdout,
		LogLevel:      cfg.Log.Level,
		LogFormatJSON: cfg.Log.JSON,
	})
	log.Info("starting workout tracker server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		log.Info("closing storage")
		err = multierr.Append(err, repos.close())
	}()

	// --- Metrics ---
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewManager(cfg.Metrics.Namespace, cfg.Metrics.Subsystem, registry)
	var metricsEndpoint api.MetricsEndpoint
	if cfg.Metrics.Enabled {
		metricsEndpoint = api.MetricsEndpoint{
			Path:    cfg.Metrics.Path,
			Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		}
	}

	// --- Events and archive ---
	publishers := []service.EventPublisher{service.LogPublisher{}, service.NewMetricsPublisher(m)}
	var archive storage.FileStorage
	if cfg.S3.ArchiveEnabled {
		archive, err = storage.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			return fmt.Errorf("initialize S3 storage: %w", err)
		}
		publishers = append(publishers, service.NewArchivePublisher(archive, repos.stores.Sessions, repos.stores.Tx))
		log.WithField("bucket", cfg.S3.BucketName).Info("session archive enabled")
	}
	publisher := service.NewFanoutPublisher(publishers...)

	// --- Services ---
	clock := domain.SystemClock{}
	stores := repos.stores
	services := api.Services{
		Auth:         service.NewAuthService(stores.Users, clock, cfg.JWT.Secret, cfg.JWT.Expiration),
		Exercises:    service.NewExerciseService(repos.exercises, clock),
		Trainer:      service.NewTrainerService(stores.Users, repos.exercises, stores.Workouts, stores.Plans, clock),
		Sessions:     service.NewSessionService(stores, publisher, m, clock, archive, cfg.S3.URLExpiry),
		ExerciseLogs: service.NewExerciseLogService(stores, clock),
		Sets:         service.NewSetLogService(stores, m, clock),
		Progress:     service.NewPlanProgressService(stores, publisher, clock),
	}

	// --- HTTP ---
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, services, m, metricsEndpoint)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("address", cfg.Server.Address).Info("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server exited")
	return nil
}
