package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/hirestack/ats/internal/application/dispatcher"
	"github.com/hirestack/ats/internal/application/engine"
	"github.com/hirestack/ats/internal/application/service"
	"github.com/hirestack/ats/internal/config"
	"github.com/hirestack/ats/internal/infrastructure/persistence/repository"
	"github.com/hirestack/ats/internal/infrastructure/persistence/sqlite"
	httpserver "github.com/hirestack/ats/internal/interfaces/http"
	"github.com/hirestack/ats/internal/notification"
	"github.com/hirestack/ats/pkg/database"
	"github.com/hirestack/ats/pkg/utils"
)

func main() {
	// Optional .env for local development
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting ATS pipeline service",
		zap.Int("port", cfg.Server.Port),
		zap.String("database", cfg.Database.Path))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	txManager := sqlite.NewDB(db.DB, logger)

	appRepo := repository.NewApplicationRepository(db.DB, logger)
	interviewRepo := repository.NewInterviewRepository(db.DB, logger)
	taskRepo := repository.NewTaskRepository(db.DB, logger)
	compensationRepo := repository.NewCompensationRepository(db.DB, logger)
	offerRepo := repository.NewOfferRepository(db.DB, logger)
	commentRepo := repository.NewCommentRepository(db.DB, logger)
	pipelineRepo := repository.NewJobPipelineRepository(db.DB, logger)

	kvLogger := utils.NewKVLogger(logger)

	eventDispatcher := dispatcher.New(dispatcher.WithLogger(kvLogger))
	notifier := notification.NewNotifier(notification.NewLogSender(logger), logger)
	notifier.Register(eventDispatcher)

	eng := engine.New(appRepo, commentRepo, pipelineRepo, txManager, eventDispatcher, kvLogger)

	applicationSvc := service.NewApplicationService(appRepo, interviewRepo, commentRepo, pipelineRepo, eng, txManager, eventDispatcher, kvLogger)
	interviewSvc := service.NewInterviewService(appRepo, interviewRepo, eng, txManager, eventDispatcher, kvLogger)
	taskSvc := service.NewTaskService(appRepo, taskRepo, eng, txManager, eventDispatcher, kvLogger)
	compensationSvc := service.NewCompensationService(appRepo, compensationRepo, eng, txManager, eventDispatcher, kvLogger)
	offerSvc := service.NewOfferService(appRepo, offerRepo, eng, txManager, eventDispatcher, kvLogger)

	server := httpserver.NewServer(httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, applicationSvc, interviewSvc, taskSvc, compensationSvc, offerSvc, kvLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Error("HTTP server error", zap.Error(err))
	}

	// Drain in-flight event handlers before exit.
	if err := eventDispatcher.Close(); err != nil {
		logger.Error("Dispatcher close error", zap.Error(err))
	}

	logger.Info("Server exited")
}
