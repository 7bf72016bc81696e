package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/Kevin-Shelton/inv-timesheet-backend/internal/api/http"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/api/http/handlers"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/audit"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/auth"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/config"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/events"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/observability"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/persistence"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/repository"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/service"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	campaignRepo := repository.NewCampaignRepository(pool)
	scheduleRepo := repository.NewScheduleRepository(pool)
	timesheetRepo := repository.NewTimesheetRepository(pool)
	taskTemplateRepo := repository.NewTaskTemplateRepository(pool)
	taskTimesheetRepo := repository.NewTaskTimesheetRepository(pool)
	systemConfigRepo := repository.NewSystemConfigRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)

	revocationStore := persistence.NewTokenRevocationStore(redis)
	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo: userRepo,
		Revoker:  revocationStore,
	})
	userService := service.NewUserService(userRepo)
	campaignService := service.NewCampaignService(campaignRepo, userRepo)
	scheduleService := service.NewScheduleService(scheduleRepo, campaignRepo)
	timesheetService := service.NewTimesheetService(service.TimesheetDependencies{
		TimesheetRepo: timesheetRepo,
		UserRepo:      userRepo,
		Dispatcher:    dispatcher,
	})
	taskTimesheetService := service.NewTaskTimesheetService(service.TaskTimesheetDependencies{
		TemplateRepo: taskTemplateRepo,
		TaskRepo:     taskTimesheetRepo,
		CampaignRepo: campaignRepo,
		UserRepo:     userRepo,
		ConfigRepo:   systemConfigRepo,
	})
	reportService := service.NewReportService(service.ReportDependencies{
		TimesheetRepo: timesheetRepo,
		UserRepo:      userRepo,
		CampaignRepo:  campaignRepo,
		ScheduleRepo:  scheduleRepo,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	recorder := audit.NewAsyncRecorder(auditRepo, logger, cfg.Audit.QueueSize)
	defer recorder.Close()

	authMiddleware := auth.NewMiddleware(authService.TokenManager(), revocationStore)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService, recorder),
		Users:          handlers.NewUsersHandler(userService, recorder, cfg.Auth.BcryptCost),
		Campaigns:      handlers.NewCampaignsHandler(campaignService, recorder),
		Schedules:      handlers.NewSchedulesHandler(scheduleService, recorder),
		Timesheets:     handlers.NewTimesheetsHandler(timesheetService, recorder),
		TaskTimesheets: handlers.NewTaskTimesheetsHandler(taskTimesheetService, recorder),
		Reports:        handlers.NewReportsHandler(reportService, recorder),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
