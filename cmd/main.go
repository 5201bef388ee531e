package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"valuation-service/internal/cache"
	"valuation-service/internal/config"
	"valuation-service/internal/database/postgres"
	"valuation-service/internal/database/redis"
	"valuation-service/internal/event"
	"valuation-service/internal/handlers"
	"valuation-service/internal/repository"
	"valuation-service/internal/services"

	"github.com/gofiber/fiber/v3"
)

func setupLogging() (*os.File, error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Recovered from panic: %v\n", r)
		}
	}()

	logDir := filepath.Join("/valuation", "log", "valuation_service")
	fmt.Println("Log directory:", logDir)
	err := os.MkdirAll(logDir, 0o755)
	if err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	currentTime := time.Now()
	logFileName := fmt.Sprintf("log_%s.log", currentTime.Format("2006-01-02"))
	logFile := filepath.Join(logDir, logFileName)

	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	log.SetOutput(file)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	slog.SetDefault(slog.New(slog.NewTextHandler(file, nil)))

	return file, nil
}

func main() {
	logFile, err := setupLogging()
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logFile.Close()

	cfg := config.New()

	log.Printf("Connecting to PostgreSQL with: host=%s, port=%s, user=%s, dbname=%s",
		cfg.PostgresCfg.Host, cfg.PostgresCfg.Port, cfg.PostgresCfg.Username, cfg.PostgresCfg.DBname)
	db, err := postgres.ConnectAndCreateDB(cfg.PostgresCfg)
	if err != nil {
		log.Printf("error connect to database: %s", err)
		go postgres.RetryConnectOnFailed(30*time.Second, &db, cfg.PostgresCfg)
	}

	// Redis and RabbitMQ are optional at boot. Without Redis the dashboard
	// skips snapshot caching; without RabbitMQ no status events are emitted.
	var snapshotCache *cache.SnapshotCache
	redisClient, err := redis.NewRedisClient(cfg.RedisCfg)
	if err != nil {
		slog.Warn("redis unavailable, snapshot caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		snapshotCache = cache.NewSnapshotCache(redisClient.GetClient(), cfg.DashboardCfg.SnapshotTTL)
	}

	var publisher *event.StatusEventPublisher
	rabbitConn, err := event.ConnectRabbitMQ(cfg.RabbitMQCfg)
	if err != nil {
		slog.Warn("rabbitmq unavailable, status events disabled", "error", err)
	} else {
		defer rabbitConn.Close()
		publisher = event.NewStatusEventPublisher(rabbitConn)
	}

	shopRepo := repository.NewShopValuationRepository(db)
	flatRepo := repository.NewFlatValuationRepository(db)
	apfRepo := repository.NewAPFValuationRepository(db)

	aggregator := services.NewAggregatorService(shopRepo, flatRepo, apfRepo)
	dashboardService := services.NewDashboardService(aggregator, snapshotCache, cfg.DashboardCfg.PageSize)
	tracker := services.NewDurationTracker(cfg.DashboardCfg.DurationRefresh, dashboardService.AllRecords)

	var valuationService *services.ValuationService
	if publisher != nil {
		valuationService = services.NewValuationService(publisher, shopRepo, flatRepo, apfRepo)
	} else {
		valuationService = services.NewValuationService(nil, shopRepo, flatRepo, apfRepo)
	}
	submissionService := services.NewSubmissionService(shopRepo, flatRepo, apfRepo)

	app := fiber.New()
	app.Get("/checkhealth", func(c fiber.Ctx) error {
		return c.Status(fiber.StatusOK).SendString("Valuation service is healthy")
	})

	handlers.NewDashboardHandler(dashboardService, valuationService, tracker).Register(app)
	handlers.NewValuationHandler(valuationService, submissionService).Register(app)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go tracker.Run(ctx)

	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := app.Listen(fmt.Sprintf("0.0.0.0:%s", cfg.Port)); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Error shutting down server: %v", err)
	}
}
