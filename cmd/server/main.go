package main

import (
	"alcyxob/fitcoach/internal/api"
	"alcyxob/fitcoach/internal/config"
	"alcyxob/fitcoach/internal/logger"
	"alcyxob/fitcoach/internal/notify"
	"alcyxob/fitcoach/internal/repository/mongo"
	"alcyxob/fitcoach/internal/scheduler"
	"alcyxob/fitcoach/internal/service"
	"alcyxob/fitcoach/internal/storage"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// @title Fitness Coaching API
// @version 1.0
// @description API for trainers and clients: weekly training plans, workout check-ins and compliance notifications.
// @contact.name API Support
// @contact.email support@example.com
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.New("info").Fatalf("Could not load config: %v", err)
	}
	log := logger.New(cfg.Log.Level)
	log.Info("Starting fitness coaching server...")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Info("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Errorf("Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Info("Database connection established.")

	// The unique indexes enforce plan and log invariants, so build them before serving.
	indexCtx, cancelIndex := context.WithTimeout(context.Background(), time.Minute)
	mongo.EnsureIndexes(indexCtx, appDB, log)
	cancelIndex()

	// --- Redis (real-time fan-out) ---
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warnf("Redis not reachable at %s, notifications are stored but not pushed: %v", cfg.Redis.Addr, err)
		}
		cancelPing()
		defer rdb.Close()
	}

	// --- Object storage for proof images ---
	var signer storage.ProofURLSigner
	if cfg.S3.BucketName != "" {
		signer, err = storage.NewS3Storage(context.Background(), cfg.S3, log)
		if err != nil {
			log.Fatalf("Failed to initialize S3 storage: %v", err)
		}
	} else {
		log.Warn("No S3 bucket configured, proof images are returned as stored.")
	}

	// --- Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	planRepo := mongo.NewMongoTrainingPlanRepository(appDB)
	logRepo := mongo.NewMongoTrainingLogRepository(appDB)
	notificationRepo := mongo.NewMongoNotificationRepository(appDB)

	// --- Services ---
	dispatcher := notify.NewDispatcher(notificationRepo, rdb, log)
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	planService := service.NewPlanService(userRepo, planRepo, dispatcher, log)
	logService := service.NewLogService(userRepo, planRepo, logRepo, dispatcher, signer, log)
	scanner := service.NewComplianceScanner(planRepo, logRepo, userRepo, dispatcher, log)
	notificationService := service.NewNotificationService(notificationRepo)

	// Cancelled at shutdown; stops the scheduler and the rate limiter cleanup.
	appCtx, stopApp := context.WithCancel(context.Background())

	// --- Scheduler ---
	sched := scheduler.New(log)
	if cfg.Scheduler.Enabled {
		if err := sched.AddDaily("check-today", cfg.Scheduler.TodayCheckAt, func(ctx context.Context) error {
			res, err := scanner.ScanToday(ctx)
			if err == nil {
				log.Infof("today summary sent: %d notifications, %d failures", res.NotificationsCreated, res.DispatchFailures)
			}
			return err
		}); err != nil {
			log.Fatalf("Invalid scheduler.today_check_at: %v", err)
		}
		if err := sched.AddDaily("check-missed", cfg.Scheduler.MissedCheckAt, func(ctx context.Context) error {
			res, err := scanner.ScanMissedYesterday(ctx)
			if err == nil {
				log.Infof("missed workout alerts sent: %d notifications, %d failures", res.NotificationsCreated, res.DispatchFailures)
			}
			return err
		}); err != nil {
			log.Fatalf("Invalid scheduler.missed_check_at: %v", err)
		}
		sched.Start(appCtx)
	}

	// --- Gin Engine ---
	router := gin.New()
	router.Use(
		gin.Recovery(),
		api.RequestIDMiddleware(),
		api.RequestLoggingMiddleware(log),
		api.MetricsMiddleware(),
		api.RateLimitMiddleware(appCtx, cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst),
	)

	api.SetupRoutes(router, cfg.JWT.Secret, api.Services{
		Auth:          authService,
		Plans:         planService,
		Logs:          logService,
		Scanner:       scanner,
		Notifications: notificationService,
	})

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Infof("Server starting on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	stopApp()
	sched.Wait()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exiting.")
}
