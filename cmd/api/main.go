package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Mosco267/exodus-logistics-platform-sub001/internal/api/handlers"
	"github.com/Mosco267/exodus-logistics-platform-sub001/internal/application"
	mongoRepo "github.com/Mosco267/exodus-logistics-platform-sub001/internal/infrastructure/mongodb"
	"github.com/Mosco267/exodus-logistics-platform-sub001/internal/notifier"
	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/logging"
	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/metrics"
	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/middleware"
	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/mongodb"
)

const serviceName = "tracking-service"

type config struct {
	Port        string
	Environment string
	LogLevel    string

	MongoURI      string
	MongoDatabase string

	KafkaBrokers []string
	EmailTopic   string
}

func loadConfig() *config {
	return &config{
		Port:          getEnv("PORT", "8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		MongoURI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGODB_DATABASE", "exodus"),
		KafkaBrokers:  strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		EmailTopic:    getEnv("KAFKA_EMAIL_TOPIC", "notification-emails"),
	}
}

func main() {
	cfg := loadConfig()

	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.LogLevel(cfg.LogLevel)
	logConfig.Environment = cfg.Environment
	logger := logging.New(logConfig)
	logger.SetDefault()

	m := metrics.New(metrics.DefaultConfig(serviceName))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mongoConfig := mongodb.DefaultConfig()
	mongoConfig.URI = cfg.MongoURI
	mongoConfig.Database = cfg.MongoDatabase

	mongoClient, err := mongodb.NewClient(ctx, mongoConfig)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to MongoDB")
		os.Exit(1)
	}

	db := mongoClient.Database()
	shipmentRepo := mongoRepo.NewShipmentRepository(db, logger, m)
	historyRepo := mongoRepo.NewTrackingHistoryRepository(db, logger, m)
	userRepo := mongoRepo.NewUserRepository(db, logger, m)
	notificationRepo := mongoRepo.NewNotificationRepository(db, logger, m)
	blockedRepo := mongoRepo.NewBlockedEmailRepository(db, logger, m)

	publisherConfig := notifier.DefaultConfig()
	publisherConfig.Brokers = cfg.KafkaBrokers
	publisherConfig.Topic = cfg.EmailTopic
	publisher := notifier.NewKafkaPublisher(publisherConfig, logger.Logger, m)

	shipmentService := application.NewShipmentApplicationService(shipmentRepo, historyRepo, logger, m)
	notificationService := application.NewNotificationApplicationService(
		notificationRepo, userRepo, blockedRepo, publisher, logger, m,
	)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	middleware.Setup(router, middleware.DefaultConfig(serviceName, logger.Logger))
	router.Use(middleware.MetricsMiddleware(m))
	router.NoRoute(middleware.NoRoute())
	router.NoMethod(middleware.NoMethod())

	router.GET("/health", middleware.HealthCheck(serviceName))
	router.GET("/ready", middleware.ReadinessCheck(serviceName, func() error {
		checkCtx, checkCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer checkCancel()
		return mongoClient.HealthCheck(checkCtx)
	}))
	router.GET("/metrics", middleware.MetricsEndpoint(m))

	handlers.RegisterRoutes(router,
		handlers.NewShipmentHandler(shipmentService, logger),
		handlers.NewNotificationHandler(notificationService, logger),
		handlers.NewAdminHandler(notificationService, logger),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("HTTP server failed")
			os.Exit(1)
		}
	}()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-signalCh
	logger.Info("Shutting down", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("HTTP server shutdown failed")
	}
	if err := publisher.Close(); err != nil {
		logger.WithError(err).Warn("Kafka publisher close failed")
	}
	if err := mongoClient.Close(shutdownCtx); err != nil {
		logger.WithError(err).Error("MongoDB disconnect failed")
	}

	logger.Info("Shutdown complete")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
