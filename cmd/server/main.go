package main

import (
	"context"
	"time"

	authhandler "slotbook/internal/auth/handler"
	authrepository "slotbook/internal/auth/repository"
	authservice "slotbook/internal/auth/service"
	availabilityhandler "slotbook/internal/availability/handler"
	availabilityrepository "slotbook/internal/availability/repository"
	availabilityservice "slotbook/internal/availability/service"
	availabilityvalidator "slotbook/internal/availability/validator"
	bookingshandler "slotbook/internal/bookings/handler"
	bookingsrepository "slotbook/internal/bookings/repository"
	bookingsservice "slotbook/internal/bookings/service"
	bookingsvalidator "slotbook/internal/bookings/validator"
	"slotbook/internal/notifications"
	otphandler "slotbook/internal/otp/handler"
	otprepository "slotbook/internal/otp/repository"
	otpservice "slotbook/internal/otp/service"
	"slotbook/pkg/app"
	"slotbook/pkg/config"
	"slotbook/pkg/contracts"
	"slotbook/pkg/kafka"
	kafka_config "slotbook/pkg/kafka/config"
	"slotbook/pkg/middleware"
)

const ServiceName = "server"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Slotbook API server")

	publisher := initPublisher(cfg)
	defer func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close notification publisher", "error", err)
		}
	}()

	handlers := initHandlers(cfg, publisher)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handlers...)
	serverApp.Run()
}

func initPublisher(cfg *config.Config) notifications.Publisher {
	if !cfg.NotificationsEnabled {
		cfg.Log.Info("Notifications disabled, events will be logged only")
		return notifications.NewLogPublisher(cfg.Log)
	}

	kafkaCfg := kafka_config.Load()
	producer, err := kafka.NewProducer(kafkaCfg, cfg.NotificationsTopic, cfg.NotificationsDLQ)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	cfg.Log.Info("Notification events will be published to Kafka", "topic", cfg.NotificationsTopic)
	return notifications.NewKafkaPublisher(producer, ServiceName)
}

func initHandlers(cfg *config.Config, publisher notifications.Publisher) []contracts.Handler {
	authRepo := authrepository.NewMongoUserRepository(cfg)
	authService := authservice.NewAuthService(authRepo, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := authService.EnsureAdmin(ctx); err != nil {
		cfg.Log.Fatal("Failed to seed admin account", "error", err)
	}

	admin := middleware.AdminHandle(authService, cfg.Log)

	availabilityRepo := availabilityrepository.NewMongoAvailabilityRepository(cfg)
	availabilityService := availabilityservice.NewAvailabilityService(
		availabilityRepo,
		availabilityvalidator.NewAvailabilityValidator(cfg.Log),
		cfg,
	)

	bookingRepo := bookingsrepository.NewMongoBookingRepository(cfg)
	bookingService := bookingsservice.NewBookingService(
		bookingRepo,
		availabilityService,
		bookingsvalidator.NewBookingValidator(cfg.Log),
		publisher,
		cfg,
	)

	otpRepo := otprepository.NewMongoOtpRepository(cfg)
	otpService := otpservice.NewOtpService(otpRepo, publisher, cfg)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)

	return []contracts.Handler{
		authhandler.NewAuthHandler(authService, cfg.Log, admin),
		availabilityhandler.NewAvailabilityHandler(availabilityService, cfg.Log, admin),
		bookingshandler.NewBookingHandler(bookingService, cfg.Log, admin),
		otphandler.NewOtpHandler(otpService, cfg.Log),
	}
}
