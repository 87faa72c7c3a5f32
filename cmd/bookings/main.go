package main

import (
	"restobook/internal/bookings/events"
	"restobook/internal/bookings/handler"
	"restobook/internal/bookings/repository"
	"restobook/internal/bookings/service"
	"restobook/internal/bookings/validator"
	"restobook/pkg/app"
	"restobook/pkg/config"
	"restobook/pkg/kafka"
	kafka_middleware "restobook/pkg/kafka/middleware"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Bookings service")
	serverApp := app.NewApplication(cfg)

	publisher := initPublisher(cfg, serverApp)
	bookingService := initServices(cfg, publisher)

	serverApp.SetApp(
		handler.NewBookingHandler(bookingService, cfg.Log),
		handler.NewHealthHandler(cfg.Client.Mongo, cfg.Client.Redis, cfg.Log),
	)
	serverApp.Run()
}

func initPublisher(cfg *config.Config, serverApp *app.Application) events.Publisher {
	if !cfg.EventsEnabled() {
		cfg.Log.Info("Kafka not configured, booking events disabled")
		return events.NewNoopPublisher()
	}

	producer, err := kafka.NewProducer(cfg.Kafka, cfg.BookingEventsTopic, cfg.BookingEventsDLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	if cfg.Kafka.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	}
	serverApp.OnShutdown(producer)

	cfg.Log.Info("Booking events enabled", "topic", cfg.BookingEventsTopic)
	return events.NewKafkaPublisher(producer, ServiceName)
}

func initServices(cfg *config.Config, publisher events.Publisher) service.BookingService {
	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingRepo := repository.NewCachedBookingRepository(
		repository.NewMongoBookingRepository(cfg),
		cfg.Client.Redis,
		cfg.BookingCacheTTL,
		cfg.Log,
	)
	bookingService := service.NewBookingService(
		bookingRepo,
		bookingValidator,
		publisher,
		cfg,
	)

	cfg.Log.Info("Booking service initialized",
		"database", cfg.MongoDatabaseName,
		"collection", cfg.MongoCollectionName,
	)
	return bookingService
}
