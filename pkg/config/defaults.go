package config

import "time"

const (
	DefaultMongoURI            = "mongodb://localhost:27017"
	DefaultMongoDatabaseName   = "BOOKING"
	DefaultMongoCollectionName = "BOOKING"
	DefaultMongoConnTimeout    = 10 * time.Second

	DefaultPort     = "8001"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultCORSAllowedOrigins = "*"

	DefaultRedisDB         = 0
	DefaultBookingCacheTTL = 5 * time.Minute

	DefaultBookingEventsTopic    = "booking.events"
	DefaultBookingEventsDLQTopic = "booking.events.dlq"
	DefaultEventPublishTimeout   = 3 * time.Second
)
