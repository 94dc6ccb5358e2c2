package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "slotbook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultTokenTTL = 5 * time.Hour

	DefaultOtpTTL       = 10 * time.Minute
	DefaultSlotDuration = 30

	DefaultSMTPPort     = 587
	DefaultDashboardURL = "http://localhost:5173/admin/dashboard"

	DefaultNotificationsEnabled = false
	DefaultNotificationsTopic   = "slotbook.notifications"
	DefaultNotificationsDLQ     = "slotbook.notifications.dlq"
	DefaultNotificationsGroupID = "slotbook-notifier"

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)
