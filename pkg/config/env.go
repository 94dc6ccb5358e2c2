package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvJWTSecret = "JWT_SECRET"
	EnvTokenTTL  = "TOKEN_TTL"

	EnvAdminEmail       = "ADMIN_EMAIL"
	EnvAdminPassword    = "ADMIN_PASSWORD"
	EnvAdminNotifyEmail = "ADMIN_NOTIFY_EMAIL"

	EnvOtpTTL              = "OTP_TTL"
	EnvDefaultSlotDuration = "DEFAULT_SLOT_DURATION"

	EnvSMTPHost     = "SMTP_HOST"
	EnvSMTPPort     = "SMTP_PORT"
	EnvSMTPUsername = "SMTP_USERNAME"
	EnvSMTPPassword = "SMTP_PASSWORD"
	EnvEmailFrom    = "EMAIL_FROM"
	EnvDashboardURL = "DASHBOARD_URL"

	EnvNotificationsEnabled = "NOTIFICATIONS_ENABLED"
	EnvNotificationsTopic   = "NOTIFICATIONS_TOPIC"
	EnvNotificationsDLQ     = "NOTIFICATIONS_DLQ_TOPIC"
	EnvNotificationsGroupID = "NOTIFICATIONS_GROUP_ID"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
